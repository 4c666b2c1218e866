package deploy

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/deploy_scripts/internal/deploylog"
	"github.com/temirov/deploy_scripts/internal/execshell"
	"github.com/temirov/deploy_scripts/internal/gitrepo"
	"github.com/temirov/deploy_scripts/internal/utils"
	pathutils "github.com/temirov/deploy_scripts/internal/utils/path"
)

const (
	commandUseConstant   = "deploy"
	commandShortConstant = "Stage, commit, and push changes using the latest deployment log"
	commandLongConstant  = "Deploy reads the most recent deployment log, stages every surviving change, " +
		"creates a commit whose message carries the deployment metadata, and pushes it upstream, " +
		"establishing branch tracking when absent."

	flagRemoteNameConstant        = "remote"
	flagRemoteDescriptionConstant = "Remote used when establishing upstream tracking"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the deploy cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Repository            GitRepository
	LogReader             DeploymentLogReader
	RuleProvider          IgnoreRuleProvider
	FileSystem            FileSystem
	Clock                 Clock
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for the deployment workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagRemoteNameConstant, "", flagRemoteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	if remoteFlagValue, flagError := command.Flags().GetString(flagRemoteNameConstant); flagError == nil && len(remoteFlagValue) > 0 {
		configuration.RemoteName = remoteFlagValue
	}
	configuration = configuration.WithDefaults()

	workingDirectory := ""
	if len(arguments) > 0 {
		workingDirectory = arguments[0]
	}
	if len(workingDirectory) == 0 {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return workingDirectoryError
		}
		workingDirectory = currentDirectory
	}

	repository, repositoryError := builder.resolveRepository(logger)
	if repositoryError != nil {
		return repositoryError
	}

	logReader := builder.LogReader
	if logReader == nil {
		sanitizedLogDirectories := pathutils.NewRepositoryPathSanitizer().Sanitize(configuration.LogDirectories)
		reader, readerError := deploylog.NewReader(logger, sanitizedLogDirectories)
		if readerError != nil {
			return readerError
		}
		logReader = reader
	}

	service, serviceError := NewService(logger, repository, logReader, builder.RuleProvider, nil, builder.FileSystem, builder.Clock, utils.NewFlushingWriter(command.OutOrStdout()))
	if serviceError != nil {
		return serviceError
	}

	options := CommandOptions{
		WorkingDirectory: workingDirectory,
		RemoteName:       configuration.RemoteName,
	}
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveRepository(logger *zap.Logger) (GitRepository, error) {
	if builder.Repository != nil {
		return builder.Repository, nil
	}

	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), builder.CommandEventsObserver)
	if executorError != nil {
		return nil, executorError
	}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}
	return repositoryManager, nil
}
