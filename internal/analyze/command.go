package analyze

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/deploy_scripts/internal/changes"
	"github.com/temirov/deploy_scripts/internal/execshell"
	"github.com/temirov/deploy_scripts/internal/gitrepo"
	"github.com/temirov/deploy_scripts/internal/ignore"
	"github.com/temirov/deploy_scripts/internal/utils"
	flagutils "github.com/temirov/deploy_scripts/internal/utils/flags"
)

const (
	commandUseConstant   = "analyze"
	commandShortConstant = "Classify changed files and generate analysis artifacts"
	commandLongConstant  = "Analyze enumerates changed files, flags potentially sensitive paths, and " +
		"writes a categorized prompt artifact plus a JSON analysis summary for review before deployment."

	flagPromptFileNameConstant        = "prompt-file"
	flagPromptFileDescriptionConstant = "Path for the generated prompt artifact"
	flagAnalysisFileNameConstant      = "analysis-file"
	flagAnalysisFileDescription       = "Path for the generated JSON analysis artifact"
	flagAssumeYesNameConstant         = "yes"
	flagAssumeYesDescriptionConstant  = "Assume yes for confirmation prompts"
	flagRulesFileNameConstant         = "rules-file"
	flagRulesFileDescriptionConstant  = "Path to a YAML file with additional sensitive patterns and keywords"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the analyze cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Inspector             RepositoryInspector
	Enumerator            ChangeEnumerator
	RuleProvider          IgnoreRuleProvider
	Prompter              ConfirmationPrompter
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for the analysis workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagPromptFileNameConstant, "", flagPromptFileDescriptionConstant)
	command.Flags().String(flagAnalysisFileNameConstant, "", flagAnalysisFileDescription)
	command.Flags().String(flagRulesFileNameConstant, "", flagRulesFileDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagAssumeYesNameConstant, false, flagAssumeYesDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	if rulesFlagValue, flagError := command.Flags().GetString(flagRulesFileNameConstant); flagError == nil && len(rulesFlagValue) > 0 {
		configuration.RulesFilePath = rulesFlagValue
	}
	analysisRules, rulesError := LoadAnalysisRules(configuration.RulesFilePath)
	if rulesError != nil {
		return rulesError
	}
	configuration = analysisRules.MergeIntoConfiguration(configuration)

	options, optionsError := builder.parseOptions(command, arguments, configuration)
	if optionsError != nil {
		return optionsError
	}

	inspector, enumerator, dependencyError := builder.resolveRepositoryDependencies(logger)
	if dependencyError != nil {
		return dependencyError
	}

	detector := ignore.NewSensitiveDetectorWithAdditions(configuration.SensitivePatterns, configuration.SensitiveKeywords)

	ruleProvider := builder.RuleProvider
	if ruleProvider == nil {
		ruleProvider = ignore.NewRuleLoader(logger)
	}

	prompter := builder.Prompter
	if prompter == nil {
		prompter = NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
	}

	service, serviceError := NewService(logger, inspector, enumerator, ruleProvider, detector, prompter, nil, utils.NewFlushingWriter(command.OutOrStdout()))
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string, configuration CommandConfiguration) (CommandOptions, error) {
	effectiveConfiguration := configuration
	if promptFlagValue, flagError := command.Flags().GetString(flagPromptFileNameConstant); flagError == nil && len(promptFlagValue) > 0 {
		effectiveConfiguration.PromptArtifactPath = promptFlagValue
	}
	if analysisFlagValue, flagError := command.Flags().GetString(flagAnalysisFileNameConstant); flagError == nil && len(analysisFlagValue) > 0 {
		effectiveConfiguration.AnalysisArtifactPath = analysisFlagValue
	}
	if assumeYesValue, flagError := command.Flags().GetBool(flagAssumeYesNameConstant); flagError == nil && assumeYesValue {
		effectiveConfiguration.AssumeYes = true
	}
	effectiveConfiguration = effectiveConfiguration.WithDefaults()

	workingDirectory := ""
	if len(arguments) > 0 {
		workingDirectory = arguments[0]
	}
	if len(workingDirectory) == 0 {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return CommandOptions{}, workingDirectoryError
		}
		workingDirectory = currentDirectory
	}

	options := CommandOptions{
		WorkingDirectory:     workingDirectory,
		PromptArtifactPath:   effectiveConfiguration.PromptArtifactPath,
		AnalysisArtifactPath: effectiveConfiguration.AnalysisArtifactPath,
		AssumeYes:            effectiveConfiguration.AssumeYes,
		Interactive:          IsInteractiveSession(os.Stdin),
	}

	return options, nil
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

func (builder *CommandBuilder) resolveRepositoryDependencies(logger *zap.Logger) (RepositoryInspector, ChangeEnumerator, error) {
	inspector := builder.Inspector
	enumerator := builder.Enumerator
	if inspector != nil && enumerator != nil {
		return inspector, enumerator, nil
	}

	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), builder.CommandEventsObserver)
	if executorError != nil {
		return nil, nil, executorError
	}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, nil, managerError
	}
	if inspector == nil {
		inspector = repositoryManager
	}
	if enumerator == nil {
		managedEnumerator, enumeratorError := changes.NewEnumerator(logger, repositoryManager)
		if enumeratorError != nil {
			return nil, nil, enumeratorError
		}
		enumerator = managedEnumerator
	}

	return inspector, enumerator, nil
}
