package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/deploy_scripts/internal/changes"
	"github.com/temirov/deploy_scripts/internal/gitrepo"
	"github.com/temirov/deploy_scripts/internal/ignore"
)

const (
	serviceLoggerMissingMessageConstant   = "deploy: logger not configured"
	sensitiveFilesExcludedMessageConstant = "deploy: sensitive files excluded from commit"

	statusCheckMessageConstant        = "Checking repository status...\n"
	currentBranchTemplateConstant     = "   Current branch: %s\n"
	changeCountTemplateConstant       = "   Found %d changes\n"
	nothingToDeployMessageConstant    = "Nothing to deploy\n"
	stagingMessageConstant            = "Staging changes...\n"
	skippedFileTemplateConstant       = "   Warning: Skipping non-existent file: %s\n"
	ignoredFileTemplateConstant       = "   Skipping ignored file: %s\n"
	sensitiveFileTemplateConstant     = "   Warning: Excluding potentially sensitive file: %s\n"
	stagingCompleteMessageConstant    = "   All changes staged\n"
	commitCreatedTemplateConstant     = "   Commit created: %s\n"
	pushingMessageConstant            = "Pushing to remote...\n"
	pushDestinationTemplateConstant   = "   Push destination: %s/%s\n"
	pushCompleteMessageConstant       = "   Changes pushed successfully!\n"
	pushFailedTemplateConstant        = "Push failed: %v\n   The commit is durable; push manually once the remote is reachable\n"
	deploymentCompleteMessageConstant = "Deployment completed successfully!\n"

	repositoryRootLogFieldConstant = "repository_root"
	branchNameLogFieldConstant     = "branch"
	pipelineStateLogFieldConstant  = "pipeline_state"
	deploymentNumberLogField       = "deployment_number"
	stateAdvancedMessageConstant   = "Deployment pipeline advanced"
)

// ErrLoggerNotConfigured indicates a Service was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(serviceLoggerMissingMessageConstant)

// ErrSensitiveFilesExcluded signals that potentially sensitive paths were kept
// out of the commit. The deployment itself still completes; the error forces a
// non-zero exit so the exclusions are not silently overlooked.
var ErrSensitiveFilesExcluded = errors.New(sensitiveFilesExcludedMessageConstant)

// OSFileSystem implements FileSystem against the host filesystem.
type OSFileSystem struct{}

// Stat describes the named file.
func (OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// CommandOptions carries one deployment run's resolved settings.
type CommandOptions struct {
	WorkingDirectory string
	RemoteName       string
}

// Service drives the deployment pipeline: status check, staging, commit, and
// push. Staged and committed work is never rolled back; a push failure leaves
// the local commit durable for a manual retry.
type Service struct {
	logger       *zap.Logger
	repository   GitRepository
	logReader    DeploymentLogReader
	ruleProvider IgnoreRuleProvider
	detector     *ignore.SensitiveDetector
	fileSystem   FileSystem
	clock        Clock
	outputWriter io.Writer
}

// NewService constructs a Service using the provided dependencies. A nil
// detector falls back to the built-in sensitive patterns; a nil file system
// falls back to the host filesystem; a nil clock falls back to the system
// clock.
func NewService(logger *zap.Logger, repository GitRepository, logReader DeploymentLogReader, ruleProvider IgnoreRuleProvider, detector *ignore.SensitiveDetector, fileSystem FileSystem, clock Clock, outputWriter io.Writer) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if ruleProvider == nil {
		ruleProvider = ignore.NewRuleLoader(logger)
	}
	if detector == nil {
		detector = ignore.NewSensitiveDetector()
	}
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		logger:       logger,
		repository:   repository,
		logReader:    logReader,
		ruleProvider: ruleProvider,
		detector:     detector,
		fileSystem:   fileSystem,
		clock:        clock,
		outputWriter: outputWriter,
	}, nil
}

// Run executes the deployment pipeline end to end. A clean working tree is a
// successful no-op; every other failure before the push is fatal, while a
// push failure is reported and absorbed because the commit already exists.
// Ignored and potentially sensitive paths never enter the commit; when
// sensitive paths were excluded the run finishes and then returns
// ErrSensitiveFilesExcluded.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	runState, statusError := service.checkStatus(executionContext, RunState{State: StateIdle}, options)
	if statusError != nil {
		return statusError
	}
	if runState.State == StateNothingToDeploy {
		fmt.Fprint(service.outputWriter, nothingToDeployMessageConstant)
		return nil
	}

	runState, recordError := service.readDeploymentRecord(runState, options)
	if recordError != nil {
		return recordError
	}

	runState, stagingError := service.stageChanges(executionContext, runState)
	if stagingError != nil {
		return stagingError
	}
	if len(runState.Plan.StagePaths) == 0 && len(runState.Plan.RemovePaths) == 0 {
		fmt.Fprint(service.outputWriter, nothingToDeployMessageConstant)
		if runState.Classification.HasSensitive() {
			return ErrSensitiveFilesExcluded
		}
		return nil
	}

	runState, commitError := service.commit(executionContext, runState)
	if commitError != nil {
		return commitError
	}

	service.push(executionContext, runState, options)
	if runState.Classification.HasSensitive() {
		return ErrSensitiveFilesExcluded
	}
	return nil
}

func (service *Service) checkStatus(executionContext context.Context, runState RunState, options CommandOptions) (RunState, error) {
	fmt.Fprint(service.outputWriter, statusCheckMessageConstant)

	repositoryRoot, discoveryError := service.repository.DiscoverRepositoryRoot(executionContext, options.WorkingDirectory)
	if discoveryError != nil {
		return runState.WithState(StateFailed), discoveryError
	}

	branchName, branchError := service.repository.GetCurrentBranch(executionContext, repositoryRoot)
	if branchError != nil {
		return runState.WithState(StateFailed), branchError
	}
	fmt.Fprintf(service.outputWriter, currentBranchTemplateConstant, branchName)

	porcelainOutput, statusError := service.repository.StatusPorcelain(executionContext, repositoryRoot)
	if statusError != nil {
		return runState.WithState(StateFailed), statusError
	}

	changeSet := changes.ParsePorcelainStatus(porcelainOutput)
	updatedState := runState
	updatedState.RepositoryRoot = repositoryRoot
	updatedState.BranchName = branchName
	updatedState.ChangeSet = changeSet

	if changeSet.IsEmpty() {
		return updatedState.WithState(StateNothingToDeploy), nil
	}
	fmt.Fprintf(service.outputWriter, changeCountTemplateConstant, changeSet.TotalCount())

	updatedState = updatedState.WithState(StateStatusChecked)
	service.logStateAdvance(updatedState)
	return updatedState, nil
}

func (service *Service) readDeploymentRecord(runState RunState, options CommandOptions) (RunState, error) {
	deploymentRecord, readError := service.logReader.ReadLatestRecord(runState.RepositoryRoot, options.WorkingDirectory)
	if readError != nil {
		return runState.WithState(StateFailed), readError
	}

	updatedState := runState
	updatedState.Record = deploymentRecord
	service.logger.Info(stateAdvancedMessageConstant,
		zap.String(pipelineStateLogFieldConstant, string(updatedState.State)),
		zap.String(deploymentNumberLogField, deploymentRecord.Number))
	return updatedState, nil
}

func (service *Service) stageChanges(executionContext context.Context, runState RunState) (RunState, error) {
	fmt.Fprint(service.outputWriter, stagingMessageConstant)

	ignoreRules, loadError := service.ruleProvider.LoadRules(runState.RepositoryRoot)
	if loadError != nil {
		return runState.WithState(StateFailed), loadError
	}
	pathMatcher := ignore.NewMatcher(ignoreRules, service.detector)

	candidatePaths := []string{}
	candidatePaths = append(candidatePaths, runState.ChangeSet.Modified...)
	candidatePaths = append(candidatePaths, runState.ChangeSet.Added...)
	candidatePaths = append(candidatePaths, runState.ChangeSet.Untracked...)

	classification := changes.ClassifyPaths(candidatePaths, pathMatcher)
	for _, ignoredPath := range classification.Ignored {
		fmt.Fprintf(service.outputWriter, ignoredFileTemplateConstant, ignoredPath)
	}
	for _, sensitivePath := range classification.Sensitive {
		fmt.Fprintf(service.outputWriter, sensitiveFileTemplateConstant, sensitivePath)
	}

	commitPlan := CommitPlan{}
	for _, eligiblePath := range classification.Eligible {
		if _, statError := service.fileSystem.Stat(filepath.Join(runState.RepositoryRoot, eligiblePath)); statError != nil {
			fmt.Fprintf(service.outputWriter, skippedFileTemplateConstant, eligiblePath)
			commitPlan.SkippedPaths = append(commitPlan.SkippedPaths, eligiblePath)
			continue
		}
		commitPlan.StagePaths = append(commitPlan.StagePaths, eligiblePath)
	}

	for _, deletedPath := range runState.ChangeSet.Deleted {
		isTracked, trackedError := service.repository.IsFileTracked(executionContext, runState.RepositoryRoot, deletedPath)
		if trackedError != nil {
			return runState.WithState(StateFailed), trackedError
		}
		if isTracked {
			commitPlan.RemovePaths = append(commitPlan.RemovePaths, deletedPath)
		}
	}

	for _, stagePath := range commitPlan.StagePaths {
		if stageError := service.repository.StageFile(executionContext, runState.RepositoryRoot, stagePath); stageError != nil {
			return runState.WithState(StateFailed), stageError
		}
	}
	for _, removePath := range commitPlan.RemovePaths {
		if removeError := service.repository.RemoveFileFromIndex(executionContext, runState.RepositoryRoot, removePath); removeError != nil {
			return runState.WithState(StateFailed), removeError
		}
	}
	if len(commitPlan.StagePaths) > 0 || len(commitPlan.RemovePaths) > 0 {
		fmt.Fprint(service.outputWriter, stagingCompleteMessageConstant)
	}

	updatedState := runState
	updatedState.Classification = classification
	updatedState.Plan = commitPlan
	updatedState = updatedState.WithState(StateStaged)
	service.logStateAdvance(updatedState)
	return updatedState, nil
}

func (service *Service) commit(executionContext context.Context, runState RunState) (RunState, error) {
	commitMessage := BuildCommitMessage(runState.Record, runState.BranchName, service.clock.Now())

	updatedState := runState
	updatedState.Plan.CommitMessage = commitMessage

	if commitError := service.repository.CreateCommit(executionContext, runState.RepositoryRoot, commitMessage); commitError != nil {
		return updatedState.WithState(StateFailed), commitError
	}
	fmt.Fprintf(service.outputWriter, commitCreatedTemplateConstant, firstLine(commitMessage))

	updatedState = updatedState.WithState(StateCommitted)
	service.logStateAdvance(updatedState)
	return updatedState, nil
}

func (service *Service) push(executionContext context.Context, runState RunState, options CommandOptions) {
	fmt.Fprint(service.outputWriter, pushingMessageConstant)
	service.reportPushDestination(executionContext, runState, options)

	hasUpstream, upstreamError := service.repository.HasUpstreamBranch(executionContext, runState.RepositoryRoot)
	if upstreamError != nil {
		fmt.Fprintf(service.outputWriter, pushFailedTemplateConstant, upstreamError)
		return
	}

	var pushError error
	if hasUpstream {
		pushError = service.repository.Push(executionContext, runState.RepositoryRoot)
	} else {
		pushError = service.repository.PushSettingUpstream(executionContext, runState.RepositoryRoot, options.RemoteName, runState.BranchName)
	}
	if pushError != nil {
		fmt.Fprintf(service.outputWriter, pushFailedTemplateConstant, pushError)
		return
	}

	fmt.Fprint(service.outputWriter, pushCompleteMessageConstant)
	fmt.Fprint(service.outputWriter, deploymentCompleteMessageConstant)
	service.logStateAdvance(runState.WithState(StatePushed))
}

func (service *Service) reportPushDestination(executionContext context.Context, runState RunState, options CommandOptions) {
	remoteURL, remoteError := service.repository.GetRemoteURL(executionContext, runState.RepositoryRoot, options.RemoteName)
	if remoteError != nil {
		return
	}
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return
	}
	fmt.Fprintf(service.outputWriter, pushDestinationTemplateConstant, parsedRemote.Owner, parsedRemote.Repository)
}

func (service *Service) logStateAdvance(runState RunState) {
	service.logger.Debug(stateAdvancedMessageConstant,
		zap.String(pipelineStateLogFieldConstant, string(runState.State)),
		zap.String(repositoryRootLogFieldConstant, runState.RepositoryRoot),
		zap.String(branchNameLogFieldConstant, runState.BranchName))
}

func firstLine(message string) string {
	if newlineIndex := strings.Index(message, "\n"); newlineIndex >= 0 {
		return message[:newlineIndex]
	}
	return message
}
