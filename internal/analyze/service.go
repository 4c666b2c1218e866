package analyze

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
	"github.com/temirov/deploy_scripts/internal/ignore"
)

const (
	sensitiveFilesDetectedMessageConstant = "analyze: sensitive files detected"
	serviceLoggerMissingMessageConstant   = "analyze: logger not configured"

	noChangesDetectedMessageConstant      = "No changes detected\n"
	changedFileCountTemplateConstant      = "Found %d changed files\n"
	sensitiveWarningBannerTemplate        = "\nWARNING: Found %d potentially sensitive files!\n"
	sensitiveFileLineTemplateConstant     = "   - %s\n"
	sensitiveOverflowTemplateConstant     = "   ... and %d more\n"
	gitignoreAppendPromptConstant         = "\nDo you want to add these files to .gitignore? (y/N): "
	gitignoreAppendedMessageConstant      = "Added sensitive files to .gitignore\n"
	nonInteractiveExclusionMessage        = "\nNon-interactive mode: Excluding sensitive files from deployment\n"
	ignoredFilesNoteTemplateConstant      = "\nNote: %d files are already ignored and will be skipped\n"
	nothingAfterFilteringMessageConstant  = "No files to analyze after filtering\n"
	promptSavedTemplateConstant           = "\nPrompt saved to: %s\n"
	analysisSavedTemplateConstant         = "Analysis saved to: %s\n"
	sensitiveDisplayLimitConstant         = 5
	sampleDiffCandidateLimitConstant      = 10
	untrackedContentLimitConstant         = 1000
	untrackedFileTemplateConstant         = "New file: %s\n\n%s"
	untrackedTruncationSuffixConstant     = "..."
	untrackedUnreadableTemplateConstant   = "New file: %s (binary or unreadable)"
	repositoryRootLogFieldConstant        = "repository_root"
	sensitiveCountLogFieldConstant        = "sensitive_count"
	eligibleCountLogFieldConstant         = "eligible_count"
	classificationCompleteMessageConstant = "Classified changed files"
)

// importantDiffPatterns select the files worth sampling diffs from.
var importantDiffPatterns = []string{".swift", ".kt", ".ts", ".tsx", ".py", "gradle", "package.json"}

var (
	// ErrSensitiveFilesDetected signals that sensitive paths were found and
	// excluded; the process must exit non-zero even when analysis succeeded.
	ErrSensitiveFilesDetected = errors.New(sensitiveFilesDetectedMessageConstant)
	// ErrLoggerNotConfigured indicates a Service was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(serviceLoggerMissingMessageConstant)
)

// FileSystem provides the filesystem reads the analysis run performs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements FileSystem against the host filesystem.
type OSFileSystem struct{}

// ReadFile reads the named file.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// CommandOptions carries one analysis run's resolved settings.
type CommandOptions struct {
	WorkingDirectory     string
	PromptArtifactPath   string
	AnalysisArtifactPath string
	AssumeYes            bool
	Interactive          bool
}

// RunState is the immutable value threaded through the analysis pipeline.
// Each stage derives a new state rather than mutating a shared one.
type RunState struct {
	RepositoryRoot string
	ChangedPaths   []string
	Classification changes.Classification
	Categories     []Category
	SampleDiffs    []SampleDiff
}

// Service orchestrates change enumeration, classification, and artifact
// generation for the analyze command.
type Service struct {
	logger       *zap.Logger
	inspector    RepositoryInspector
	enumerator   ChangeEnumerator
	ruleProvider IgnoreRuleProvider
	detector     *ignore.SensitiveDetector
	prompter     ConfirmationPrompter
	fileSystem   FileSystem
	outputWriter io.Writer
}

// NewService constructs a Service using the provided dependencies. A nil
// detector falls back to the built-in sensitive patterns; a nil file system
// falls back to the host filesystem.
func NewService(logger *zap.Logger, inspector RepositoryInspector, enumerator ChangeEnumerator, ruleProvider IgnoreRuleProvider, detector *ignore.SensitiveDetector, prompter ConfirmationPrompter, fileSystem FileSystem, outputWriter io.Writer) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if detector == nil {
		detector = ignore.NewSensitiveDetector()
	}
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		logger:       logger,
		inspector:    inspector,
		enumerator:   enumerator,
		ruleProvider: ruleProvider,
		detector:     detector,
		prompter:     prompter,
		fileSystem:   fileSystem,
		outputWriter: outputWriter,
	}, nil
}

// Run executes the analysis pipeline. A run that finds sensitive files
// completes its artifacts and then returns ErrSensitiveFilesDetected so the
// process exits non-zero; a repository with nothing to analyze is a success.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	repositoryRoot, discoveryError := service.inspector.DiscoverRepositoryRoot(executionContext, options.WorkingDirectory)
	if discoveryError != nil {
		return discoveryError
	}

	ignoreRules, loadError := service.ruleProvider.LoadRules(repositoryRoot)
	if loadError != nil {
		return loadError
	}
	pathMatcher := ignore.NewMatcher(ignoreRules, service.detector)

	changedPaths := service.enumerator.EnumerateChangedFiles(executionContext, repositoryRoot)
	if len(changedPaths) == 0 {
		fmt.Fprint(service.outputWriter, noChangesDetectedMessageConstant)
		return nil
	}
	fmt.Fprintf(service.outputWriter, changedFileCountTemplateConstant, len(changedPaths))

	classification := changes.ClassifyPaths(changedPaths, pathMatcher)
	service.logger.Debug(classificationCompleteMessageConstant,
		zap.String(repositoryRootLogFieldConstant, repositoryRoot),
		zap.Int(sensitiveCountLogFieldConstant, len(classification.Sensitive)),
		zap.Int(eligibleCountLogFieldConstant, len(classification.Eligible)))

	if classification.HasSensitive() {
		if handleError := service.handleSensitiveFindings(repositoryRoot, classification.Sensitive, options); handleError != nil {
			return handleError
		}
	}
	if len(classification.Ignored) > 0 {
		fmt.Fprintf(service.outputWriter, ignoredFilesNoteTemplateConstant, len(classification.Ignored))
	}

	if len(classification.Eligible) == 0 {
		fmt.Fprint(service.outputWriter, nothingAfterFilteringMessageConstant)
		if classification.HasSensitive() {
			return ErrSensitiveFilesDetected
		}
		return nil
	}

	runState := RunState{
		RepositoryRoot: repositoryRoot,
		ChangedPaths:   changedPaths,
		Classification: classification,
	}
	runState = service.categorize(runState)
	runState = service.collectSampleDiffs(executionContext, runState)

	if artifactError := service.writeArtifacts(runState, options); artifactError != nil {
		return artifactError
	}

	if classification.HasSensitive() {
		return ErrSensitiveFilesDetected
	}
	return nil
}

func (service *Service) handleSensitiveFindings(repositoryRoot string, sensitiveFiles []string, options CommandOptions) error {
	fmt.Fprintf(service.outputWriter, sensitiveWarningBannerTemplate, len(sensitiveFiles))
	displayedFiles := sensitiveFiles
	if len(displayedFiles) > sensitiveDisplayLimitConstant {
		displayedFiles = displayedFiles[:sensitiveDisplayLimitConstant]
	}
	for _, sensitiveFile := range displayedFiles {
		fmt.Fprintf(service.outputWriter, sensitiveFileLineTemplateConstant, sensitiveFile)
	}
	if overflowCount := len(sensitiveFiles) - sensitiveDisplayLimitConstant; overflowCount > 0 {
		fmt.Fprintf(service.outputWriter, sensitiveOverflowTemplateConstant, overflowCount)
	}

	if !options.Interactive && !options.AssumeYes {
		fmt.Fprint(service.outputWriter, nonInteractiveExclusionMessage)
		return nil
	}

	appendConfirmed := options.AssumeYes
	if !appendConfirmed && service.prompter != nil {
		confirmed, confirmError := service.prompter.Confirm(gitignoreAppendPromptConstant)
		if confirmError != nil {
			return confirmError
		}
		appendConfirmed = confirmed
	}
	if !appendConfirmed {
		return nil
	}

	if appendError := service.ruleProvider.AppendPatterns(repositoryRoot, sensitiveFiles); appendError != nil {
		return appendError
	}
	fmt.Fprint(service.outputWriter, gitignoreAppendedMessageConstant)
	return nil
}

func (service *Service) categorize(runState RunState) RunState {
	updatedState := runState
	updatedState.Categories = CategorizeFiles(runState.Classification.Eligible)
	return updatedState
}

func (service *Service) collectSampleDiffs(executionContext context.Context, runState RunState) RunState {
	updatedState := runState
	sampleDiffs := []SampleDiff{}

	candidatePaths := runState.Classification.Eligible
	if len(candidatePaths) > sampleDiffCandidateLimitConstant {
		candidatePaths = candidatePaths[:sampleDiffCandidateLimitConstant]
	}

	for _, candidatePath := range candidatePaths {
		if !matchesImportantPattern(candidatePath) {
			continue
		}
		diffContent := service.fileDiff(executionContext, runState.RepositoryRoot, candidatePath)
		if len(diffContent) == 0 {
			continue
		}
		sampleDiffs = append(sampleDiffs, SampleDiff{Path: candidatePath, Diff: diffContent})
	}

	updatedState.SampleDiffs = sampleDiffs
	return updatedState
}

func (service *Service) fileDiff(executionContext context.Context, repositoryRoot string, relativeFilePath string) string {
	isTracked, trackedError := service.inspector.IsFileTracked(executionContext, repositoryRoot, relativeFilePath)
	if trackedError != nil {
		return ""
	}

	if isTracked {
		diffContent, diffError := service.inspector.DiffFileAgainstHead(executionContext, repositoryRoot, relativeFilePath)
		if diffError == nil && len(diffContent) > 0 {
			return diffContent
		}
		stagedDiffContent, stagedDiffError := service.inspector.DiffStagedFile(executionContext, repositoryRoot, relativeFilePath)
		if stagedDiffError != nil {
			return ""
		}
		return stagedDiffContent
	}

	fileContent, readError := service.fileSystem.ReadFile(filepath.Join(repositoryRoot, relativeFilePath))
	if readError != nil {
		return fmt.Sprintf(untrackedUnreadableTemplateConstant, relativeFilePath)
	}
	contentExcerpt := string(fileContent)
	truncated := false
	if len(contentExcerpt) > untrackedContentLimitConstant {
		contentExcerpt = contentExcerpt[:untrackedContentLimitConstant]
		truncated = true
	}
	diffContent := fmt.Sprintf(untrackedFileTemplateConstant, relativeFilePath, contentExcerpt)
	if truncated {
		diffContent += untrackedTruncationSuffixConstant
	}
	return diffContent
}

func (service *Service) writeArtifacts(runState RunState, options CommandOptions) error {
	promptContent := BuildPrompt(runState.Categories, runState.SampleDiffs, runState.Classification.Sensitive)
	if promptError := WritePromptArtifact(options.PromptArtifactPath, promptContent); promptError != nil {
		return promptError
	}
	fmt.Fprintf(service.outputWriter, promptSavedTemplateConstant, options.PromptArtifactPath)

	changeSummary := BuildSummary(runState.Classification.Eligible, runState.Categories, len(runState.Classification.Sensitive))
	securityWarnings := []SecurityWarning{}
	if runState.Classification.HasSensitive() {
		securityWarnings = append(securityWarnings, NewSensitiveFilesWarning(runState.Classification.Sensitive))
	}
	analysisRecord := AnalysisRecord{
		Title:       changeSummary.Title,
		Description: changeSummary.Description,
		Details: AnalysisDetails{
			KeyFeatures:        changeSummary.KeyFeatures,
			TechnicalChanges:   changeSummary.TechnicalChanges,
			BreakingChanges:    changeSummary.BreakingChanges,
			CategoriesAffected: CategoryNames(runState.Categories),
		},
		SecurityWarnings: securityWarnings,
	}
	if analysisError := WriteAnalysisArtifact(options.AnalysisArtifactPath, analysisRecord); analysisError != nil {
		return analysisError
	}
	fmt.Fprintf(service.outputWriter, analysisSavedTemplateConstant, options.AnalysisArtifactPath)
	return nil
}

func matchesImportantPattern(candidatePath string) bool {
	for _, importantPattern := range importantDiffPatterns {
		if strings.Contains(candidatePath, importantPattern) {
			return true
		}
	}
	return false
}
