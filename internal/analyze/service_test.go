package analyze_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/temirov/deploy_scripts/internal/analyze"
	"github.com/temirov/deploy_scripts/internal/ignore"
)

type stubRepositoryInspector struct {
	repositoryRoot string
	discoveryError error
	trackedPaths   map[string]bool
	headDiffs      map[string]string
	stagedDiffs    map[string]string
}

func (inspector *stubRepositoryInspector) DiscoverRepositoryRoot(executionContext context.Context, candidatePath string) (string, error) {
	return inspector.repositoryRoot, inspector.discoveryError
}

func (inspector *stubRepositoryInspector) IsFileTracked(executionContext context.Context, repositoryPath string, relativeFilePath string) (bool, error) {
	return inspector.trackedPaths[relativeFilePath], nil
}

func (inspector *stubRepositoryInspector) DiffFileAgainstHead(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error) {
	return inspector.headDiffs[relativeFilePath], nil
}

func (inspector *stubRepositoryInspector) DiffStagedFile(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error) {
	return inspector.stagedDiffs[relativeFilePath], nil
}

type stubChangeEnumerator struct {
	changedPaths []string
}

func (enumerator *stubChangeEnumerator) EnumerateChangedFiles(executionContext context.Context, repositoryPath string) []string {
	return enumerator.changedPaths
}

type recordingRuleProvider struct {
	rules            []ignore.Rule
	appendedPatterns [][]string
}

func (provider *recordingRuleProvider) LoadRules(repositoryRoot string) ([]ignore.Rule, error) {
	return provider.rules, nil
}

func (provider *recordingRuleProvider) AppendPatterns(repositoryRoot string, patterns []string) error {
	provider.appendedPatterns = append(provider.appendedPatterns, patterns)
	return nil
}

type recordingConfirmationPrompter struct {
	prompts  []string
	response bool
}

func (prompter *recordingConfirmationPrompter) Confirm(prompt string) (bool, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	return prompter.response, nil
}

type mapFileSystem map[string]string

func (fileSystem mapFileSystem) ReadFile(path string) ([]byte, error) {
	content, exists := fileSystem[path]
	if !exists {
		return nil, errors.New("file not found")
	}
	return []byte(content), nil
}

type serviceFixture struct {
	service      *analyze.Service
	ruleProvider *recordingRuleProvider
	prompter     *recordingConfirmationPrompter
	output       *strings.Builder
	options      analyze.CommandOptions
}

func newServiceFixture(testInstance *testing.T, inspector *stubRepositoryInspector, enumerator *stubChangeEnumerator, rules []ignore.Rule, fileSystem analyze.FileSystem) serviceFixture {
	testInstance.Helper()

	ruleProvider := &recordingRuleProvider{rules: rules}
	prompter := &recordingConfirmationPrompter{}
	output := &strings.Builder{}

	service, serviceError := analyze.NewService(zaptest.NewLogger(testInstance), inspector, enumerator, ruleProvider, nil, prompter, fileSystem, output)
	require.NoError(testInstance, serviceError)

	artifactDirectory := testInstance.TempDir()
	options := analyze.CommandOptions{
		WorkingDirectory:     inspector.repositoryRoot,
		PromptArtifactPath:   filepath.Join(artifactDirectory, "prompt.txt"),
		AnalysisArtifactPath: filepath.Join(artifactDirectory, "analysis.json"),
	}

	return serviceFixture{service: service, ruleProvider: ruleProvider, prompter: prompter, output: output, options: options}
}

func TestServiceRunReportsNothingToAnalyze(testInstance *testing.T) {
	inspector := &stubRepositoryInspector{repositoryRoot: "/workspace/project"}
	fixture := newServiceFixture(testInstance, inspector, &stubChangeEnumerator{}, nil, nil)

	runError := fixture.service.Run(context.Background(), fixture.options)

	require.NoError(testInstance, runError)
	require.Contains(testInstance, fixture.output.String(), "No changes detected")
	require.NoFileExists(testInstance, fixture.options.PromptArtifactPath)
}

func TestServiceRunExcludesSensitiveFilesNonInteractively(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	inspector := &stubRepositoryInspector{
		repositoryRoot: repositoryRoot,
		trackedPaths:   map[string]bool{"app.py": true},
		headDiffs:      map[string]string{"app.py": "+print(\"updated\")"},
	}
	enumerator := &stubChangeEnumerator{changedPaths: []string{"secret_api_key.txt", "app.py"}}
	fixture := newServiceFixture(testInstance, inspector, enumerator, nil, nil)

	runError := fixture.service.Run(context.Background(), fixture.options)

	require.ErrorIs(testInstance, runError, analyze.ErrSensitiveFilesDetected)
	require.Empty(testInstance, fixture.ruleProvider.appendedPatterns)
	require.Empty(testInstance, fixture.prompter.prompts)
	require.Contains(testInstance, fixture.output.String(), "Non-interactive mode")

	promptContent, promptReadError := os.ReadFile(fixture.options.PromptArtifactPath)
	require.NoError(testInstance, promptReadError)
	require.Contains(testInstance, string(promptContent), "WARNING: 1 potentially sensitive files detected!")
	require.Contains(testInstance, string(promptContent), "secret_api_key.txt")
	require.Contains(testInstance, string(promptContent), "--- app.py ---")

	analysisContent, analysisReadError := os.ReadFile(fixture.options.AnalysisArtifactPath)
	require.NoError(testInstance, analysisReadError)
	require.Contains(testInstance, string(analysisContent), "sensitive_files")
}

func TestServiceRunAppendsIgnorePatternsOnConfirmation(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	inspector := &stubRepositoryInspector{
		repositoryRoot: repositoryRoot,
		trackedPaths:   map[string]bool{"app.py": true},
		headDiffs:      map[string]string{"app.py": "+print(\"updated\")"},
	}
	enumerator := &stubChangeEnumerator{changedPaths: []string{"secret_api_key.txt", "app.py"}}
	fixture := newServiceFixture(testInstance, inspector, enumerator, nil, nil)
	fixture.prompter.response = true
	fixture.options.Interactive = true

	runError := fixture.service.Run(context.Background(), fixture.options)

	require.ErrorIs(testInstance, runError, analyze.ErrSensitiveFilesDetected)
	require.Len(testInstance, fixture.prompter.prompts, 1)
	require.Equal(testInstance, [][]string{{"secret_api_key.txt"}}, fixture.ruleProvider.appendedPatterns)
	require.Contains(testInstance, fixture.output.String(), "Added sensitive files to .gitignore")
}

func TestServiceRunSkipsAlreadyIgnoredFiles(testInstance *testing.T) {
	ignoreRule, compiled := ignore.CompileRule("", "*.csv")
	require.True(testInstance, compiled)

	inspector := &stubRepositoryInspector{repositoryRoot: "/workspace/project"}
	enumerator := &stubChangeEnumerator{changedPaths: []string{"data/values.csv"}}
	fixture := newServiceFixture(testInstance, inspector, enumerator, []ignore.Rule{ignoreRule}, nil)

	runError := fixture.service.Run(context.Background(), fixture.options)

	require.NoError(testInstance, runError)
	require.Contains(testInstance, fixture.output.String(), "1 files are already ignored")
	require.Contains(testInstance, fixture.output.String(), "No files to analyze after filtering")
	require.NoFileExists(testInstance, fixture.options.PromptArtifactPath)
}

func TestServiceRunSamplesUntrackedFileContent(testInstance *testing.T) {
	repositoryRoot := "/workspace/project"
	inspector := &stubRepositoryInspector{repositoryRoot: repositoryRoot}
	enumerator := &stubChangeEnumerator{changedPaths: []string{"scripts/setup.py"}}
	fileSystem := mapFileSystem{
		filepath.Join(repositoryRoot, "scripts/setup.py"): "import os\n",
	}
	fixture := newServiceFixture(testInstance, inspector, enumerator, nil, fileSystem)

	runError := fixture.service.Run(context.Background(), fixture.options)

	require.NoError(testInstance, runError)

	promptContent, promptReadError := os.ReadFile(fixture.options.PromptArtifactPath)
	require.NoError(testInstance, promptReadError)
	require.Contains(testInstance, string(promptContent), "New file: scripts/setup.py")
	require.Contains(testInstance, string(promptContent), "import os")
}
