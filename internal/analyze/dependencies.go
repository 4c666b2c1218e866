package analyze

import (
	"context"

	"github.com/temirov/deploy_scripts/internal/ignore"
)

// RepositoryInspector exposes the repository queries the analysis run needs.
type RepositoryInspector interface {
	DiscoverRepositoryRoot(executionContext context.Context, candidatePath string) (string, error)
	IsFileTracked(executionContext context.Context, repositoryPath string, relativeFilePath string) (bool, error)
	DiffFileAgainstHead(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error)
	DiffStagedFile(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error)
}

// ChangeEnumerator returns every changed path in the repository once.
type ChangeEnumerator interface {
	EnumerateChangedFiles(executionContext context.Context, repositoryPath string) []string
}

// IgnoreRuleProvider loads compiled ignore rules and appends new patterns.
type IgnoreRuleProvider interface {
	LoadRules(repositoryRoot string) ([]ignore.Rule, error)
	AppendPatterns(repositoryRoot string, patterns []string) error
}

// ConfirmationPrompter asks the operator a yes/no question.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
