package deploy

import (
	"context"
	"io/fs"

	"github.com/temirov/deploy_scripts/internal/deploylog"
	"github.com/temirov/deploy_scripts/internal/ignore"
)

// GitRepository exposes the repository operations the deployment pipeline uses.
type GitRepository interface {
	DiscoverRepositoryRoot(executionContext context.Context, candidatePath string) (string, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	StatusPorcelain(executionContext context.Context, repositoryPath string) (string, error)
	IsFileTracked(executionContext context.Context, repositoryPath string, relativeFilePath string) (bool, error)
	StageFile(executionContext context.Context, repositoryPath string, relativeFilePath string) error
	RemoveFileFromIndex(executionContext context.Context, repositoryPath string, relativeFilePath string) error
	CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
	HasUpstreamBranch(executionContext context.Context, repositoryPath string) (bool, error)
	Push(executionContext context.Context, repositoryPath string) error
	PushSettingUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// IgnoreRuleProvider loads the compiled ignore rules used to filter staging candidates.
type IgnoreRuleProvider interface {
	LoadRules(repositoryRoot string) ([]ignore.Rule, error)
}

// DeploymentLogReader supplies the freshest deployment record.
type DeploymentLogReader interface {
	ReadLatestRecord(repositoryRoot string, workingDirectory string) (deploylog.DeploymentRecord, error)
}

// FileSystem provides the filesystem checks the staging step performs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}
