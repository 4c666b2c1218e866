package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/deploy_scripts/internal/execshell"
)

const (
	gitStatusSubcommandConstant             = "status"
	gitStatusPorcelainFlagConstant          = "--porcelain"
	gitDiffSubcommandConstant               = "diff"
	gitDiffNameOnlyFlagConstant             = "--name-only"
	gitDiffCachedFlagConstant               = "--cached"
	gitDiffHeadReferenceConstant            = "HEAD"
	gitLSFilesSubcommandConstant            = "ls-files"
	gitLSFilesOthersFlagConstant            = "--others"
	gitLSFilesExcludeStandardFlagConstant   = "--exclude-standard"
	gitLSFilesErrorUnmatchFlagConstant      = "--error-unmatch"
	gitAddSubcommandConstant                = "add"
	gitRemoveSubcommandConstant             = "rm"
	gitCommitSubcommandConstant             = "commit"
	gitCommitMessageFlagConstant            = "-m"
	gitPushSubcommandConstant               = "push"
	gitPushSetUpstreamFlagConstant          = "-u"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitRevParseShowToplevelFlagConstant     = "--show-toplevel"
	gitRevParseAbbrevRefFlagConstant        = "--abbrev-ref"
	gitRevParseSymbolicFullNameConstant     = "--symbolic-full-name"
	gitUpstreamReferenceConstant            = "@{u}"
	gitBranchSubcommandConstant             = "branch"
	gitBranchShowCurrentFlagConstant        = "--show-current"
	gitRemoteSubcommandConstant             = "remote"
	gitRemoteGetURLSubcommandConstant       = "get-url"
	gitPathspecSeparatorConstant            = "--"
	gitExecutorNotConfiguredMessage         = "repository manager requires a git executor"
	requiredValueMessageConstant            = "value required"
	repositoryPathRequiredMessageConstant   = "repository path required"
	relativeFilePathRequiredMessageConstant = "relative file path required"
	commitMessageRequiredMessageConstant    = "commit message required"
	pushTargetRequiredMessageConstant       = "remote and branch names required"
)

// GitExecutor abstracts git execution for the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Validation failures surfaced by RepositoryManager operations.
var (
	ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessage)
	ErrRepositoryPathRequired   = errors.New(repositoryPathRequiredMessageConstant)
	ErrFilePathRequired         = errors.New(relativeFilePathRequiredMessageConstant)
	ErrCommitMessageRequired    = errors.New(commitMessageRequiredMessageConstant)
	ErrPushTargetRequired       = errors.New(pushTargetRequiredMessageConstant)
)

// RepositoryManager performs typed git operations against a repository working tree.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// DiscoverRepositoryRoot resolves the repository top-level directory containing candidatePath.
func (manager *RepositoryManager) DiscoverRepositoryRoot(executionContext context.Context, candidatePath string) (string, error) {
	trimmedCandidatePath := strings.TrimSpace(candidatePath)
	if len(trimmedCandidatePath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitRevParseShowToplevelFlagConstant},
		WorkingDirectory: trimmedCandidatePath,
	})
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetCurrentBranch reports the checked-out branch name. A detached HEAD yields an empty name.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitBranchShowCurrentFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// HasUpstreamBranch reports whether the current branch tracks an upstream branch.
func (manager *RepositoryManager) HasUpstreamBranch(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitRevParseAbbrevRefFlagConstant, gitRevParseSymbolicFullNameConstant, gitUpstreamReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// GetRemoteURL reports the fetch URL configured for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return "", RemoteURLParseError{Input: remoteName, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, trimmedRemoteName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// StatusPorcelain returns the porcelain status listing for the repository.
func (manager *RepositoryManager) StatusPorcelain(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}

	return executionResult.StandardOutput, nil
}

// ListWorkingTreeChanges lists paths with unstaged modifications.
func (manager *RepositoryManager) ListWorkingTreeChanges(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.listPaths(executionContext, repositoryPath, []string{gitDiffSubcommandConstant, gitDiffNameOnlyFlagConstant})
}

// ListStagedChanges lists paths with staged modifications.
func (manager *RepositoryManager) ListStagedChanges(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.listPaths(executionContext, repositoryPath, []string{gitDiffSubcommandConstant, gitDiffCachedFlagConstant, gitDiffNameOnlyFlagConstant})
}

// ListUntrackedFiles lists paths unknown to the index, honoring standard git excludes.
func (manager *RepositoryManager) ListUntrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.listPaths(executionContext, repositoryPath, []string{gitLSFilesSubcommandConstant, gitLSFilesOthersFlagConstant, gitLSFilesExcludeStandardFlagConstant})
}

// IsFileTracked reports whether the index knows the supplied repository-relative path.
func (manager *RepositoryManager) IsFileTracked(executionContext context.Context, repositoryPath string, relativeFilePath string) (bool, error) {
	trimmedFilePath := strings.TrimSpace(relativeFilePath)
	if len(trimmedFilePath) == 0 {
		return false, ErrFilePathRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitLSFilesSubcommandConstant, gitLSFilesErrorUnmatchFlagConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}

	return true, nil
}

// StageFile adds the supplied repository-relative path to the index.
func (manager *RepositoryManager) StageFile(executionContext context.Context, repositoryPath string, relativeFilePath string) error {
	trimmedFilePath := strings.TrimSpace(relativeFilePath)
	if len(trimmedFilePath) == 0 {
		return ErrFilePathRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// RemoveFileFromIndex stages the deletion of a tracked path without touching the working tree.
func (manager *RepositoryManager) RemoveFileFromIndex(executionContext context.Context, repositoryPath string, relativeFilePath string) error {
	trimmedFilePath := strings.TrimSpace(relativeFilePath)
	if len(trimmedFilePath) == 0 {
		return ErrFilePathRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoveSubcommandConstant, gitDiffCachedFlagConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CreateCommit records the staged changes using the supplied message.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	if len(strings.TrimSpace(commitMessage)) == 0 {
		return ErrCommitMessageRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// Push publishes committed work to the already-configured upstream branch.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// PushSettingUpstream publishes committed work while establishing upstream tracking.
func (manager *RepositoryManager) PushSettingUpstream(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedRemoteName) == 0 || len(trimmedBranchName) == 0 {
		return ErrPushTargetRequired
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitPushSetUpstreamFlagConstant, trimmedRemoteName, trimmedBranchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// DiffFileAgainstHead returns the textual diff of one path against HEAD.
func (manager *RepositoryManager) DiffFileAgainstHead(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error) {
	trimmedFilePath := strings.TrimSpace(relativeFilePath)
	if len(trimmedFilePath) == 0 {
		return "", ErrFilePathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitDiffHeadReferenceConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// DiffStagedFile returns the textual diff of one path held in the index.
func (manager *RepositoryManager) DiffStagedFile(executionContext context.Context, repositoryPath string, relativeFilePath string) (string, error) {
	trimmedFilePath := strings.TrimSpace(relativeFilePath)
	if len(trimmedFilePath) == 0 {
		return "", ErrFilePathRequired
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitDiffSubcommandConstant, gitDiffCachedFlagConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func (manager *RepositoryManager) listPaths(executionContext context.Context, repositoryPath string, arguments []string) ([]string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return nil, executionError
	}

	outputLines := strings.Split(executionResult.StandardOutput, "\n")
	listedPaths := make([]string, 0, len(outputLines))
	for _, outputLine := range outputLines {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		listedPaths = append(listedPaths, trimmedLine)
	}

	return listedPaths, nil
}
