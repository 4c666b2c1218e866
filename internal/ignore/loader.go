package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	ignoreFileNameConstant                = ".gitignore"
	gitMetadataDirectoryNameConstant      = ".git"
	repositoryRootRequiredMessageConstant = "repository root required"
	ignoreFileUnreadableMessageConstant   = "Could not read ignore file"
	ignoreFileWalkFailureMessageConstant  = "Could not walk repository for ignore files"
	ignoreFilePathLogFieldConstant        = "ignore_file"
	appendedPatternsHeaderConstant        = "\n# Automatically added sensitive files\n"
)

// ErrRepositoryRootRequired reports a loader invoked without a repository root.
var ErrRepositoryRootRequired = errors.New(repositoryRootRequiredMessageConstant)

// RuleLoader discovers ignore files under a repository root and compiles their patterns.
type RuleLoader struct {
	logger *zap.Logger
}

// NewRuleLoader constructs a RuleLoader that reports unreadable files through the supplied logger.
func NewRuleLoader(logger *zap.Logger) *RuleLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleLoader{logger: logger}
}

// LoadRules walks the repository tree and compiles every ignore file it finds.
// Unreadable files produce a logged warning and are skipped; the remaining
// rules still load. The returned sequence preserves discovery order.
func (loader *RuleLoader) LoadRules(repositoryRoot string) ([]Rule, error) {
	trimmedRoot := strings.TrimSpace(repositoryRoot)
	if len(trimmedRoot) == 0 {
		return nil, ErrRepositoryRootRequired
	}

	loadedRules := []Rule{}
	walkError := filepath.WalkDir(trimmedRoot, func(visitedPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			loader.logger.Warn(ignoreFileWalkFailureMessageConstant, zap.String(ignoreFilePathLogFieldConstant, visitedPath), zap.Error(visitError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == gitMetadataDirectoryNameConstant {
				return fs.SkipDir
			}
			return nil
		}
		if directoryEntry.Name() != ignoreFileNameConstant {
			return nil
		}

		sourceDirectory, relativeError := filepath.Rel(trimmedRoot, filepath.Dir(visitedPath))
		if relativeError != nil {
			loader.logger.Warn(ignoreFileUnreadableMessageConstant, zap.String(ignoreFilePathLogFieldConstant, visitedPath), zap.Error(relativeError))
			return nil
		}
		if sourceDirectory == "." {
			sourceDirectory = ""
		}

		fileRules, parseError := loader.parseIgnoreFile(visitedPath, filepath.ToSlash(sourceDirectory))
		if parseError != nil {
			loader.logger.Warn(ignoreFileUnreadableMessageConstant, zap.String(ignoreFilePathLogFieldConstant, visitedPath), zap.Error(parseError))
			return nil
		}

		loadedRules = append(loadedRules, fileRules...)
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return loadedRules, nil
}

func (loader *RuleLoader) parseIgnoreFile(ignoreFilePath string, sourceDirectory string) ([]Rule, error) {
	ignoreFile, openError := os.Open(ignoreFilePath)
	if openError != nil {
		return nil, openError
	}
	defer func() {
		_ = ignoreFile.Close()
	}()

	parsedRules := []Rule{}
	lineScanner := bufio.NewScanner(ignoreFile)
	for lineScanner.Scan() {
		compiledRule, hasRule := CompileRule(sourceDirectory, lineScanner.Text())
		if hasRule {
			parsedRules = append(parsedRules, compiledRule)
		}
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}

	return parsedRules, nil
}

// AppendPatterns appends the supplied patterns to the root ignore file under an
// explanatory header, creating the file when absent. Patterns already written
// verbatim are appended again only by the caller's choice; no de-duplication
// happens here beyond what the caller provides.
func (loader *RuleLoader) AppendPatterns(repositoryRoot string, patterns []string) error {
	trimmedRoot := strings.TrimSpace(repositoryRoot)
	if len(trimmedRoot) == 0 {
		return ErrRepositoryRootRequired
	}
	if len(patterns) == 0 {
		return nil
	}

	ignoreFilePath := filepath.Join(trimmedRoot, ignoreFileNameConstant)
	ignoreFile, openError := os.OpenFile(ignoreFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openError != nil {
		return openError
	}
	defer func() {
		_ = ignoreFile.Close()
	}()

	contentBuilder := strings.Builder{}
	contentBuilder.WriteString(appendedPatternsHeaderConstant)
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if len(trimmedPattern) == 0 {
			continue
		}
		contentBuilder.WriteString(trimmedPattern)
		contentBuilder.WriteString("\n")
	}

	_, writeError := ignoreFile.WriteString(contentBuilder.String())
	return writeError
}
