package changes

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	workingTreeQueryLabelConstant      = "working tree changes"
	stagedQueryLabelConstant           = "staged changes"
	untrackedQueryLabelConstant        = "untracked files"
	enumerationFailureMessageConstant  = "Unable to enumerate changed files"
	enumerationQueryLogFieldConstant   = "query"
	repositoryPathLogFieldConstant     = "repository_path"
	loggerNotConfiguredMessageConstant = "changes: logger not configured"
	listerNotConfiguredMessageConstant = "changes: change lister not configured"
)

var (
	// ErrLoggerNotConfigured indicates an Enumerator was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrChangeListerNotConfigured indicates an Enumerator was constructed without a change lister.
	ErrChangeListerNotConfigured = errors.New(listerNotConfiguredMessageConstant)
)

// ChangeLister exposes the repository queries the enumerator consults.
type ChangeLister interface {
	ListWorkingTreeChanges(executionContext context.Context, repositoryPath string) ([]string, error)
	ListStagedChanges(executionContext context.Context, repositoryPath string) ([]string, error)
	ListUntrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error)
}

// Enumerator collects the union of working tree, staged, and untracked paths.
type Enumerator struct {
	logger       *zap.Logger
	changeLister ChangeLister
}

// NewEnumerator constructs an Enumerator with the provided dependencies.
func NewEnumerator(logger *zap.Logger, changeLister ChangeLister) (*Enumerator, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if changeLister == nil {
		return nil, ErrChangeListerNotConfigured
	}
	return &Enumerator{logger: logger, changeLister: changeLister}, nil
}

// EnumerateChangedFiles returns every changed path once, blank entries
// removed, preserving first-seen order across the three queries. A failing
// query degrades to an empty contribution after logging so one broken probe
// does not abort the whole analysis.
func (enumerator *Enumerator) EnumerateChangedFiles(executionContext context.Context, repositoryPath string) []string {
	changedPaths := []string{}
	seenPaths := map[string]struct{}{}

	queries := []struct {
		label string
		list  func(context.Context, string) ([]string, error)
	}{
		{label: workingTreeQueryLabelConstant, list: enumerator.changeLister.ListWorkingTreeChanges},
		{label: stagedQueryLabelConstant, list: enumerator.changeLister.ListStagedChanges},
		{label: untrackedQueryLabelConstant, list: enumerator.changeLister.ListUntrackedFiles},
	}

	for _, query := range queries {
		listedPaths, listError := query.list(executionContext, repositoryPath)
		if listError != nil {
			enumerator.logger.Error(enumerationFailureMessageConstant,
				zap.String(enumerationQueryLogFieldConstant, query.label),
				zap.String(repositoryPathLogFieldConstant, repositoryPath),
				zap.Error(listError))
			continue
		}
		for _, listedPath := range listedPaths {
			if len(listedPath) == 0 {
				continue
			}
			if _, alreadySeen := seenPaths[listedPath]; alreadySeen {
				continue
			}
			seenPaths[listedPath] = struct{}{}
			changedPaths = append(changedPaths, listedPath)
		}
	}

	return changedPaths
}
