package deploy

import (
	"time"

	"github.com/temirov/deploy_scripts/internal/changes"
	"github.com/temirov/deploy_scripts/internal/deploylog"
)

// PipelineState names one stage of the deployment pipeline.
type PipelineState string

// Pipeline states in execution order. Failed is terminal and reachable from
// any state; NothingToDeploy is the successful short-circuit for a clean tree.
const (
	StateIdle            PipelineState = "idle"
	StateStatusChecked   PipelineState = "status_checked"
	StateStaged          PipelineState = "staged"
	StateCommitted       PipelineState = "committed"
	StatePushed          PipelineState = "pushed"
	StateNothingToDeploy PipelineState = "nothing_to_deploy"
	StateFailed          PipelineState = "failed"
)

// CommitPlan is the full set of repository mutations one deployment applies.
// It is built once from the classified change set and applied once; no step
// is retried automatically.
type CommitPlan struct {
	StagePaths    []string
	RemovePaths   []string
	SkippedPaths  []string
	CommitMessage string
}

// RunState is the immutable value threaded through the deployment pipeline.
// Each stage derives the next state instead of mutating shared fields.
type RunState struct {
	State          PipelineState
	RepositoryRoot string
	BranchName     string
	ChangeSet      changes.ChangeSet
	Classification changes.Classification
	Record         deploylog.DeploymentRecord
	Plan           CommitPlan
	PushTimestamp  time.Time
}

// WithState returns a copy of the run state advanced to the given pipeline state.
func (runState RunState) WithState(pipelineState PipelineState) RunState {
	updatedState := runState
	updatedState.State = pipelineState
	return updatedState
}

// Clock supplies the current time for commit message timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with the host wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
