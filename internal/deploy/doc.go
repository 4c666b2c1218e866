// Package deploy implements the deployment pipeline: it snapshots working
// tree status, filters the changes through the repository's ignore rules and
// the sensitive-path heuristics, stages the surviving additions and removals,
// creates a commit whose message is built from the latest deployment log
// record, and pushes the branch upstream. Push failures are absorbed since
// the local commit is already durable.
package deploy
