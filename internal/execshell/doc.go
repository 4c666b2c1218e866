// Package execshell provides structured helpers for invoking git.
//
// It wraps os/exec with lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the abstractions
// deploy_scripts uses to run git in a testable manner.
package execshell
