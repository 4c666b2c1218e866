// Package analyze implements the pre-deployment analysis workflow: it
// enumerates changed files, classifies them against ignore rules and
// sensitive-path heuristics, and writes a categorized prompt artifact plus a
// JSON analysis summary. Sensitive findings always surface as a non-zero
// process exit even when the analysis itself succeeds.
package analyze
