// Package ignore compiles repository ignore files into matchable rules and
// applies the advisory sensitive-file heuristics.
//
// RuleLoader discovers every .gitignore under a repository root and compiles
// each pattern line into a discriminated Rule (anchored or recursive).
// SensitiveDetector flags filenames that commonly carry secrets using a fixed
// glob and keyword set. Matcher combines both into the pure predicates the
// classifier consumes.
package ignore
