package ignore

import (
	"path"
	"strings"
)

const (
	commentLinePrefixConstant        = "#"
	rootAnchorPrefixConstant         = "/"
	pathSeparatorConstant            = "/"
	recursiveWildcardSegmentConstant = "**"
	singleWildcardConstant           = "*"
)

// RuleKind discriminates how a compiled ignore rule matches candidate paths.
type RuleKind int

// Supported rule kinds.
const (
	// RuleKindAnchored matches paths relative to the directory of the rule's source file.
	RuleKindAnchored RuleKind = iota
	// RuleKindRecursive matches paths at any depth below the directory of the rule's source file.
	RuleKindRecursive
)

// Rule is a compiled ignore pattern anchored to the directory that declared it.
// Candidate paths are matched in a rooted form (a leading separator ahead of the
// repository-relative path) so root-level rules behave the same as nested ones.
type Rule struct {
	Kind            RuleKind
	SourceDirectory string
	Pattern         string

	expandedPattern string
	literalPrefix   string
	literalSuffix   string
}

// CompileRule translates one ignore-file line into a Rule. The second return
// value is false for blank lines and comments, which carry no rule.
func CompileRule(sourceDirectory string, patternLine string) (Rule, bool) {
	trimmedLine := strings.TrimSpace(patternLine)
	if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentLinePrefixConstant) {
		return Rule{}, false
	}

	rootedDirectory := rootedPath(sourceDirectory)

	if strings.HasPrefix(trimmedLine, rootAnchorPrefixConstant) {
		anchoredPattern := strings.TrimPrefix(trimmedLine, rootAnchorPrefixConstant)
		return Rule{
			Kind:            RuleKindAnchored,
			SourceDirectory: sourceDirectory,
			Pattern:         trimmedLine,
			expandedPattern: rootedDirectory + pathSeparatorConstant + anchoredPattern,
		}, true
	}

	return Rule{
		Kind:            RuleKindRecursive,
		SourceDirectory: sourceDirectory,
		Pattern:         trimmedLine,
		expandedPattern: rootedDirectory + pathSeparatorConstant + recursiveWildcardSegmentConstant + pathSeparatorConstant + trimmedLine,
		literalPrefix:   rootedDirectory + pathSeparatorConstant,
		literalSuffix:   pathSeparatorConstant + trimmedLine,
	}, true
}

// Matches reports whether the repository-relative candidate path is covered by
// the rule. A pattern that names a directory covers every path below that
// directory as well.
func (rule Rule) Matches(candidatePath string) bool {
	rootedCandidate := rootedPath(candidatePath)

	if wildcardMatch(rule.expandedPattern, rootedCandidate) {
		return true
	}
	descendantPattern := rule.expandedPattern + pathSeparatorConstant + singleWildcardConstant
	if wildcardMatch(descendantPattern, rootedCandidate) {
		return true
	}

	if rule.Kind == RuleKindRecursive && strings.HasPrefix(rootedCandidate, rule.literalPrefix) {
		if strings.HasSuffix(rootedCandidate, rule.literalSuffix) {
			return true
		}
		return strings.Contains(rootedCandidate, rule.literalSuffix+pathSeparatorConstant)
	}

	return false
}

func rootedPath(relativePath string) string {
	cleanedPath := path.Clean(pathSeparatorConstant + strings.TrimPrefix(relativePath, pathSeparatorConstant))
	if cleanedPath == pathSeparatorConstant {
		return ""
	}
	return cleanedPath
}

// wildcardMatch implements shell-style matching where '*' spans path
// separators and '?' matches a single character. Consecutive stars collapse.
func wildcardMatch(pattern string, value string) bool {
	patternIndex, valueIndex := 0, 0
	starPatternIndex, starValueIndex := -1, -1

	for valueIndex < len(value) {
		if patternIndex < len(pattern) && (pattern[patternIndex] == value[valueIndex] || pattern[patternIndex] == '?') {
			patternIndex++
			valueIndex++
			continue
		}
		if patternIndex < len(pattern) && pattern[patternIndex] == '*' {
			starPatternIndex = patternIndex
			starValueIndex = valueIndex
			patternIndex++
			continue
		}
		if starPatternIndex >= 0 {
			patternIndex = starPatternIndex + 1
			starValueIndex++
			valueIndex = starValueIndex
			continue
		}
		return false
	}

	for patternIndex < len(pattern) && pattern[patternIndex] == '*' {
		patternIndex++
	}
	return patternIndex == len(pattern)
}
