package ignore

// Matcher answers the two classification predicates over loaded state.
// Both predicates are pure functions: all I/O happens before construction.
type Matcher struct {
	rules    []Rule
	detector *SensitiveDetector
}

// NewMatcher constructs a Matcher over the compiled rule sequence and detector.
func NewMatcher(rules []Rule, detector *SensitiveDetector) *Matcher {
	if detector == nil {
		detector = NewSensitiveDetector()
	}
	duplicatedRules := make([]Rule, len(rules))
	copy(duplicatedRules, rules)
	return &Matcher{rules: duplicatedRules, detector: detector}
}

// IsIgnored reports whether any loaded ignore rule covers the repository-relative path.
func (matcher *Matcher) IsIgnored(candidatePath string) bool {
	for _, rule := range matcher.rules {
		if rule.Matches(candidatePath) {
			return true
		}
	}
	return false
}

// IsSensitive reports whether the path trips the sensitive-file heuristics.
func (matcher *Matcher) IsSensitive(candidatePath string) bool {
	return matcher.detector.IsSensitive(candidatePath)
}
