package changes

// PathMatcher answers ignore and sensitivity questions for one path.
type PathMatcher interface {
	IsIgnored(candidatePath string) bool
	IsSensitive(candidatePath string) bool
}

// Classification partitions changed paths into three disjoint sequences.
// Every input path lands in exactly one of them.
type Classification struct {
	Eligible  []string
	Ignored   []string
	Sensitive []string
}

// HasSensitive reports whether any changed path was classified as sensitive.
func (classification Classification) HasSensitive() bool {
	return len(classification.Sensitive) > 0
}

// ClassifyPaths sorts changed paths into eligible, ignored, and sensitive
// sequences. An ignored path stays ignored even when it also matches a
// sensitive pattern, since ignore rules already keep it out of the repository.
func ClassifyPaths(changedPaths []string, pathMatcher PathMatcher) Classification {
	classification := Classification{}

	for _, changedPath := range changedPaths {
		switch {
		case pathMatcher.IsIgnored(changedPath):
			classification.Ignored = append(classification.Ignored, changedPath)
		case pathMatcher.IsSensitive(changedPath):
			classification.Sensitive = append(classification.Sensitive, changedPath)
		default:
			classification.Eligible = append(classification.Eligible, changedPath)
		}
	}

	return classification
}
