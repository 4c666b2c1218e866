package ignore

import (
	"path"
	"strings"
)

// defaultSensitivePatterns is the fixed advisory glob set flagging files that
// commonly hold secrets. The set is deliberately coarse: it trades precision
// for recall, so filenames merely resembling credentials are still flagged.
var defaultSensitivePatterns = []string{
	"*_api_key*", "*_apikey*", "*_secret*", "*_token*", "*_password*",
	"*.pem", "*.key", "*.p12", "*.pfx", "*.jks",

	".env*", "*.env", "env.*",

	"*credentials*.json", "*secrets*.json",
	"GoogleService-Info.plist", "google-services.json",

	"*.db", "*.sqlite", "*.sqlite3",

	"id_rsa*", "id_dsa*", "*.ppk", "id_*.pub",

	".aws/*", "credentials", "*.tfvars",

	"*.log", "*.dump", "npm-debug.log*", "yarn-debug.log*",
	".DS_Store", "Thumbs.db",
}

// defaultSensitiveKeywords flags basenames containing substrings associated with secrets.
var defaultSensitiveKeywords = []string{
	"_secret", "_password", "_token", "_key", "credential",
	"private_", "api_key", "apikey",
}

// SensitiveDetector evaluates paths against the sensitive glob and keyword heuristics.
type SensitiveDetector struct {
	patterns []string
	keywords []string
}

// NewSensitiveDetector constructs a detector using the built-in pattern and keyword sets.
func NewSensitiveDetector() *SensitiveDetector {
	return NewSensitiveDetectorWithAdditions(nil, nil)
}

// NewSensitiveDetectorWithAdditions constructs a detector extending the
// built-in sets with operator-supplied patterns and keywords.
func NewSensitiveDetectorWithAdditions(additionalPatterns []string, additionalKeywords []string) *SensitiveDetector {
	mergedPatterns := make([]string, 0, len(defaultSensitivePatterns)+len(additionalPatterns))
	for _, pattern := range defaultSensitivePatterns {
		mergedPatterns = append(mergedPatterns, strings.ToLower(pattern))
	}
	for _, pattern := range additionalPatterns {
		trimmedPattern := strings.ToLower(strings.TrimSpace(pattern))
		if len(trimmedPattern) > 0 {
			mergedPatterns = append(mergedPatterns, trimmedPattern)
		}
	}

	mergedKeywords := make([]string, 0, len(defaultSensitiveKeywords)+len(additionalKeywords))
	mergedKeywords = append(mergedKeywords, defaultSensitiveKeywords...)
	for _, keyword := range additionalKeywords {
		trimmedKeyword := strings.ToLower(strings.TrimSpace(keyword))
		if len(trimmedKeyword) > 0 {
			mergedKeywords = append(mergedKeywords, trimmedKeyword)
		}
	}

	return &SensitiveDetector{patterns: mergedPatterns, keywords: mergedKeywords}
}

// IsSensitive reports whether the path's lowercased basename or full path
// matches a sensitive glob, or the basename contains a sensitive keyword.
// Matching inspects names only, never file content.
func (detector *SensitiveDetector) IsSensitive(candidatePath string) bool {
	loweredPath := strings.ToLower(candidatePath)
	loweredBaseName := path.Base(loweredPath)

	for _, pattern := range detector.patterns {
		if wildcardMatch(pattern, loweredBaseName) || wildcardMatch(pattern, loweredPath) {
			return true
		}
	}

	for _, keyword := range detector.keywords {
		if strings.Contains(loweredBaseName, keyword) {
			return true
		}
	}

	return false
}
