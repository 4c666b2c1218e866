package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	promptIntroductionConstant = "Analyze the following repository changes and provide:\n" +
		"1. A concise, descriptive title (max 80 chars) summarizing the main changes\n" +
		"2. A detailed description (2-3 sentences) explaining what was changed and why it matters\n" +
		"3. A list of key improvements or features added\n" +
		"4. Any potential risks or breaking changes\n\n"
	promptSensitiveHeaderTemplateConstant = "WARNING: %d potentially sensitive files detected!\n" +
		"These files might contain secrets or sensitive information:\n"
	promptCategoriesHeaderConstant     = "Changed files by category:\n"
	promptDiffsHeaderConstant          = "\nSample diffs from key files:\n"
	promptFileEntryTemplateConstant    = "  - %s\n"
	promptOverflowTemplateConstant     = "  ... and %d more files\n"
	promptDiffHeaderTemplateConstant   = "\n--- %s ---\n"
	promptSensitiveFileDisplayLimit    = 10
	promptCategoryFileDisplayLimit     = 5
	promptSampleDiffDisplayLimit       = 3
	promptDiffContentLimitConstant     = 500
	promptDiffTruncationSuffixConstant = "...\n"
	sensitiveWarningTypeConstant       = "sensitive_files"
	sensitiveWarningMessageTemplate    = "Found %d potentially sensitive files"
	artifactFilePermissionsConstant    = 0o644
	analysisIndentationConstant        = "  "
	analysisIndentationPrefixConstant  = ""
)

// SampleDiff pairs one changed path with its diff excerpt.
type SampleDiff struct {
	Path string
	Diff string
}

// SecurityWarning records one advisory finding carried into the analysis artifact.
type SecurityWarning struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// AnalysisDetails holds the structured detail lists of one analysis artifact.
type AnalysisDetails struct {
	KeyFeatures        []string `json:"key_features"`
	TechnicalChanges   []string `json:"technical_changes"`
	BreakingChanges    []string `json:"breaking_changes"`
	CategoriesAffected []string `json:"categories_affected"`
}

// AnalysisRecord is the JSON artifact produced by one analysis run.
type AnalysisRecord struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Details          AnalysisDetails   `json:"details"`
	SecurityWarnings []SecurityWarning `json:"security_warnings"`
}

// NewSensitiveFilesWarning builds the advisory warning for detected sensitive paths.
func NewSensitiveFilesWarning(sensitiveFiles []string) SecurityWarning {
	return SecurityWarning{
		Type:    sensitiveWarningTypeConstant,
		Message: fmt.Sprintf(sensitiveWarningMessageTemplate, len(sensitiveFiles)),
		Files:   append([]string{}, sensitiveFiles...),
	}
}

// BuildPrompt renders the natural-language prompt artifact describing the
// change set for an external analysis consumer.
func BuildPrompt(categories []Category, sampleDiffs []SampleDiff, sensitiveFiles []string) string {
	promptBuilder := strings.Builder{}
	promptBuilder.WriteString(promptIntroductionConstant)

	if len(sensitiveFiles) > 0 {
		promptBuilder.WriteString(fmt.Sprintf(promptSensitiveHeaderTemplateConstant, len(sensitiveFiles)))
		displayedFiles := sensitiveFiles
		if len(displayedFiles) > promptSensitiveFileDisplayLimit {
			displayedFiles = displayedFiles[:promptSensitiveFileDisplayLimit]
		}
		for _, sensitiveFile := range displayedFiles {
			promptBuilder.WriteString(fmt.Sprintf(promptFileEntryTemplateConstant, sensitiveFile))
		}
		if overflowCount := len(sensitiveFiles) - promptSensitiveFileDisplayLimit; overflowCount > 0 {
			promptBuilder.WriteString(fmt.Sprintf(promptOverflowTemplateConstant, overflowCount))
		}
		promptBuilder.WriteString("\n")
	}

	promptBuilder.WriteString(promptCategoriesHeaderConstant)
	for _, category := range categories {
		promptBuilder.WriteString(fmt.Sprintf("\n%s:\n", category.Name))
		displayedFiles := category.Files
		if len(displayedFiles) > promptCategoryFileDisplayLimit {
			displayedFiles = displayedFiles[:promptCategoryFileDisplayLimit]
		}
		for _, categorizedFile := range displayedFiles {
			promptBuilder.WriteString(fmt.Sprintf(promptFileEntryTemplateConstant, categorizedFile))
		}
		if overflowCount := len(category.Files) - promptCategoryFileDisplayLimit; overflowCount > 0 {
			promptBuilder.WriteString(fmt.Sprintf(promptOverflowTemplateConstant, overflowCount))
		}
	}

	promptBuilder.WriteString(promptDiffsHeaderConstant)
	displayedDiffs := sampleDiffs
	if len(displayedDiffs) > promptSampleDiffDisplayLimit {
		displayedDiffs = displayedDiffs[:promptSampleDiffDisplayLimit]
	}
	for _, sampleDiff := range displayedDiffs {
		promptBuilder.WriteString(fmt.Sprintf(promptDiffHeaderTemplateConstant, sampleDiff.Path))
		if len(sampleDiff.Diff) > promptDiffContentLimitConstant {
			promptBuilder.WriteString(sampleDiff.Diff[:promptDiffContentLimitConstant] + promptDiffTruncationSuffixConstant)
		} else {
			promptBuilder.WriteString(sampleDiff.Diff + "\n")
		}
	}

	return promptBuilder.String()
}

// WritePromptArtifact stores the prompt text at the configured path.
func WritePromptArtifact(promptPath string, promptContent string) error {
	return os.WriteFile(promptPath, []byte(promptContent), artifactFilePermissionsConstant)
}

// WriteAnalysisArtifact stores the analysis record as indented JSON.
func WriteAnalysisArtifact(analysisPath string, analysisRecord AnalysisRecord) error {
	encodedAnalysis, marshalError := json.MarshalIndent(analysisRecord, analysisIndentationPrefixConstant, analysisIndentationConstant)
	if marshalError != nil {
		return marshalError
	}
	return os.WriteFile(analysisPath, encodedAnalysis, artifactFilePermissionsConstant)
}
