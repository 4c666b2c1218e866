package analyze_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/deploy_scripts/internal/analyze"
)

const (
	rulesFileNameConstant          = "analysis_rules.yaml"
	rulesPatternEntryConstant      = "*.keystore"
	rulesKeywordEntryConstant      = "private"
	configuredPatternEntryConstant = "*.pfx"
	malformedRulesContentConstant  = "sensitive_patterns: [unterminated"
)

func writeRulesFile(testInstance *testing.T, rules analyze.AnalysisRules) string {
	testInstance.Helper()

	serializedRules, marshalError := yaml.Marshal(rules)
	require.NoError(testInstance, marshalError)

	rulesFilePath := filepath.Join(testInstance.TempDir(), rulesFileNameConstant)
	require.NoError(testInstance, os.WriteFile(rulesFilePath, serializedRules, 0o644))

	return rulesFilePath
}

func TestLoadAnalysisRules(testInstance *testing.T) {
	rulesFilePath := writeRulesFile(testInstance, analyze.AnalysisRules{
		SensitivePatterns: []string{rulesPatternEntryConstant},
		SensitiveKeywords: []string{rulesKeywordEntryConstant},
	})

	loadedRules, loadError := analyze.LoadAnalysisRules(rulesFilePath)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, []string{rulesPatternEntryConstant}, loadedRules.SensitivePatterns)
	require.Equal(testInstance, []string{rulesKeywordEntryConstant}, loadedRules.SensitiveKeywords)
}

func TestLoadAnalysisRulesWithEmptyPathYieldsZeroRules(testInstance *testing.T) {
	loadedRules, loadError := analyze.LoadAnalysisRules("")
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, loadedRules.SensitivePatterns)
	require.Empty(testInstance, loadedRules.SensitiveKeywords)
}

func TestLoadAnalysisRulesReportsMissingFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), rulesFileNameConstant)

	_, loadError := analyze.LoadAnalysisRules(missingPath)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), missingPath)
}

func TestLoadAnalysisRulesReportsMalformedDocument(testInstance *testing.T) {
	rulesFilePath := filepath.Join(testInstance.TempDir(), rulesFileNameConstant)
	require.NoError(testInstance, os.WriteFile(rulesFilePath, []byte(malformedRulesContentConstant), 0o644))

	_, loadError := analyze.LoadAnalysisRules(rulesFilePath)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "parse")
}

func TestMergeIntoConfigurationAppendsRuleAdditions(testInstance *testing.T) {
	configuration := analyze.CommandConfiguration{
		SensitivePatterns: []string{configuredPatternEntryConstant},
	}
	rules := analyze.AnalysisRules{
		SensitivePatterns: []string{rulesPatternEntryConstant},
		SensitiveKeywords: []string{rulesKeywordEntryConstant},
	}

	merged := rules.MergeIntoConfiguration(configuration)

	require.Equal(testInstance, []string{configuredPatternEntryConstant, rulesPatternEntryConstant}, merged.SensitivePatterns)
	require.Equal(testInstance, []string{rulesKeywordEntryConstant}, merged.SensitiveKeywords)
}
