package analyze

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	rulesFileReadErrorTemplateConstant  = "unable to read analysis rules file %s: %w"
	rulesFileParseErrorTemplateConstant = "unable to parse analysis rules file %s: %w"
)

// AnalysisRules lists operator-provided additions to the sensitive-path
// heuristic, loaded from a YAML rules file.
type AnalysisRules struct {
	SensitivePatterns []string `yaml:"sensitive_patterns"`
	SensitiveKeywords []string `yaml:"sensitive_keywords"`
}

// LoadAnalysisRules reads additional sensitive patterns and keywords from the
// provided YAML file. An empty path yields zero rules without error.
func LoadAnalysisRules(rulesFilePath string) (AnalysisRules, error) {
	if len(rulesFilePath) == 0 {
		return AnalysisRules{}, nil
	}

	rulesContent, readError := os.ReadFile(rulesFilePath)
	if readError != nil {
		return AnalysisRules{}, fmt.Errorf(rulesFileReadErrorTemplateConstant, rulesFilePath, readError)
	}

	var rules AnalysisRules
	if parseError := yaml.Unmarshal(rulesContent, &rules); parseError != nil {
		return AnalysisRules{}, fmt.Errorf(rulesFileParseErrorTemplateConstant, rulesFilePath, parseError)
	}

	return rules, nil
}

// MergeIntoConfiguration appends the loaded rule additions onto the configured
// sensitive patterns and keywords.
func (rules AnalysisRules) MergeIntoConfiguration(configuration CommandConfiguration) CommandConfiguration {
	mergedConfiguration := configuration
	mergedConfiguration.SensitivePatterns = append(mergedConfiguration.SensitivePatterns, rules.SensitivePatterns...)
	mergedConfiguration.SensitiveKeywords = append(mergedConfiguration.SensitiveKeywords, rules.SensitiveKeywords...)
	return mergedConfiguration
}
