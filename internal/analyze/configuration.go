package analyze

import (
	"os"
	"path/filepath"
)

const (
	defaultPromptFileNameConstant   = "deployment_prompt.txt"
	defaultAnalysisFileNameConstant = "deployment_analysis.json"
)

// CommandConfiguration carries the analyze command settings sourced from the
// configuration file, environment variables, and flags.
type CommandConfiguration struct {
	PromptArtifactPath   string   `mapstructure:"prompt_file"`
	AnalysisArtifactPath string   `mapstructure:"analysis_file"`
	RulesFilePath        string   `mapstructure:"rules_file"`
	AssumeYes            bool     `mapstructure:"assume_yes"`
	SensitivePatterns    []string `mapstructure:"sensitive_patterns"`
	SensitiveKeywords    []string `mapstructure:"sensitive_keywords"`
}

// WithDefaults fills unset artifact paths with conventional temporary-file
// locations.
func (configuration CommandConfiguration) WithDefaults() CommandConfiguration {
	updatedConfiguration := configuration
	if len(updatedConfiguration.PromptArtifactPath) == 0 {
		updatedConfiguration.PromptArtifactPath = filepath.Join(os.TempDir(), defaultPromptFileNameConstant)
	}
	if len(updatedConfiguration.AnalysisArtifactPath) == 0 {
		updatedConfiguration.AnalysisArtifactPath = filepath.Join(os.TempDir(), defaultAnalysisFileNameConstant)
	}
	return updatedConfiguration
}
