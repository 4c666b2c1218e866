package ignore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/deploy_scripts/internal/ignore"
)

func TestSensitiveDetectorFlagsKnownPatterns(testInstance *testing.T) {
	detector := ignore.NewSensitiveDetector()

	testCases := []struct {
		name              string
		candidatePath     string
		expectedSensitive bool
	}{
		{name: "api_key_suffix", candidatePath: "secret_api_key.txt", expectedSensitive: true},
		{name: "pem_certificate", candidatePath: "certs/server.pem", expectedSensitive: true},
		{name: "environment_file", candidatePath: ".env.production", expectedSensitive: true},
		{name: "credentials_json", candidatePath: "config/service-credentials-prod.json", expectedSensitive: true},
		{name: "keyword_in_basename", candidatePath: "app/user_token_cache.swift", expectedSensitive: true},
		{name: "uppercase_basename", candidatePath: "Config/PRIVATE_Settings.plist", expectedSensitive: true},
		{name: "plain_source_file", candidatePath: "app/main.py", expectedSensitive: false},
		{name: "documentation", candidatePath: "docs/readme.md", expectedSensitive: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedSensitive, detector.IsSensitive(testCase.candidatePath))
		})
	}
}

func TestSensitiveDetectorAcceptsAdditionalHeuristics(testInstance *testing.T) {
	detector := ignore.NewSensitiveDetectorWithAdditions([]string{"*.kdbx"}, []string{"vaultfile"})

	require.True(testInstance, detector.IsSensitive("passwords.kdbx"))
	require.True(testInstance, detector.IsSensitive("ops/VaultFile-backup.txt"))
	require.False(testInstance, detector.IsSensitive("ops/playbook.yaml"))
}

func TestMatcherPrecedenceKeepsPredicatesIndependent(testInstance *testing.T) {
	compiledRule, hasRule := ignore.CompileRule("", "*.log")
	require.True(testInstance, hasRule)

	matcher := ignore.NewMatcher([]ignore.Rule{compiledRule}, ignore.NewSensitiveDetector())

	require.True(testInstance, matcher.IsIgnored("server/npm-debug.log"))
	require.True(testInstance, matcher.IsSensitive("server/npm-debug.log"))
	require.False(testInstance, matcher.IsIgnored("server/main.go"))
}
