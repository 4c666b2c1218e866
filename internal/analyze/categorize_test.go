package analyze_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/deploy_scripts/internal/analyze"
)

func TestCategorizeFiles(testInstance *testing.T) {
	testCases := []struct {
		name               string
		changedPaths       []string
		expectedCategories map[string][]string
	}{
		{
			name:               "empty_input_yields_no_categories",
			changedPaths:       nil,
			expectedCategories: map[string][]string{},
		},
		{
			name:         "paths_land_in_first_matching_category",
			changedPaths: []string{"app/LoginView.swift", "android/build.gradle", "functions/index.ts", "website/index.html", "README.md", ".github/workflows/ci.yml", "deploy/rollout.sh", "data/values.csv"},
			expectedCategories: map[string][]string{
				"iOS":           {"app/LoginView.swift"},
				"Android":       {"android/build.gradle"},
				"Backend":       {"functions/index.ts"},
				"Website":       {"website/index.html"},
				"Documentation": {"README.md"},
				"CI/CD":         {".github/workflows/ci.yml"},
				"Deployment":    {"deploy/rollout.sh"},
				"Other":         {"data/values.csv"},
			},
		},
		{
			name:         "android_swift_file_is_not_ios",
			changedPaths: []string{"android/shared/Bridge.swift"},
			expectedCategories: map[string][]string{
				"Android": {"android/shared/Bridge.swift"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			categories := analyze.CategorizeFiles(testCase.changedPaths)

			require.Len(subtestInstance, categories, len(testCase.expectedCategories))
			for _, category := range categories {
				require.Equal(subtestInstance, testCase.expectedCategories[category.Name], category.Files)
			}
		})
	}
}

func TestBuildSummaryTitles(testInstance *testing.T) {
	testCases := []struct {
		name               string
		changedPaths       []string
		sensitiveFileCount int
		expectedTitle      string
	}{
		{
			name:          "fallback_title_counts_files",
			changedPaths:  []string{"data/values.csv", "assets/logo.png"},
			expectedTitle: "Project Update: 2 Files Changed",
		},
		{
			name:          "keyword_driven_title",
			changedPaths:  []string{"app/analytics/Tracker.swift", "server/auth/session.ts"},
			expectedTitle: "Update: Analytics, Auth System",
		},
		{
			name:               "sensitive_findings_prefix_short_titles",
			changedPaths:       []string{"data/values.csv"},
			sensitiveFileCount: 2,
			expectedTitle:      "WARNING: Project Update: 1 Files Changed",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			categories := analyze.CategorizeFiles(testCase.changedPaths)
			changeSummary := analyze.BuildSummary(testCase.changedPaths, categories, testCase.sensitiveFileCount)

			require.Equal(subtestInstance, testCase.expectedTitle, changeSummary.Title)
			require.LessOrEqual(subtestInstance, len(changeSummary.Title), 89)
		})
	}
}

func TestBuildSummaryDetails(testInstance *testing.T) {
	changedPaths := []string{
		"android/app/src/main/AndroidManifest.xml",
		"android/app/src/test/LoginTest.kt",
		"firestore/security.rules",
		"db/migration/0005_add_index.sql",
	}
	categories := analyze.CategorizeFiles(changedPaths)

	changeSummary := analyze.BuildSummary(changedPaths, categories, 0)

	require.Contains(testInstance, changeSummary.Description, "Android platform")
	require.Contains(testInstance, changeSummary.BreakingChanges, "Security rules updated - may affect API access")
	require.Contains(testInstance, changeSummary.BreakingChanges, "Database migrations required")

	foundTestCoverageEntry := false
	for _, technicalChange := range changeSummary.TechnicalChanges {
		if strings.HasPrefix(technicalChange, "Test coverage improvements") {
			foundTestCoverageEntry = true
		}
	}
	require.True(testInstance, foundTestCoverageEntry)
}
