package analyze

import (
	"fmt"
	"strings"
)

const (
	categoryIOSNameConstant           = "iOS"
	categoryAndroidNameConstant       = "Android"
	categoryBackendNameConstant       = "Backend"
	categoryWebsiteNameConstant       = "Website"
	categoryDocumentationNameConstant = "Documentation"
	categoryCICDNameConstant          = "CI/CD"
	categoryDeploymentNameConstant    = "Deployment"
	categoryOtherNameConstant         = "Other"

	titlePrefixConstant                = "Update: "
	titlePartSeparatorConstant         = ", "
	titleMaximumLengthConstant         = 80
	titleTruncationSuffixConstant      = "..."
	titleWarningPrefixConstant         = "WARNING: "
	titleWarningLengthLimitConstant    = 60
	titleMaximumPartCountConstant      = 3
	fallbackTitleTemplateConstant      = "Project Update: %d Files Changed"
	fallbackDescriptionTemplate        = "Updates %d files across multiple components."
	descriptionSentenceLimitConstant   = 2
	detailEntryLimitConstant           = 6
	androidHeavyChangeCountConstant    = 10
	categoryHighlightCountConstant     = 3
	testCoverageChangeTemplateConstant = "Test coverage improvements (%d test files)"
	androidDescriptionTemplateConstant = "Updates Android platform with %d file changes"
)

// Category groups changed paths under one subsystem name.
type Category struct {
	Name  string
	Files []string
}

// Summary holds the generated title, description, and detail lists for one
// analysis run.
type Summary struct {
	Title            string
	Description      string
	KeyFeatures      []string
	TechnicalChanges []string
	BreakingChanges  []string
}

type categoryRule struct {
	name    string
	matches func(changedPath string, loweredPath string) bool
}

var categoryRules = []categoryRule{
	{
		name: categoryDeploymentNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.Contains(loweredPath, "deploy")
		},
	},
	{
		name: categoryIOSNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			if strings.Contains(loweredPath, "android") {
				return false
			}
			return strings.HasSuffix(changedPath, ".swift") || strings.Contains(loweredPath, "ios")
		},
	},
	{
		name: categoryAndroidNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.Contains(loweredPath, "android") || strings.HasSuffix(loweredPath, ".kt") || strings.Contains(changedPath, "gradle")
		},
	},
	{
		name: categoryBackendNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.Contains(loweredPath, "firebase") || strings.Contains(loweredPath, "functions") || strings.Contains(loweredPath, "backend")
		},
	},
	{
		name: categoryWebsiteNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.Contains(loweredPath, "website")
		},
	},
	{
		name: categoryDocumentationNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.HasSuffix(changedPath, ".md") || strings.Contains(loweredPath, "readme")
		},
	},
	{
		name: categoryCICDNameConstant,
		matches: func(changedPath string, loweredPath string) bool {
			return strings.Contains(changedPath, ".github") || strings.Contains(loweredPath, "workflow")
		},
	},
}

// CategorizeFiles groups changed paths by subsystem. The first matching rule
// wins; unmatched paths fall into the Other category. Empty categories are
// omitted so reports never show vacant sections.
func CategorizeFiles(changedPaths []string) []Category {
	filesByCategory := map[string][]string{}

	for _, changedPath := range changedPaths {
		loweredPath := strings.ToLower(changedPath)
		categoryName := categoryOtherNameConstant
		for _, rule := range categoryRules {
			if rule.matches(changedPath, loweredPath) {
				categoryName = rule.name
				break
			}
		}
		filesByCategory[categoryName] = append(filesByCategory[categoryName], changedPath)
	}

	orderedNames := []string{
		categoryIOSNameConstant,
		categoryAndroidNameConstant,
		categoryBackendNameConstant,
		categoryWebsiteNameConstant,
		categoryDocumentationNameConstant,
		categoryCICDNameConstant,
		categoryDeploymentNameConstant,
		categoryOtherNameConstant,
	}

	categories := []Category{}
	for _, categoryName := range orderedNames {
		if categorizedFiles, hasFiles := filesByCategory[categoryName]; hasFiles {
			categories = append(categories, Category{Name: categoryName, Files: categorizedFiles})
		}
	}

	return categories
}

// BuildSummary derives a title, description, and detail lists from the
// eligible change set. The heuristics are keyword-driven templating and make
// no claim beyond a readable first guess for the operator to refine.
func BuildSummary(changedPaths []string, categories []Category, sensitiveFileCount int) Summary {
	hasAnalytics := anyPathContains(changedPaths, "analytics")
	hasAuthentication := anyPathContains(changedPaths, "auth")
	hasAndroidUpdate := anyPathContains(changedPaths, "android") || anyPathContainsExact(changedPaths, "gradle")
	hasDeployment := anyPathContains(changedPaths, "deploy") || anyPathContains(changedPaths, "workflow")

	filesForCategory := map[string]int{}
	categoryNames := make([]string, 0, len(categories))
	for _, category := range categories {
		filesForCategory[category.Name] = len(category.Files)
		categoryNames = append(categoryNames, category.Name)
	}

	titleParts := []string{}
	if hasAnalytics {
		titleParts = append(titleParts, "Analytics")
	}
	if hasAndroidUpdate && countPathsContaining(changedPaths, "android") > androidHeavyChangeCountConstant {
		titleParts = append(titleParts, "Android SDK Update")
	}
	if hasAuthentication {
		titleParts = append(titleParts, "Auth System")
	}
	if hasDeployment {
		titleParts = append(titleParts, "CI/CD")
	}
	if filesForCategory[categoryIOSNameConstant] > categoryHighlightCountConstant {
		titleParts = append(titleParts, "iOS Updates")
	}
	if filesForCategory[categoryWebsiteNameConstant] > categoryHighlightCountConstant {
		titleParts = append(titleParts, "Web Updates")
	}

	title := fmt.Sprintf(fallbackTitleTemplateConstant, len(changedPaths))
	if len(titleParts) > 0 {
		if len(titleParts) > titleMaximumPartCountConstant {
			titleParts = titleParts[:titleMaximumPartCountConstant]
		}
		title = titlePrefixConstant + strings.Join(titleParts, titlePartSeparatorConstant)
		if len(title) > titleMaximumLengthConstant {
			title = title[:titleMaximumLengthConstant-len(titleTruncationSuffixConstant)] + titleTruncationSuffixConstant
		}
	}
	if sensitiveFileCount > 0 && len(title) < titleWarningLengthLimitConstant {
		title = titleWarningPrefixConstant + title
	}

	descriptions := []string{}
	if hasAnalytics {
		descriptions = append(descriptions, "Introduces analytics instrumentation changes")
	}
	if hasAndroidUpdate {
		descriptions = append(descriptions, fmt.Sprintf(androidDescriptionTemplateConstant, filesForCategory[categoryAndroidNameConstant]))
	}
	if hasAuthentication {
		descriptions = append(descriptions, "Implements authentication and access control updates")
	}
	if hasDeployment {
		descriptions = append(descriptions, "Adds automated deployment workflows")
	}

	description := fmt.Sprintf(fallbackDescriptionTemplate, len(changedPaths))
	if len(descriptions) > 0 {
		if len(descriptions) > descriptionSentenceLimitConstant {
			descriptions = descriptions[:descriptionSentenceLimitConstant]
		}
		description = strings.Join(descriptions, ". ") + "."
	}

	keyFeatures := []string{}
	technicalChanges := []string{}
	breakingChanges := []string{}

	if hasAnalytics {
		keyFeatures = append(keyFeatures, "Analytics integration across platforms")
	}
	if anyPathContains(changedPaths, "database") || anyPathContains(changedPaths, "room") {
		technicalChanges = append(technicalChanges, "Database schema updates")
	}
	if testFileCount := countPathsContaining(changedPaths, "test"); testFileCount > 0 {
		technicalChanges = append(technicalChanges, fmt.Sprintf(testCoverageChangeTemplateConstant, testFileCount))
	}
	if hasAuthentication {
		keyFeatures = append(keyFeatures, "Authentication flow updates")
	}
	if anyPathContainsExact(changedPaths, ".yml") || anyPathContainsExact(changedPaths, ".yaml") {
		keyFeatures = append(keyFeatures, "Continuous integration workflow updates")
	}
	if anyPathContains(changedPaths, "security") || anyPathContains(changedPaths, "rules") {
		breakingChanges = append(breakingChanges, "Security rules updated - may affect API access")
	}
	if anyPathContains(changedPaths, "migration") {
		breakingChanges = append(breakingChanges, "Database migrations required")
	}

	return Summary{
		Title:            title,
		Description:      description,
		KeyFeatures:      limitEntries(keyFeatures, detailEntryLimitConstant),
		TechnicalChanges: limitEntries(technicalChanges, detailEntryLimitConstant),
		BreakingChanges:  breakingChanges,
	}
}

// CategoryNames returns the category names in report order.
func CategoryNames(categories []Category) []string {
	categoryNames := make([]string, 0, len(categories))
	for _, category := range categories {
		categoryNames = append(categoryNames, category.Name)
	}
	return categoryNames
}

func anyPathContains(changedPaths []string, keyword string) bool {
	for _, changedPath := range changedPaths {
		if strings.Contains(strings.ToLower(changedPath), keyword) {
			return true
		}
	}
	return false
}

func anyPathContainsExact(changedPaths []string, fragment string) bool {
	for _, changedPath := range changedPaths {
		if strings.Contains(changedPath, fragment) {
			return true
		}
	}
	return false
}

func countPathsContaining(changedPaths []string, keyword string) int {
	matchCount := 0
	for _, changedPath := range changedPaths {
		if strings.Contains(strings.ToLower(changedPath), keyword) {
			matchCount++
		}
	}
	return matchCount
}

func limitEntries(entries []string, limit int) []string {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
