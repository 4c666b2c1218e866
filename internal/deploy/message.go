package deploy

import (
	"fmt"
	"strings"
	"time"

	"github.com/temirov/deploy_scripts/internal/deploylog"
)

const (
	commitTitleTemplateConstant       = "Deployment %s: %s"
	commitTitleMaximumLengthConstant  = 72
	fallbackTitleTemplateConstant     = "Automated deployment - %s"
	fallbackTitleTimeLayoutConstant   = "2006-01-02 15:04:05"
	commitBranchLineTemplateConstant  = "Branch: %s\n"
	commitAutomationLineConstant      = "Automated by: deploy-scripts\n"
	commitTimestampLineTemplate       = "Timestamp: %s\n"
	commitLogLineTemplateConstant     = "Deployment Log: %s\n"
	commitSummaryLineTemplateConstant = "\nSummary: %s\n"
)

// BuildCommitMessage renders the deployment commit message. The first line
// carries the deployment number and title, bounded so the summary stays
// readable in one-line log views; a blank line separates it from the metadata
// trailer.
func BuildCommitMessage(deploymentRecord deploylog.DeploymentRecord, branchName string, commitTime time.Time) string {
	summaryLine := fmt.Sprintf(fallbackTitleTemplateConstant, commitTime.Format(fallbackTitleTimeLayoutConstant))
	if len(deploymentRecord.Title) > 0 {
		boundedTitle := deploymentRecord.Title
		if len(boundedTitle) > commitTitleMaximumLengthConstant {
			boundedTitle = boundedTitle[:commitTitleMaximumLengthConstant]
		}
		summaryLine = fmt.Sprintf(commitTitleTemplateConstant, deploymentRecord.Number, boundedTitle)
	}

	messageBuilder := strings.Builder{}
	messageBuilder.WriteString(summaryLine)
	messageBuilder.WriteString("\n\n")
	messageBuilder.WriteString(fmt.Sprintf(commitBranchLineTemplateConstant, branchName))
	messageBuilder.WriteString(commitAutomationLineConstant)
	messageBuilder.WriteString(fmt.Sprintf(commitTimestampLineTemplate, commitTime.Format(time.RFC3339)))
	messageBuilder.WriteString(fmt.Sprintf(commitLogLineTemplateConstant, deploymentRecord.Number))
	messageBuilder.WriteString(fmt.Sprintf(commitSummaryLineTemplateConstant, deploymentRecord.Description))

	return messageBuilder.String()
}
