package deploylog

import "strings"

const (
	numberFieldLabelConstant      = "Deployment Number:"
	dateFieldLabelConstant        = "Deployment Date:"
	deployedByFieldLabelConstant  = "Deployed By:"
	titleFieldLabelConstant       = "Title:"
	descriptionFieldLabelConstant = "Description:"
	fieldSeparatorConstant        = ":"
	fieldSeparatorPartsConstant   = 2
)

// DeploymentRecord carries the structured fields extracted from one
// deployment log file. Fields absent from the file remain empty strings.
type DeploymentRecord struct {
	Number      string
	Date        string
	DeployedBy  string
	Title       string
	Description string
}

// ParseDeploymentRecord extracts labeled fields from deployment log content.
// A line contributes a field when it starts with a recognized label; the value
// is the text after the first colon with surrounding whitespace removed.
// Unrecognized lines are skipped.
func ParseDeploymentRecord(logContent string) DeploymentRecord {
	deploymentRecord := DeploymentRecord{}

	for _, contentLine := range strings.Split(logContent, "\n") {
		trimmedLine := strings.TrimSpace(contentLine)

		switch {
		case strings.HasPrefix(trimmedLine, numberFieldLabelConstant):
			deploymentRecord.Number = fieldValue(trimmedLine)
		case strings.HasPrefix(trimmedLine, dateFieldLabelConstant):
			deploymentRecord.Date = fieldValue(trimmedLine)
		case strings.HasPrefix(trimmedLine, deployedByFieldLabelConstant):
			deploymentRecord.DeployedBy = fieldValue(trimmedLine)
		case strings.HasPrefix(trimmedLine, titleFieldLabelConstant):
			deploymentRecord.Title = fieldValue(trimmedLine)
		case strings.HasPrefix(trimmedLine, descriptionFieldLabelConstant):
			deploymentRecord.Description = fieldValue(trimmedLine)
		}
	}

	return deploymentRecord
}

func fieldValue(labeledLine string) string {
	labelAndValue := strings.SplitN(labeledLine, fieldSeparatorConstant, fieldSeparatorPartsConstant)
	if len(labelAndValue) < fieldSeparatorPartsConstant {
		return ""
	}
	return strings.TrimSpace(labelAndValue[1])
}
