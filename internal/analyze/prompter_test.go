package analyze_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/deploy_scripts/internal/analyze"
)

func TestIOConfirmationPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name            string
		typedResponse   string
		expectedOutcome bool
	}{
		{name: "short_affirmative", typedResponse: "y\n", expectedOutcome: true},
		{name: "long_affirmative", typedResponse: "YES\n", expectedOutcome: true},
		{name: "negative", typedResponse: "n\n", expectedOutcome: false},
		{name: "empty_line_defaults_to_no", typedResponse: "\n", expectedOutcome: false},
		{name: "end_of_input_defaults_to_no", typedResponse: "", expectedOutcome: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			outputBuilder := &strings.Builder{}
			prompter := analyze.NewIOConfirmationPrompter(strings.NewReader(testCase.typedResponse), outputBuilder)

			confirmed, confirmError := prompter.Confirm("Proceed? (y/N): ")

			require.NoError(subtestInstance, confirmError)
			require.Equal(subtestInstance, testCase.expectedOutcome, confirmed)
			require.Equal(subtestInstance, "Proceed? (y/N): ", outputBuilder.String())
		})
	}
}
