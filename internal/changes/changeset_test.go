package changes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/deploy_scripts/internal/changes"
)

func TestParsePorcelainStatus(testInstance *testing.T) {
	testCases := []struct {
		name              string
		porcelainOutput   string
		expectedAdded     []string
		expectedModified  []string
		expectedDeleted   []string
		expectedUntracked []string
	}{
		{
			name:            "empty_output_yields_empty_change_set",
			porcelainOutput: "",
		},
		{
			name:              "untracked_path",
			porcelainOutput:   "?? notes.txt",
			expectedUntracked: []string{"notes.txt"},
		},
		{
			name:             "working_tree_modification",
			porcelainOutput:  " M app/main.py",
			expectedModified: []string{"app/main.py"},
		},
		{
			name:             "staged_modification",
			porcelainOutput:  "M  app/main.py",
			expectedModified: []string{"app/main.py"},
		},
		{
			name:            "staged_addition",
			porcelainOutput: "A  app/feature.py",
			expectedAdded:   []string{"app/feature.py"},
		},
		{
			name:            "working_tree_deletion",
			porcelainOutput: " D app/legacy.py",
			expectedDeleted: []string{"app/legacy.py"},
		},
		{
			name:            "staged_deletion_is_not_restaged",
			porcelainOutput: "D  app/legacy.py",
		},
		{
			name:             "modification_takes_priority_over_addition",
			porcelainOutput:  "AM app/feature.py",
			expectedModified: []string{"app/feature.py"},
		},
		{
			name:              "mixed_states_partition_exactly",
			porcelainOutput:   " M app/main.py\nA  app/feature.py\n D app/legacy.py\n?? notes.txt\n",
			expectedAdded:     []string{"app/feature.py"},
			expectedModified:  []string{"app/main.py"},
			expectedDeleted:   []string{"app/legacy.py"},
			expectedUntracked: []string{"notes.txt"},
		},
		{
			name:            "short_lines_are_skipped",
			porcelainOutput: "??\n M \n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			changeSet := changes.ParsePorcelainStatus(testCase.porcelainOutput)

			require.Equal(subtestInstance, testCase.expectedAdded, changeSet.Added)
			require.Equal(subtestInstance, testCase.expectedModified, changeSet.Modified)
			require.Equal(subtestInstance, testCase.expectedDeleted, changeSet.Deleted)
			require.Equal(subtestInstance, testCase.expectedUntracked, changeSet.Untracked)
		})
	}
}

func TestChangeSetCounts(testInstance *testing.T) {
	emptyChangeSet := changes.ChangeSet{}
	require.True(testInstance, emptyChangeSet.IsEmpty())
	require.Zero(testInstance, emptyChangeSet.TotalCount())

	populatedChangeSet := changes.ParsePorcelainStatus(" M app/main.py\n?? notes.txt\n")
	require.False(testInstance, populatedChangeSet.IsEmpty())
	require.Equal(testInstance, 2, populatedChangeSet.TotalCount())
}
