package changes

import "strings"

const (
	porcelainUntrackedCodeConstant     = "??"
	porcelainModifiedStateByteConstant = 'M'
	porcelainAddedStateByteConstant    = 'A'
	porcelainDeletedStateByteConstant  = 'D'
	porcelainMinimumLineLengthConstant = 4
)

// ChangeSet partitions one point-in-time status snapshot into four disjoint
// path sequences. A path appears in at most one sequence; paths are
// repository-root-relative.
type ChangeSet struct {
	Added     []string
	Modified  []string
	Deleted   []string
	Untracked []string
}

// IsEmpty reports whether the snapshot recorded no changes at all.
func (changeSet ChangeSet) IsEmpty() bool {
	return len(changeSet.Added) == 0 && len(changeSet.Modified) == 0 && len(changeSet.Deleted) == 0 && len(changeSet.Untracked) == 0
}

// TotalCount reports the number of changed paths across all sequences.
func (changeSet ChangeSet) TotalCount() int {
	return len(changeSet.Added) + len(changeSet.Modified) + len(changeSet.Deleted) + len(changeSet.Untracked)
}

// ParsePorcelainStatus converts porcelain status output into a ChangeSet.
//
// The two-character code holds the index state followed by the working-tree
// state. "??" marks untracked paths. A modification in either column marks the
// path modified; an addition marks it added. Deletions count only when the
// working tree carries the deletion and the index does not, so removals that
// are already staged are not re-staged later.
func ParsePorcelainStatus(porcelainOutput string) ChangeSet {
	changeSet := ChangeSet{}

	for _, statusLine := range strings.Split(porcelainOutput, "\n") {
		if len(statusLine) < porcelainMinimumLineLengthConstant {
			continue
		}

		statusCode := statusLine[:2]
		changedPath := statusLine[3:]
		if len(strings.TrimSpace(changedPath)) == 0 {
			continue
		}

		indexState := statusCode[0]
		workingTreeState := statusCode[1]

		switch {
		case statusCode == porcelainUntrackedCodeConstant:
			changeSet.Untracked = append(changeSet.Untracked, changedPath)
		case indexState == porcelainModifiedStateByteConstant || workingTreeState == porcelainModifiedStateByteConstant:
			changeSet.Modified = append(changeSet.Modified, changedPath)
		case indexState == porcelainAddedStateByteConstant || workingTreeState == porcelainAddedStateByteConstant:
			changeSet.Added = append(changeSet.Added, changedPath)
		case indexState == porcelainDeletedStateByteConstant || workingTreeState == porcelainDeletedStateByteConstant:
			if indexState != porcelainDeletedStateByteConstant {
				changeSet.Deleted = append(changeSet.Deleted, changedPath)
			}
		}
	}

	return changeSet
}
