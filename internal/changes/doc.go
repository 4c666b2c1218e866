// Package changes turns raw repository status output into structured change
// sets, enumerates every changed path across the working tree, the index, and
// untracked files, and classifies each path as eligible, ignored, or
// sensitive ahead of staging.
package changes
