package snapshot

import "slices"

// Changes classifies paths between an old and a new snapshot. The three sets
// are disjoint; each is sorted lexically. A path absent from both snapshots
// appears nowhere.
type Changes struct {
	Removed  []string // in old, not in new
	Modified []string // in both, modification time differs
	Added    []string // in new, not in old
}

// Diff compares old against new. Timestamps must be exactly equal for a path
// to count as unchanged; there is no tolerance window.
func Diff(old, new Snapshot) Changes {
	var c Changes
	for path, oldTime := range old {
		newTime, ok := new[path]
		switch {
		case !ok:
			c.Removed = append(c.Removed, path)
		case !oldTime.Equal(newTime):
			c.Modified = append(c.Modified, path)
		}
	}
	for path := range new {
		if _, ok := old[path]; !ok {
			c.Added = append(c.Added, path)
		}
	}

	slices.Sort(c.Removed)
	slices.Sort(c.Modified)
	slices.Sort(c.Added)
	return c
}

// Total returns the number of changed paths across all three sets.
func (c Changes) Total() int {
	return len(c.Removed) + len(c.Modified) + len(c.Added)
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return c.Total() == 0
}

// Updated returns the modified paths followed by the added paths.
func (c Changes) Updated() []string {
	return slices.Concat(c.Modified, c.Added)
}
