package browser

import (
	"slices"
	"strings"

	"github.com/HaiFongPan/fsb-cli/internal/api"
)

// SortColumn selects the listing sort key. SortNone keeps server order.
type SortColumn int

const (
	SortNone SortColumn = iota
	SortName
	SortSize
	SortModTime
)

func (s SortColumn) String() string {
	switch s {
	case SortName:
		return "name"
	case SortSize:
		return "size"
	case SortModTime:
		return "modified"
	default:
		return "none"
	}
}

// sortEntries returns a sorted copy with directories ahead of files
func sortEntries(entries []api.Entry, col SortColumn, desc bool) []api.Entry {
	out := slices.Clone(entries)
	if col == SortNone {
		return out
	}

	slices.SortStableFunc(out, func(a, b api.Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		var n int
		switch col {
		case SortName:
			n = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortSize:
			n = cmpInt64(a.FileSize, b.FileSize)
		case SortModTime:
			n = cmpInt64(a.ModTime, b.ModTime)
		}
		if desc {
			n = -n
		}
		return n
	})
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
