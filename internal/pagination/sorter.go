package pagination

import (
	"slices"

	"github.com/rshade/cvdesk/internal/record"
)

// Sort orders records by spec and returns a new slice; the input is never modified.
//
// An inactive spec or an unregistered field returns records itself, so the
// result is the identity sequence rather than a copy. Ties keep their original
// relative order in both directions, which keeps pagination deterministic
// across repeated recomputation.
func Sort(records []record.Record, spec SortSpec) []record.Record {
	if !spec.Active() {
		return records
	}

	compare := spec.Field.Comparator()
	if compare == nil {
		return records
	}

	sorted := slices.Clone(records)
	if spec.Direction == DirectionDesc {
		slices.SortStableFunc(sorted, func(a, b record.Record) int {
			return compare(b, a)
		})
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
