package pagination

import (
	"github.com/rshade/cvdesk/internal/record"
)

// Page returns the records in [Index*Size, Index*Size+Size) clipped to the
// slice bounds, as a fresh slice that does not share a backing array with the input.
//
// A page that starts past the end yields an empty slice, not an error; this is
// the normal case when a refetch shrinks the record set under a stale index.
// Specs that fail Validate also yield an empty slice.
func Page(records []record.Record, spec PageSpec) []record.Record {
	if spec.Size < MinPageSize || spec.Index < 0 {
		return []record.Record{}
	}

	start := spec.Offset()
	// Guard against overflow for very large indexes.
	if start < 0 || start >= len(records) || start/spec.Size != spec.Index {
		return []record.Record{}
	}

	end := start + spec.Size
	if end > len(records) || end < start {
		end = len(records)
	}

	page := make([]record.Record, end-start)
	copy(page, records[start:end])
	return page
}
