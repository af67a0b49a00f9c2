package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cvdesk/internal/record"
)

func numbered(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{ID: string(rune('a' + i))}
	}
	return out
}

func TestPage(t *testing.T) {
	records := numbered(5)

	tests := []struct {
		name string
		spec PageSpec
		want []string
	}{
		{name: "first page", spec: PageSpec{Index: 0, Size: 2}, want: []string{"a", "b"}},
		{name: "middle page", spec: PageSpec{Index: 1, Size: 2}, want: []string{"c", "d"}},
		{name: "partial last page", spec: PageSpec{Index: 2, Size: 2}, want: []string{"e"}},
		{name: "past the end", spec: PageSpec{Index: 3, Size: 2}, want: []string{}},
		{name: "size larger than set", spec: PageSpec{Index: 0, Size: 50}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "zero size", spec: PageSpec{Index: 0, Size: 0}, want: []string{}},
		{name: "negative index", spec: PageSpec{Index: -1, Size: 2}, want: []string{}},
		{name: "overflowing index", spec: PageSpec{Index: math.MaxInt, Size: 2}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(records, tt.spec)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
			assert.LessOrEqual(t, len(got), max(tt.spec.Size, 0))
		})
	}
}

// A stale page index against a shrunken record set is an empty page, not an error.
func TestPage_StaleIndex(t *testing.T) {
	got := Page(numbered(3), PageSpec{Index: 5, Size: 10})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestPage_ReusableInput(t *testing.T) {
	records := numbered(6)
	original := append([]record.Record(nil), records...)
	spec := PageSpec{Index: 1, Size: 2}

	first := Page(records, spec)
	second := Page(records, spec)

	assert.Equal(t, first, second)
	assert.Equal(t, original, records)

	// The page owns its backing array.
	first[0].ID = "z"
	assert.Equal(t, "c", records[2].ID)
	assert.Equal(t, "c", second[0].ID)
}

func TestPage_ConcatenationReproducesInput(t *testing.T) {
	records := numbered(7)
	size := 3

	var all []record.Record
	for i := 0; i < TotalPages(len(records), size); i++ {
		all = append(all, Page(records, PageSpec{Index: i, Size: size})...)
	}
	assert.Equal(t, records, all)
}

// Sorting first keeps the global order when a page boundary splits a tie group.
func TestSortThenPage_TieGroupAcrossBoundary(t *testing.T) {
	records := []record.Record{
		{ID: "1", Score: 50},
		{ID: "2", Score: 10},
		{ID: "3", Score: 50},
		{ID: "4", Score: 10},
		{ID: "5", Score: 50},
	}
	spec := SortSpec{Field: record.FieldScore, Direction: DirectionAsc}

	page0 := Page(Sort(records, spec), PageSpec{Index: 0, Size: 3})
	page1 := Page(Sort(records, spec), PageSpec{Index: 1, Size: 3})

	assert.Equal(t, []string{"2", "4", "1"}, ids(page0))
	assert.Equal(t, []string{"3", "5"}, ids(page1))

	// Slicing first would put record 1 on the first page next to the 10s only by accident.
	wrong := Sort(Page(records, PageSpec{Index: 0, Size: 3}), spec)
	assert.NotEqual(t, ids(page0), ids(wrong))
}

func TestSortedPagesByScore(t *testing.T) {
	records := scoredRecords()
	spec := SortSpec{Field: record.FieldScore, Direction: DirectionAsc}

	assert.Equal(t, []string{"1", "3"}, ids(Page(Sort(records, spec), PageSpec{Index: 0, Size: 2})))
	assert.Equal(t, []string{"2"}, ids(Page(Sort(records, spec), PageSpec{Index: 1, Size: 2})))
}
