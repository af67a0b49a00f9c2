package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/cvdesk/internal/record"
)

// Page size limits and defaults.
const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 1000
	SortOrderAsc    = "asc"
	SortOrderDesc   = "desc"
)

// Common validation errors.
var (
	ErrInvalidPageIndex  = errors.New("page index must be >= 0")
	ErrInvalidPageSize   = errors.New("page size must be between 1 and 1000")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'score:desc')")
	ErrUnknownSortField  = errors.New("unknown sort field")
)

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// Direction is the sort direction of a SortSpec.
type Direction int

const (
	// DirectionNone means no active sort.
	DirectionNone Direction = iota
	// DirectionAsc sorts ascending.
	DirectionAsc
	// DirectionDesc sorts descending.
	DirectionDesc
)

// String returns "asc", "desc" or "" for DirectionNone.
func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return SortOrderAsc
	case DirectionDesc:
		return SortOrderDesc
	case DirectionNone:
		return ""
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// SortSpec selects the field and direction records are ordered by.
type SortSpec struct {
	Field     record.Field
	Direction Direction
}

// Active reports whether the spec orders anything. An inactive spec leaves
// records in their original order.
func (s SortSpec) Active() bool {
	return s.Field.Valid() && (s.Direction == DirectionAsc || s.Direction == DirectionDesc)
}

// String renders the spec as a "field:order" expression, or "" when inactive.
func (s SortSpec) String() string {
	if !s.Active() {
		return ""
	}
	return s.Field.String() + ":" + s.Direction.String()
}

// Toggle returns the spec produced by selecting field in a table header:
// a new field starts ascending, the same field cycles asc -> desc -> none.
func (s SortSpec) Toggle(field record.Field) SortSpec {
	if s.Field != field || s.Direction == DirectionNone {
		return SortSpec{Field: field, Direction: DirectionAsc}
	}
	switch s.Direction {
	case DirectionAsc:
		return SortSpec{Field: field, Direction: DirectionDesc}
	default:
		return SortSpec{}
	}
}

// Reverse flips the direction of an active spec; inactive specs are returned unchanged.
func (s SortSpec) Reverse() SortSpec {
	switch s.Direction {
	case DirectionAsc:
		s.Direction = DirectionDesc
	case DirectionDesc:
		s.Direction = DirectionAsc
	default:
	}
	return s
}

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "score", "name:desc", "date_received:asc".
//
// An empty string yields an inactive spec. An unregistered field yields an
// inactive spec together with ErrUnknownSortField so callers can warn while
// still falling back to the original order.
func ParseSort(sortStr string) (SortSpec, error) {
	if strings.TrimSpace(sortStr) == "" {
		return SortSpec{}, nil
	}

	parts := strings.Split(sortStr, ":")
	var name, order string
	switch len(parts) {
	case 1:
		name = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		name = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if name == "" {
		return SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	var dir Direction
	switch order {
	case SortOrderAsc:
		dir = DirectionAsc
	case SortOrderDesc:
		dir = DirectionDesc
	default:
		return SortSpec{}, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	field, ok := record.ParseField(name)
	if !ok {
		return SortSpec{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownSortField, name, strings.Join(ValidSortFields(), ", "))
	}

	return SortSpec{Field: field, Direction: dir}, nil
}

// ValidSortFields returns the wire names of all sortable fields.
func ValidSortFields() []string {
	fields := record.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.String())
	}
	return names
}

// PageSpec selects one page of an ordered sequence. Index is 0-based.
type PageSpec struct {
	Index int
	Size  int
}

// NewPageSpec returns the first page with the default size.
func NewPageSpec() PageSpec {
	return PageSpec{Index: 0, Size: DefaultPageSize}
}

// Validate checks the page bounds.
func (p PageSpec) Validate() error {
	if p.Index < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageIndex, p.Index)
	}
	if p.Size < MinPageSize || p.Size > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.Size)
	}
	return nil
}

// Offset returns the index of the first record on the page.
func (p PageSpec) Offset() int {
	return p.Index * p.Size
}

// Next returns the following page.
func (p PageSpec) Next() PageSpec {
	p.Index++
	return p
}

// Previous returns the preceding page, stopping at the first one.
func (p PageSpec) Previous() PageSpec {
	if p.Index > 0 {
		p.Index--
	}
	return p
}

// FromPageNumber converts a 1-based page number (as used on the command line)
// into a PageSpec.
func FromPageNumber(page, size int) (PageSpec, error) {
	if page < 1 {
		return PageSpec{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPageIndex, page)
	}
	spec := PageSpec{Index: page - 1, Size: size}
	if err := spec.Validate(); err != nil {
		return PageSpec{}, err
	}
	return spec, nil
}
