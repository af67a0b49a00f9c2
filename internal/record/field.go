package record

import (
	"cmp"
	"fmt"
	"strings"
)

// Kind is the comparison family of a sortable field.
type Kind int

const (
	// KindText compares by Unicode code point.
	KindText Kind = iota
	// KindNumeric compares by numeric value.
	KindNumeric
	// KindTemporal compares by instant.
	KindTemporal
)

// String returns the human-readable label for a Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Field identifies a sortable record attribute.
type Field int

const (
	// FieldNone means no sort field is selected.
	FieldNone Field = iota
	// FieldID sorts by identifier.
	FieldID
	// FieldName sorts by candidate name.
	FieldName
	// FieldPositionApplied sorts by the position applied for.
	FieldPositionApplied
	// FieldScore sorts by parser score.
	FieldScore
	// FieldStatus sorts by review status.
	FieldStatus
	// FieldDateReceived sorts by the date the CV arrived.
	FieldDateReceived
)

// Comparator orders two records; negative when a sorts before b.
type Comparator func(a, b Record) int

type fieldDef struct {
	name    string
	kind    Kind
	compare Comparator
}

//nolint:gochecknoglobals // Closed registry indexed by Field.
var fieldDefs = [...]fieldDef{
	FieldNone:            {},
	FieldID:              {name: "id", kind: KindNumeric, compare: compareID},
	FieldName:            {name: "name", kind: KindText, compare: compareName},
	FieldPositionApplied: {name: "position_applied", kind: KindText, compare: comparePosition},
	FieldScore:           {name: "score", kind: KindNumeric, compare: compareScore},
	FieldStatus:          {name: "status", kind: KindText, compare: compareStatus},
	FieldDateReceived:    {name: "date_received", kind: KindTemporal, compare: compareDateReceived},
}

// Fields returns every sortable field in display order.
func Fields() []Field {
	return []Field{FieldID, FieldName, FieldDateReceived, FieldPositionApplied, FieldScore, FieldStatus}
}

// ParseField resolves a wire name such as "score" to its Field.
// Matching ignores case and surrounding space; "positionApplied" and
// "dateReceived" are accepted as aliases.
func ParseField(name string) (Field, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "positionapplied":
		key = "position_applied"
	case "datereceived":
		key = "date_received"
	}
	for f := FieldID; int(f) < len(fieldDefs); f++ {
		if fieldDefs[f].name == key {
			return f, true
		}
	}
	return FieldNone, false
}

// Valid reports whether f is a registered sortable field.
func (f Field) Valid() bool {
	return f > FieldNone && int(f) < len(fieldDefs)
}

// String returns the wire name of the field, or "" for FieldNone.
func (f Field) String() string {
	if f == FieldNone {
		return ""
	}
	if !f.Valid() {
		return fmt.Sprintf("unknown(%d)", int(f))
	}
	return fieldDefs[f].name
}

// Kind returns the comparison family of the field.
func (f Field) Kind() Kind {
	if !f.Valid() {
		return KindText
	}
	return fieldDefs[f].kind
}

// Comparator returns the typed comparator for the field, or nil when f is
// not a registered field.
func (f Field) Comparator() Comparator {
	if !f.Valid() {
		return nil
	}
	return fieldDefs[f].compare
}

// Value returns the field of r as display text.
func (f Field) Value(r Record) string {
	switch f {
	case FieldID:
		return r.ID
	case FieldName:
		return r.Name
	case FieldPositionApplied:
		return r.PositionApplied
	case FieldScore:
		return fmt.Sprintf("%g", r.Score)
	case FieldStatus:
		return r.Status
	case FieldDateReceived:
		if r.DateReceived.IsZero() {
			return ""
		}
		return r.DateReceived.Format(dateOnlyLayout)
	default:
		return ""
	}
}

// compareID orders numeric ids by value ahead of non-numeric ids, which
// compare by code point.
func compareID(a, b Record) int {
	an, aok := a.numericID()
	bn, bok := b.numericID()
	switch {
	case aok && bok:
		return cmp.Compare(an, bn)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

func compareName(a, b Record) int {
	return strings.Compare(a.Name, b.Name)
}

func comparePosition(a, b Record) int {
	return strings.Compare(a.PositionApplied, b.PositionApplied)
}

func compareScore(a, b Record) int {
	return cmp.Compare(a.Score, b.Score)
}

func compareStatus(a, b Record) int {
	return strings.Compare(a.Status, b.Status)
}

func compareDateReceived(a, b Record) int {
	return a.DateReceived.Compare(b.DateReceived)
}
