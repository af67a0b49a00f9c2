// Package record defines the CV row shown by cvdesk and the closed set of
// attributes it can be sorted by.
//
// Each sortable attribute is a Field value bound to a typed comparator:
//   - numeric fields (id, score) compare by value
//   - text fields (name, position_applied, status) compare by code point
//   - temporal fields (date_received) compare by instant
//
// Field names coming from the wire or the command line are resolved once with
// ParseField; anything outside the registry resolves to FieldNone.
package record
