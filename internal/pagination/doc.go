// Package pagination provides the client-side sort and page operations behind
// every cvdesk table.
//
// This package contains:
//   - SortSpec / PageSpec: the user-controlled ordering and windowing parameters
//   - Sort: stable, non-mutating ordering by a registered record field
//   - Page: non-mutating extraction of one page from an ordered slice
//   - Meta: page metadata (current page, totals, has-next/previous) for renderers
//
// Sort and Page are pure and safe for concurrent use. Callers always apply
// Sort before Page so that a page boundary never splits a tie group differently
// from the global order.
package pagination
