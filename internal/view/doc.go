// Package view implements the controller behind every cvdesk table: it owns
// the record set from the last successful fetch, the active sort and page
// selection, and an error slot, and republishes a consistent page whenever
// any of them changes.
//
// A Controller runs one event loop per connection. The loop merges four
// trigger sources, each on its own channel:
//   - fetch results (from the injected Fetcher)
//   - sort changes
//   - page changes
//   - refresh requests
//
// Every trigger recomputes Page(Sort(records, sort), page) and publishes a
// View tagged with the Trigger that caused it. Fetch failures keep the
// previous records and set the error slot; the next successful fetch clears it.
//
// Lifecycle:
//
//	c := view.New(fetch)
//	_ = c.BindSort(pagination.SortSpec{}, sortCh)
//	_ = c.BindPage(pagination.NewPageSpec(), pageCh)
//	views, err := c.Connect(ctx)
//	...
//	c.Disconnect() // closes views and c.Errors()
package view
