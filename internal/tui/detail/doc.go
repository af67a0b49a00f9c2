// Package detail provides lazy loading and error recovery for the CV detail
// screen.
//
// A Model fetches one CV by id only when the screen is opened, so moving
// through the table never waits on the detail endpoint. Key features:
//   - Async loading with an immediate loading state
//   - Its own error slot, separate from the table's
//   - Inline retry with 'r' while the error is shown
//   - Results of superseded attempts are ignored
//
// The package holds state only; the tui package renders it.
package detail
