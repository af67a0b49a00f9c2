// Package tui renders a view.Controller as an interactive Bubble Tea table.
package tui
