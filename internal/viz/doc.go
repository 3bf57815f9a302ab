// Package viz holds the terminal drawing primitives: a braille [Canvas]
// with per-cell colour, and the lipgloss styles shared by the live views.
package viz
