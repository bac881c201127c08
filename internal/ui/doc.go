// Package ui implements the Perch terminal user interface.
//
// Built with Charmbracelet's BubbleTea and Lipgloss, but rendering is
// not "redraw the world every update": the screen is a tree of
// independently-stateful components with per-node dirty bookkeeping,
// and only dirty nodes re-render on a tick. Input events route through
// the same tree under a consumed/ignored contract.
//
// Component architecture:
//
//	component.go — node kinds, component tree, invalidation tracker
//	dispatch.go  — key routing with bubbling consumption
//	session.go   — shared state passed into every handler and renderer
//	model.go     — root BubbleTea model: the tick loop glue
//	theme.go     — centralized color + style definitions
//	header.go    — top bar with lens context
//	feedpane.go  — the scrolling timeline
//	searchbar.go — search input with lens routing
//	threadview.go— thread overlay for the selected post
//	helpview.go  — key binding overlay
//	statusbar.go — bottom status line + keyboard hints
//	helpers.go   — clamping, small shared utilities
package ui
