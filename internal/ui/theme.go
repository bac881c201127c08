package ui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette — GitHub Dark aesthetic
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.
// Designed for readability in dark terminals during long reading
// sessions.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")
	colorCyan   = lipgloss.Color("#76e3ea")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Feed rows
var (
	feedRowStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	feedSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	feedTimeStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	feedAuthorStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	feedStarredAuthorStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	feedKindReplyStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	feedKindRepostStyle = lipgloss.NewStyle().
				Foreground(colorPurple)

	feedStarMarkStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)

// Thread overlay
var (
	threadFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBlue).
				Padding(0, 1)

	threadTitleStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	threadBranchStyle = lipgloss.NewStyle().
				Foreground(colorDivider)

	threadFocusStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	threadDimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	threadMetricStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)
)

// Help overlay
var (
	helpFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDivider).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusAccentStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Background(colorBgSurface).
				Bold(true)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Background(colorBgSurface)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Search bar
var (
	searchBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	searchCursorStyle = lipgloss.NewStyle().
				Background(colorBlue).
				Foreground(colorBg)
)
