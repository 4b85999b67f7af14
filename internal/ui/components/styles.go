package components

import "github.com/charmbracelet/lipgloss"

// Shared palette for the popup and its components.
var (
	Primary   = lipgloss.Color("#2563EB")
	Secondary = lipgloss.Color("#60A5FA")
	Success   = lipgloss.Color("#10B981")
	Danger    = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F9FAFB")
)
