package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the veridoc palette.
const (
	primaryColor   = "#2563EB" // Blue
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
)

// Style variables for consistent TUI rendering.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// StatusBarStyle provides styling for the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1)

	// ActiveTabStyle renders the active tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(primaryColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2)

	// InactiveTabStyle renders inactive tabs.
	InactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#9CA3AF")).
				Padding(0, 2)

	// CitationStyle renders inline citation badges in answer text.
	CitationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// ActiveCitationStyle renders the citation badge matching the shared
	// active evidence selection.
	ActiveCitationStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(primaryColor)).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// EvidenceCardStyle renders one evidence card in the side panel.
	EvidenceCardStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(dimColor)).
				Padding(0, 1)

	// ActiveEvidenceCardStyle highlights the selected evidence card.
	ActiveEvidenceCardStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(primaryColor)).
				Padding(0, 1)
)

// Status icon variables (pre-rendered strings).
var (
	// IconDone indicates a completed stage or upload.
	IconDone = SuccessStyle.Render("✓")

	// IconActive indicates the stage or upload currently in progress.
	IconActive = WarningStyle.Render("▸")

	// IconPending indicates a stage or upload waiting its turn.
	IconPending = DimStyle.Render("○")

	// IconFailed indicates a failed stage or upload.
	IconFailed = ErrorStyle.Render("✗")
)
