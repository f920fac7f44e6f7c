package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme provides
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	Inverse   lipgloss.Color
	Bar       lipgloss.Color
	Link      lipgloss.Color
}

var (
	Dark = Palette{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#10B981"), // Green
		Muted:     lipgloss.Color("#6B7280"), // Gray
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#EF4444"), // Red
		Text:      lipgloss.Color("#F9FAFB"),
		Inverse:   lipgloss.Color("#FFFFFF"),
		Bar:       lipgloss.Color("#1F2937"),
		Link:      lipgloss.Color("#60A5FA"), // Blue
	}

	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#047857"),
		Muted:     lipgloss.Color("#6B7280"),
		Warning:   lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Text:      lipgloss.Color("#111827"),
		Inverse:   lipgloss.Color("#FFFFFF"),
		Bar:       lipgloss.Color("#E5E7EB"),
		Link:      lipgloss.Color("#1D4ED8"),
	}
)

// Styles built from the active palette. Apply rebuilds them.
var (
	App        lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Category   lipgloss.Style
	Personal   lipgloss.Style
	Site       lipgloss.Style
	SiteURL    lipgloss.Style
	Selected   lipgloss.Style
	Proxy      lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusText lipgloss.Style

	InputLabel   lipgloss.Style
	InputField   lipgloss.Style
	InputFocused lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	Success     lipgloss.Style
	ErrorMsg    lipgloss.Style
	SearchMatch lipgloss.Style
	MutedText   lipgloss.Style

	current = "dark"
)

func init() {
	Apply("dark")
}

// Current returns the name of the applied theme
func Current() string {
	return current
}

// Apply switches every style to the named theme ("light" or "dark").
// Unknown names fall back to dark.
func Apply(theme string) {
	p := Dark
	current = "dark"
	if theme == "light" {
		p = Light
		current = "light"
	}

	App = lipgloss.NewStyle().Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	Category = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	Personal = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning)

	Site = lipgloss.NewStyle().Foreground(p.Text)

	SiteURL = lipgloss.NewStyle().Foreground(p.Link)

	Selected = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(p.Inverse).
		Bold(true)

	Proxy = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	StatusBar = lipgloss.NewStyle().
		Background(p.Bar).
		Foreground(p.Text).
		Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
		Background(p.Primary).
		Foreground(p.Inverse).
		Padding(0, 1).
		MarginRight(1)

	StatusText = lipgloss.NewStyle().Foreground(p.Muted)

	InputLabel = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	InputField = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().Foreground(p.Muted)

	HelpSeparator = lipgloss.NewStyle().
		Foreground(p.Muted).
		SetString(" • ")

	Success = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	SearchMatch = lipgloss.NewStyle().
		Background(p.Warning).
		Foreground(p.Inverse)

	MutedText = lipgloss.NewStyle().Foreground(p.Muted)
}

// SyncBadge returns the status bar style for a sync status name
func SyncBadge(status string) lipgloss.Style {
	p := Dark
	if current == "light" {
		p = Light
	}
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(p.Inverse)
	switch status {
	case "success":
		return base.Background(p.Secondary)
	case "error":
		return base.Background(p.Error)
	case "pending", "syncing":
		return base.Background(p.Warning)
	case "idle":
		return base.Background(p.Primary)
	default:
		return base.Background(p.Muted)
	}
}
