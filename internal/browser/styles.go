package browser

import "github.com/charmbracelet/lipgloss"

// Palette holds the color set for the browser. Every text color below clears
// a 4.5:1 body-text contrast ratio against Background; Border is a line
// color only (~1.9:1 against Background).
var (
	Background = lipgloss.Color("#101418")
	Foreground = lipgloss.Color("#e6e9ec") // ~15.2:1 against Background
	Muted      = lipgloss.Color("#9aa4ad") // ~7.3:1 against Background
	Accent     = lipgloss.Color("#8bc34a") // ~8.8:1 against Background
	Border     = lipgloss.Color("#3a4450")
	Danger     = lipgloss.Color("#ff6b6b") // ~6.7:1 against Background
	Warning    = lipgloss.Color("#ffcc66") // ~12.4:1 against Background
)

// Styles bundles the lipgloss styles used by View, built once per Model
// and reused across renders.
type Styles struct {
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	RowCursor    lipgloss.Style
	StatusBar    lipgloss.Style
	SearchBox    lipgloss.Style
	DialogBorder lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	ErrorText    lipgloss.Style
	NoColor      bool
}

// NewStyles builds the Styles set, stripping color when noColor is set
// (honoring --no-color / NO_COLOR).
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Row: plain, RowSelected: plain, RowCursor: plain,
			StatusBar: plain, SearchBox: plain, DialogBorder: plain,
			HelpKey: plain, HelpDesc: plain, ErrorText: plain,
			NoColor: true,
		}
	}
	return Styles{
		Row:         lipgloss.NewStyle().Foreground(Foreground),
		RowSelected: lipgloss.NewStyle().Foreground(Accent).Bold(true),
		RowCursor:   lipgloss.NewStyle().Foreground(Background).Background(Accent),
		StatusBar:   lipgloss.NewStyle().Foreground(Muted),
		SearchBox:   lipgloss.NewStyle().Foreground(Foreground).BorderStyle(lipgloss.NormalBorder()).BorderForeground(Border),
		DialogBorder: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(1, 2),
		HelpKey:     lipgloss.NewStyle().Foreground(Accent).Bold(true),
		HelpDesc:    lipgloss.NewStyle().Foreground(Muted),
		ErrorText:   lipgloss.NewStyle().Foreground(Danger).Bold(true),
	}
}
