package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logsieve/internal/filter"
)

// Theme is a named palette. Colors are hex strings.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string
	Info    string

	// LevelColors maps event levels to colors; filled from Info, Warning and
	// Danger.
	LevelColors map[string]string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	levelColors map[string]string
	background  string
	text        string
}

// Styles builds the styles for t.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		levelColors: t.LevelColors,
		background:  t.Background,
		text:        t.Text,
	}
}

// LevelStyle returns the foreground style for an event level. Unknown levels
// use the plain text color.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.levelColor(level)))
}

// LevelBadge returns a filled badge style for an event level.
func (s Styles) LevelBadge(level string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(s.levelColor(level))).
		Padding(0, 1)
}

func (s Styles) levelColor(level string) string {
	if color := s.levelColors[level]; color != "" {
		return color
	}
	return s.text
}

// WithBackground returns a copy whose text and header styles paint bgColor
// explicitly instead of inheriting the terminal background. Selected keeps its
// own background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, style := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.WarningText, &s.DangerText, &s.InfoText, &s.Header, &s.Logo,
	} {
		*style = style.Background(bg)
	}
	return s
}

// Palettes: Nightfox (EdenEast/nightfox.nvim), Kanagawa (rebelot/kanagawa.nvim)
// and Tailwind slate/sky.
var themeList = []Theme{
	{
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
	},
	{
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
	},
	{
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
	},
}

var (
	themes     = map[string]Theme{}
	themeOrder []string
)

func init() {
	for _, t := range themeList {
		t.LevelColors = map[string]string{
			filter.LevelInformation: t.Info,
			filter.LevelWarning:     t.Warning,
			filter.LevelError:       t.Danger,
		}
		themes[t.Name] = t
		themeOrder = append(themeOrder, t.Name)
	}
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}
