package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live viewer.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Good    lipgloss.Color
	Warn    lipgloss.Color
	Alert   lipgloss.Color
}

var (
	ThemePhosphor = Theme{
		Name:    "phosphor",
		Primary: lipgloss.Color("#33ff66"),
		Accent:  lipgloss.Color("#aaffbb"),
		Text:    lipgloss.Color("#ccffcc"),
		Muted:   lipgloss.Color("#2f6b3a"),
		Border:  lipgloss.Color("#1f4d29"),
		Good:    lipgloss.Color("#66ff99"),
		Warn:    lipgloss.Color("#e6e64c"),
		Alert:   lipgloss.Color("#ff5555"),
	}

	ThemeEmber = Theme{
		Name:    "ember",
		Primary: lipgloss.Color("#ff8c42"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#fff1e0"),
		Muted:   lipgloss.Color("#8a5a44"),
		Border:  lipgloss.Color("#5c3a2e"),
		Good:    lipgloss.Color("#ffd166"),
		Warn:    lipgloss.Color("#ff8c42"),
		Alert:   lipgloss.Color("#ef476f"),
	}

	ThemeTide = Theme{
		Name:    "tide",
		Primary: lipgloss.Color("#00b4d8"),
		Accent:  lipgloss.Color("#90e0ef"),
		Text:    lipgloss.Color("#caf0f8"),
		Muted:   lipgloss.Color("#4a6f8a"),
		Border:  lipgloss.Color("#023e8a"),
		Good:    lipgloss.Color("#48cae4"),
		Warn:    lipgloss.Color("#ffb703"),
		Alert:   lipgloss.Color("#fb8500"),
	}

	ThemePaper = Theme{
		Name:    "paper",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#bbbbbb"),
		Text:    lipgloss.Color("#eeeeee"),
		Muted:   lipgloss.Color("#777777"),
		Border:  lipgloss.Color("#444444"),
		Good:    lipgloss.Color("#dddddd"),
		Warn:    lipgloss.Color("#aaaaaa"),
		Alert:   lipgloss.Color("#888888"),
	}
)

var themes = []Theme{ThemeTide, ThemePhosphor, ThemeEmber, ThemePaper}

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range themes {
		if th.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
