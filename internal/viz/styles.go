package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas    lipgloss.Style
	panel     lipgloss.Style
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	muted     lipgloss.Style
	key       lipgloss.Style
	graph     lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	recording lipgloss.Style
	high      lipgloss.Style
	mid       lipgloss.Style
	low       lipgloss.Style
	help      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:    lipgloss.NewStyle().Foreground(t.Primary).Padding(canvasPadY, canvasPadX),
		panel:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Border).Padding(1, 2).Width(panelWidth),
		title:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		key:       lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:     lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		running:   lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		paused:    lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		recording: lipgloss.NewStyle().Foreground(t.Alert).Bold(true).Blink(true),
		high:      lipgloss.NewStyle().Foreground(t.Alert),
		mid:       lipgloss.NewStyle().Foreground(t.Warn),
		low:       lipgloss.NewStyle().Foreground(t.Good),
		help:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Foreground(t.Text).Padding(0, 1),
	}
}

// bar renders a ratio in [0, 1] as a filled bar.
func (s styles) bar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	filled = max(0, min(filled, width))
	b := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case ratio > 0.8:
		return s.high.Render(b)
	case ratio > 0.4:
		return s.mid.Render(b)
	}
	return s.low.Render(b)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the last width values, scaled to their own range.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return s.muted.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[max(0, min(idx, len(sparkRunes)-1))])
	}
	return s.low.Render(b.String())
}

func (s styles) separator(width int) string {
	return s.muted.Render(strings.Repeat("─", width))
}
