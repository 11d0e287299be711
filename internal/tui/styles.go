package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/backoffice/internal/tableview"
)

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtext lipgloss.Color = "#a6adc8"
	colorOverlay lipgloss.Color = "#6c7086"
	colorSurface lipgloss.Color = "#313244"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorFocus   lipgloss.Color = "#b4befe"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorWarning lipgloss.Color = "#f9e2af"
	colorError   lipgloss.Color = "#f38ba8"
)

type styles struct {
	title     lipgloss.Style
	crumb     lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	muted     lipgloss.Style
	header    lipgloss.Style
	cursorRow lipgloss.Style
	cursorCel lipgloss.Style
	editor    lipgloss.Style
	status    lipgloss.Style
	errorMsg  lipgloss.Style
	tones     map[tableview.Tone]lipgloss.Style
}

func defaultStyles() styles {
	base := lipgloss.NewStyle().Foreground(colorText)
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		crumb:     lipgloss.NewStyle().Foreground(colorSubtext),
		item:      base.PaddingLeft(2),
		selected:  lipgloss.NewStyle().Foreground(colorFocus).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(colorOverlay),
		header:    lipgloss.NewStyle().Bold(true).Foreground(colorSubtext).Underline(true),
		cursorRow: lipgloss.NewStyle().Background(colorSurface),
		cursorCel: lipgloss.NewStyle().Background(colorSurface).Foreground(colorFocus).Bold(true),
		editor:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 1),
		status:    lipgloss.NewStyle().Foreground(colorSuccess),
		errorMsg:  lipgloss.NewStyle().Foreground(colorError),
		tones: map[tableview.Tone]lipgloss.Style{
			tableview.ToneSuccess: lipgloss.NewStyle().Foreground(colorSuccess),
			tableview.ToneWarning: lipgloss.NewStyle().Foreground(colorWarning),
			tableview.ToneDanger:  lipgloss.NewStyle().Foreground(colorError),
			tableview.ToneMuted:   lipgloss.NewStyle().Foreground(colorOverlay),
		},
	}
}

// tone renders text in the color for t.
func (s styles) tone(t tableview.Tone, text string) string {
	if st, ok := s.tones[t]; ok {
		return st.Render(text)
	}
	return text
}
