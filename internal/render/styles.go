package render

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#2DA44E")
	warningColor = lipgloss.Color("#D29922")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
	linkColor    = lipgloss.Color("#58A6FF")
	scoreColor   = lipgloss.Color("#F778BA")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	StrengthStyle = lipgloss.NewStyle().Foreground(accentColor)
	PartialStyle  = lipgloss.NewStyle().Foreground(warningColor)
	MissingStyle  = lipgloss.NewStyle().Foreground(errorColor)
	DimStyle      = lipgloss.NewStyle().Foreground(dimColor)
	LinkStyle     = lipgloss.NewStyle().Foreground(linkColor).Underline(true)
	ScoreStyle    = lipgloss.NewStyle().Foreground(scoreColor).Bold(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// scoreStyle colours a score by its band.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return ScoreStyle.Foreground(accentColor)
	case score >= 60:
		return ScoreStyle
	case score >= 40:
		return ScoreStyle.Foreground(warningColor)
	default:
		return ScoreStyle.Foreground(errorColor)
	}
}
