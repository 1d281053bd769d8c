// Package sections содержит разделы страницы альбома: обложку, описание и ссылки на платформы
package sections

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#a78bfa")
	muted  = lipgloss.Color("#888888")

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	mutedStyle = lipgloss.NewStyle().Foreground(muted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3f3f46")).
			Padding(0, 2).
			MarginRight(1)

	activeCardStyle = cardStyle.
			BorderForeground(accent)
)

// textWidth ширина текста с учетом отступов, но не уже 20 колонок
func textWidth(width int) int {
	if width-4 < 20 {
		return 20
	}
	return width - 4
}
