package sections

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/midnight-echoes/internal/album"
)

var (
	heroTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f5f3ff")).
			Background(lipgloss.Color("#4c1d95")).
			Padding(1, 4)

	taglineStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(accent).
			MarginTop(1)
)

// Hero отображает первый экран: название, исполнителя и подсказки по клавишам
func Hero(a *album.Album, width int) string {
	var b strings.Builder

	b.WriteString(heroTitleStyle.Render(strings.ToUpper(a.Title)))
	b.WriteString("\n")
	if a.Artist != "" && a.Artist != a.Title {
		b.WriteString(mutedStyle.Render(a.Artist))
		b.WriteString("\n")
	}
	if a.Tagline != "" {
		b.WriteString(taglineStyle.Render(a.Tagline))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Width(textWidth(width)).Render(
		"2: слушать треки • 4: открыть на платформах • tab: следующий раздел • q: выход"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
