package sections

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

var statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

// Stat карточка с числом и подписью
type Stat struct {
	Value string
	Label string
}

// Stats возвращает карточки раздела: число треков и общую длительность
func Stats(catalog *album.Catalog) []Stat {
	return []Stat{
		{Value: strconv.Itoa(catalog.Len()), Label: "Треков"},
		{Value: playback.FormatTime(catalog.TotalDuration()), Label: "Длительность"},
	}
}

// About отображает описание альбома, выходные данные и карточки статистики
func About(a *album.Album, catalog *album.Catalog, width int) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Об альбоме"))
	b.WriteString("\n")

	paragraph := textStyle.Width(textWidth(width))
	for _, p := range a.About {
		b.WriteString(paragraph.Render(p))
		b.WriteString("\n\n")
	}

	for _, line := range [][2]string{
		{"Релиз", a.Release},
		{"Продюсер", a.Producer},
		{"Лейбл", a.Label},
	} {
		if line[1] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mutedStyle.Render(line[0]+":"), line[1]))
	}
	b.WriteString("\n")

	stats := Stats(catalog)
	cards := make([]string, 0, len(stats))
	for _, s := range stats {
		cards = append(cards, cardStyle.Render(statValueStyle.Render(s.Value)+"\n"+mutedStyle.Render(s.Label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))

	if a.Copyright != "" {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(a.Copyright))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
