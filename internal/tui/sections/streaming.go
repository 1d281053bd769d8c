package sections

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/midnight-echoes/internal/album"
)

// OpenLinkMsg запрашивает открытие ссылки в браузере
type OpenLinkMsg struct {
	Platform album.Platform
	URL      string
}

// Streaming раздел со ссылками на стриминговые платформы
type Streaming struct {
	links  []album.PlatformLink
	icons  album.IconStyle
	cursor int
	status string
}

// NewStreaming создает раздел ссылок
func NewStreaming(links []album.PlatformLink, icons album.IconStyle) *Streaming {
	return &Streaming{links: links, icons: icons}
}

// Cursor возвращает индекс выделенной платформы
func (s *Streaming) Cursor() int {
	return s.cursor
}

// SetStatus показывает строку состояния под карточками
func (s *Streaming) SetStatus(status string) {
	s.status = status
}

// Update перемещает выделение и открывает ссылку по enter
func (s *Streaming) Update(msg tea.Msg) (*Streaming, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(s.links) == 0 {
		return s, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		s.cursor = (s.cursor - 1 + len(s.links)) % len(s.links)
	case "down", "j":
		s.cursor = (s.cursor + 1) % len(s.links)
	case "enter", " ":
		link := s.links[s.cursor]
		return s, func() tea.Msg {
			return OpenLinkMsg{Platform: link.Platform, URL: link.Href()}
		}
	}
	return s, nil
}

// View отображает карточки платформ
func (s *Streaming) View(width int) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Слушайте на платформах"))
	b.WriteString("\n")

	cardWidth := min(textWidth(width), 60)
	for i, link := range s.links {
		style := cardStyle
		if i == s.cursor {
			style = activeCardStyle
		}

		name := link.Platform.String()
		if icon := link.Platform.Icon(s.icons); icon != "" {
			name = icon + "  " + name
		}
		card := fmt.Sprintf("%s\n%s", name, mutedStyle.Render(link.Href()))
		b.WriteString(style.Width(cardWidth).Render(card))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("↑/↓: выбор • enter: открыть в браузере"))
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(s.status)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
