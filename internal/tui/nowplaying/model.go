// Package nowplaying содержит панель текущего трека: название, прогресс и время
package nowplaying

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7c3aed")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e9d5ff"))

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 60
)

// Model панель воспроизведения. Видна только при выбранном треке.
type Model struct {
	catalog     *album.Catalog
	albumTitle  string
	progressBar progress.Model
	state       playback.State
	width       int
}

// NewModel создает панель воспроизведения
func NewModel(catalog *album.Catalog, albumTitle string) *Model {
	prog := progress.New(
		progress.WithGradient("#7c3aed", "#ec4899"),
		progress.WithoutPercentage(),
	)
	prog.Width = defaultBarWidth

	return &Model{
		catalog:     catalog,
		albumTitle:  albumTitle,
		progressBar: prog,
	}
}

// Visible сообщает, нужно ли показывать панель
func (m *Model) Visible() bool {
	return m.state.HasSelection
}

// SetState принимает новый снимок состояния и анимирует прогресс-бар
func (m *Model) SetState(s playback.State) tea.Cmd {
	m.state = s
	return m.progressBar.SetPercent(s.Progress())
}

// SetWidth задает ширину панели
func (m *Model) SetWidth(width int) {
	m.width = width
	m.progressBar.Width = min(maxBarWidth, max(10, width-20))
}

// Update обрабатывает кадры анимации прогресс-бара
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(progress.FrameMsg); ok {
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View отображает панель
func (m *Model) View() string {
	if !m.Visible() {
		return ""
	}

	title := "?"
	if track, ok := m.catalog.TrackByID(m.state.SelectedID); ok {
		title = track.Title
	}

	header := fmt.Sprintf("%s  %s\n%s",
		statusGlyph(m.state),
		titleStyle.Render(title),
		albumStyle.Render(m.albumTitle))

	timeText := timeStyle.Render(fmt.Sprintf("%s / %s",
		playback.FormatTime(m.state.Elapsed),
		playback.FormatTime(m.state.Total)))

	body := fmt.Sprintf("%s\n\n%s  %s", header, m.progressBar.View(), timeText)

	if m.state.Err != nil {
		body += "\n" + errorStyle.Render("Не удалось воспроизвести: "+m.state.Err.Error())
	}

	return panelStyle.Render(body) + "\n" + albumStyle.Render("p: пауза • ←/→: перемотка")
}

// statusGlyph значок кнопки: пауза во время воспроизведения, иначе запуск
func statusGlyph(s playback.State) string {
	if s.Playing {
		return "⏸"
	}
	return "▶"
}
