// Package tracklist содержит модель списка треков альбома
package tracklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	cursorItemStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	durationStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

const (
	pauseGlyph = "⏸"
	playGlyph  = "▶"
	minTitle   = 12
)

// SelectMsg отправляется при выборе трека в списке
type SelectMsg struct {
	ID int
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	track  album.Track
	number int
}

func (i trackItem) FilterValue() string {
	return i.track.Title
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct {
	state *playback.State
	width *int
}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(i, *d.state, *d.width, index == m.Index()))
}

// renderRow форматирует строку трека: номер или значок, название, длительность
func renderRow(i trackItem, state playback.State, width int, cursor bool) string {
	marker := fmt.Sprintf("%02d.", i.number)
	switch {
	case state.IsPlayingTrack(i.track.ID):
		marker = " " + pauseGlyph + " "
	case state.IsSelected(i.track.ID):
		marker = " " + playGlyph + " "
	}

	titleWidth := width - runewidth.StringWidth(marker) - len(i.track.Duration) - 10
	if titleWidth < minTitle {
		titleWidth = minTitle
	}
	title := runewidth.FillRight(runewidth.Truncate(i.track.Title, titleWidth, "…"), titleWidth)

	row := fmt.Sprintf("%s %s %s", marker, title, durationStyle.Render(i.track.Duration))
	if state.IsSelected(i.track.ID) {
		row = currentTrackStyle.Render(fmt.Sprintf("%s %s", marker, title)) + " " + durationStyle.Render(i.track.Duration)
	}

	if cursor {
		return cursorItemStyle.Render("> " + row)
	}
	return itemStyle.Render(row)
}

// Model представляет модель списка треков
type Model struct {
	list  list.Model
	state *playback.State
	width *int
}

// NewModel создает новую модель списка треков
func NewModel(catalog *album.Catalog) *Model {
	tracks := catalog.Tracks()

	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, number: catalog.Number(t.ID)}
	}

	state := &playback.State{}
	width := 60

	l := list.New(items, trackItemDelegate{state: state, width: &width}, 0, 0)
	l.Title = "Треки"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	// Стрелки влево и вправо заняты перемоткой
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "след. стр."))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "пред. стр."))
	// Выход обрабатывает главная модель
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	return &Model{
		list:  l,
		state: state,
		width: &width,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetState обновляет состояние воспроизведения для отображения значков
func (m *Model) SetState(s playback.State) {
	*m.state = s
}

// SetSize задает размеры списка
func (m *Model) SetSize(width, height int) {
	*m.width = width
	m.list.SetSize(width, height)
}

// SelectedID возвращает ID трека под курсором
func (m *Model) SelectedID() (int, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return 0, false
	}
	return item.track.ID, true
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			if id, ok := m.SelectedID(); ok {
				return m, func() tea.Msg {
					return SelectMsg{ID: id}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	return m.list.View() + "\n" + helpStyle.Render("Enter/пробел: играть или пауза • ↑/↓: выбор трека")
}
