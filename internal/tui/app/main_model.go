// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
	"github.com/hazadus/midnight-echoes/internal/tui/nowplaying"
	"github.com/hazadus/midnight-echoes/internal/tui/sections"
	"github.com/hazadus/midnight-echoes/internal/tui/tracklist"
)

// Section определяет раздел страницы
type Section int

// Разделы в порядке переключения по tab
const (
	HeroSection Section = iota
	TracksSection
	AboutSection
	StreamingSection
	sectionCount
)

func (s Section) String() string {
	switch s {
	case HeroSection:
		return "Главная"
	case TracksSection:
		return "Треки"
	case AboutSection:
		return "Об альбоме"
	case StreamingSection:
		return "Слушать"
	default:
		return "?"
	}
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#888888"))
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("#f5f3ff")).Background(lipgloss.Color("#7c3aed")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa")).PaddingLeft(2)
)

// Controller управляет воспроизведением
type Controller interface {
	SelectOrToggle(id int) (*playback.Command, error)
	Toggle() (*playback.Command, error)
	Seek(target time.Duration) *playback.Command
	State() playback.State
	Updates() <-chan playback.State
}

// Opener открывает ссылки в браузере
type Opener interface {
	Open(url string) error
}

// Config зависимости главной модели
type Config struct {
	Album      *album.Album
	Catalog    *album.Catalog
	Controller Controller
	Opener     Opener
	Icons      album.IconStyle
	SeekStep   time.Duration
	Logger     *zap.Logger
}

// StateMsg содержит новый снимок состояния воспроизведения
type StateMsg struct {
	State playback.State
}

// commandDoneMsg сообщает о завершении команды аудиоустройству
type commandDoneMsg struct {
	op  string
	err error
}

// linkOpenedMsg сообщает результат открытия ссылки
type linkOpenedMsg struct {
	platform album.Platform
	err      error
}

// MainModel представляет главную модель TUI
type MainModel struct {
	album      *album.Album
	catalog    *album.Catalog
	controller Controller
	opener     Opener
	seekStep   time.Duration
	logger     *zap.Logger

	section    Section
	tracklist  *tracklist.Model
	nowPlaying *nowplaying.Model
	streaming  *sections.Streaming

	width  int
	height int
}

// NewMainModel создает новую главную модель
func NewMainModel(cfg Config) *MainModel {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seekStep := cfg.SeekStep
	if seekStep <= 0 {
		seekStep = 5 * time.Second
	}

	return &MainModel{
		album:      cfg.Album,
		catalog:    cfg.Catalog,
		controller: cfg.Controller,
		opener:     cfg.Opener,
		seekStep:   seekStep,
		logger:     logger,
		section:    HeroSection,
		tracklist:  tracklist.NewModel(cfg.Catalog),
		nowPlaying: nowplaying.NewModel(cfg.Catalog, cfg.Album.Title),
		streaming:  sections.NewStreaming(cfg.Album.Platforms, cfg.Icons),
		width:      80,
		height:     24,
	}
}

// Section возвращает текущий раздел
func (m *MainModel) Section() Section {
	return m.section
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.tracklist.Init(),
		m.listenForUpdates(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case StateMsg:
		m.tracklist.SetState(msg.State)
		wasVisible := m.nowPlaying.Visible()
		cmd := m.nowPlaying.SetState(msg.State)
		if wasVisible != m.nowPlaying.Visible() {
			m.resize()
		}
		return m, tea.Batch(cmd, m.listenForUpdates())

	case tracklist.SelectMsg:
		cmd, err := m.controller.SelectOrToggle(msg.ID)
		if err != nil {
			m.logger.Warn("не удалось выбрать трек", zap.Int("track", msg.ID), zap.Error(err))
			return m, nil
		}
		return m, waitCommand(cmd)

	case sections.OpenLinkMsg:
		m.streaming.SetStatus("Открываем " + msg.Platform.String() + "…")
		return m, m.openLink(msg)

	case linkOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("не удалось открыть ссылку", zap.Stringer("platform", msg.platform), zap.Error(msg.err))
			m.streaming.SetStatus("Не удалось открыть браузер: " + msg.err.Error())
		} else {
			m.streaming.SetStatus("Открыто: " + msg.platform.String())
		}
		return m, nil

	case commandDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Debug("команда завершилась с ошибкой", zap.String("op", msg.op), zap.Error(msg.err))
		}
		return m, nil
	}

	// Кадры прогресс-бара и прочие сообщения
	var cmd tea.Cmd
	m.nowPlaying, cmd = m.nowPlaying.Update(msg)
	if cmd != nil {
		return m, cmd
	}

	// Передаем сообщение активному разделу
	switch m.section {
	case TracksSection:
		m.tracklist, cmd = m.tracklist.Update(msg)
	case StreamingSection:
		m.streaming, cmd = m.streaming.Update(msg)
	}
	return m, cmd
}

// handleGlobalKey обрабатывает клавиши, работающие в любом разделе
func (m *MainModel) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit, true

	case "tab":
		m.section = (m.section + 1) % sectionCount
		return nil, true

	case "shift+tab":
		m.section = (m.section + sectionCount - 1) % sectionCount
		return nil, true

	case "1", "2", "3", "4":
		m.section = Section(msg.String()[0] - '1')
		return nil, true

	case "p":
		cmd, err := m.controller.Toggle()
		if err != nil {
			// Нечего переключать, пока трек не выбран
			return nil, true
		}
		return waitCommand(cmd), true

	case "left":
		return m.seekBy(-m.seekStep), true

	case "right":
		return m.seekBy(m.seekStep), true
	}
	return nil, false
}

// seekBy перематывает на delta относительно текущей позиции в пределах трека
func (m *MainModel) seekBy(delta time.Duration) tea.Cmd {
	s := m.controller.State()
	if !s.HasSelection {
		return nil
	}
	return waitCommand(m.controller.Seek(playback.ClampSeek(s.Elapsed+delta, s.Total)))
}

// resize распределяет высоту между разделом и панелью воспроизведения
func (m *MainModel) resize() {
	m.nowPlaying.SetWidth(m.width)

	reserved := 2 // вкладки
	if m.nowPlaying.Visible() {
		reserved += 7
	}
	m.tracklist.SetSize(m.width, max(5, m.height-reserved-2))
}

// View отображает интерфейс
func (m *MainModel) View() string {
	var b strings.Builder

	b.WriteString(m.tabs())
	b.WriteString("\n")

	switch m.section {
	case HeroSection:
		b.WriteString(sections.Hero(m.album, m.width))
	case TracksSection:
		b.WriteString(m.tracklist.View())
	case AboutSection:
		b.WriteString(sections.About(m.album, m.catalog, m.width))
	case StreamingSection:
		b.WriteString(m.streaming.View(m.width))
	}

	if m.nowPlaying.Visible() {
		b.WriteString("\n")
		b.WriteString(m.nowPlaying.View())
	} else {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("Выберите трек в разделе «Треки»"))
	}

	return b.String()
}

func (m *MainModel) tabs() string {
	tabs := make([]string, 0, sectionCount)
	for s := HeroSection; s < sectionCount; s++ {
		label := string(rune('1'+int(s))) + " " + s.String()
		if s == m.section {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// listenForUpdates слушает снимки состояния от контроллера
func (m *MainModel) listenForUpdates() tea.Cmd {
	updates := m.controller.Updates()
	return func() tea.Msg {
		return StateMsg{State: <-updates}
	}
}

// openLink открывает ссылку вне цикла обработки сообщений
func (m *MainModel) openLink(msg sections.OpenLinkMsg) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		if opener == nil {
			return linkOpenedMsg{platform: msg.Platform, err: errors.New("браузер недоступен")}
		}
		return linkOpenedMsg{platform: msg.Platform, err: opener.Open(msg.URL)}
	}
}

// waitCommand ждет завершения команды и сообщает ее результат
func waitCommand(cmd *playback.Command) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		<-cmd.Done()
		return commandDoneMsg{op: cmd.Op(), err: cmd.Err()}
	}
}
