// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
	"github.com/hazadus/midnight-echoes/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	album      *album.Album
	controller *playback.Controller
	opener     app.Opener
	icons      album.IconStyle
	seekStep   time.Duration
	logger     *zap.Logger
	options    []tea.ProgramOption
}

// Option настраивает приложение
type Option func(*App)

// WithOpener задает способ открытия ссылок
func WithOpener(opener app.Opener) Option {
	return func(a *App) { a.opener = opener }
}

// WithIcons задает стиль иконок платформ
func WithIcons(icons album.IconStyle) Option {
	return func(a *App) { a.icons = icons }
}

// WithSeekStep задает шаг перемотки стрелками
func WithSeekStep(step time.Duration) Option {
	return func(a *App) { a.seekStep = step }
}

// WithLogger задает логгер
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithProgramOptions добавляет параметры программы Bubble Tea
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(a *App) { a.options = append(a.options, opts...) }
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(a *album.Album, controller *playback.Controller, opts ...Option) *App {
	tuiApp := &App{
		album:      a,
		controller: controller,
		icons:      album.IconsUnicode,
		seekStep:   5 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(tuiApp)
	}
	return tuiApp
}

// Run запускает TUI приложение и блокируется до выхода пользователя или отмены ctx
func (tuiApp *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// События аудиоустройства обрабатываются, пока работает интерфейс
	go func() {
		if err := tuiApp.controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			tuiApp.logger.Error("обработка событий остановлена", zap.Error(err))
		}
	}()

	model := app.NewMainModel(app.Config{
		Album:      tuiApp.album,
		Catalog:    tuiApp.controller.Catalog(),
		Controller: tuiApp.controller,
		Opener:     tuiApp.opener,
		Icons:      tuiApp.icons,
		SeekStep:   tuiApp.seekStep,
		Logger:     tuiApp.logger,
	})

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, tuiApp.options...)
	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Отмена контекста считается штатным завершением
		return nil
	}
	return err
}
