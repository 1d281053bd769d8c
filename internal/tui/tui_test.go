package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

func newTestApp(t *testing.T, opts ...Option) (*App, *playback.Controller) {
	t.Helper()
	a := album.Default()
	catalog, err := a.Catalog()
	require.NoError(t, err)

	controller := playback.NewController(catalog, playback.NewFakeMedia())
	t.Cleanup(controller.Close)

	opts = append(opts, WithProgramOptions(tea.WithInput(nil), tea.WithOutput(io.Discard)))
	return NewApp(a, controller, opts...), controller
}

func TestNewAppDefaults(t *testing.T) {
	tuiApp, _ := newTestApp(t)

	assert.Equal(t, album.IconsUnicode, tuiApp.icons)
	assert.Equal(t, 5*time.Second, tuiApp.seekStep)
	assert.NotNil(t, tuiApp.logger)
}

func TestNewAppOptions(t *testing.T) {
	tuiApp, _ := newTestApp(t, WithIcons(album.IconsNerd), WithSeekStep(10*time.Second))

	assert.Equal(t, album.IconsNerd, tuiApp.icons)
	assert.Equal(t, 10*time.Second, tuiApp.seekStep)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	tuiApp, _ := newTestApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- tuiApp.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}
