package sections

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/midnight-echoes/internal/album"
)

func TestStats(t *testing.T) {
	catalog, err := album.Default().Catalog()
	require.NoError(t, err)

	stats := Stats(catalog)
	require.Len(t, stats, 2)
	assert.Equal(t, Stat{Value: "8", Label: "Треков"}, stats[0])
	assert.Equal(t, Stat{Value: "34:33", Label: "Длительность"}, stats[1])
}

func TestAboutView(t *testing.T) {
	a := album.Default()
	catalog, err := a.Catalog()
	require.NoError(t, err)

	view := About(a, catalog, 100)
	for _, want := range []string{"Об альбоме", "Декабрь 2025", "Independent", "34:33", "Треков"} {
		assert.Contains(t, view, want)
	}
}

func TestHeroView(t *testing.T) {
	view := Hero(album.Default(), 80)
	assert.Contains(t, view, "MIDNIGHT ECHOES")
	assert.Contains(t, view, "Новый альбом уже доступен")
}

func TestStreamingNavigation(t *testing.T) {
	s := NewStreaming(album.Default().Platforms, album.IconsNone)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 3, s.Cursor(), "вверх с первой карточки переходит на последнюю")

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, s.Cursor())

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	s, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(OpenLinkMsg)
	require.True(t, ok)
	assert.Equal(t, album.AppleMusic, msg.Platform)
	assert.Equal(t, album.AppleMusic.DefaultURL(), msg.URL)
}

func TestStreamingView(t *testing.T) {
	s := NewStreaming(album.Default().Platforms, album.IconsNone)
	s.SetStatus("Открыто: Spotify")

	view := s.View(80)
	for _, p := range album.Platforms() {
		assert.Contains(t, view, p.String())
		assert.Contains(t, view, p.Icon(album.IconsNone))
	}
	assert.Contains(t, view, "Открыто: Spotify")
	assert.True(t, strings.Contains(view, "enter"))
}

func TestStreamingEmpty(t *testing.T) {
	s := NewStreaming(nil, album.IconsUnicode)
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
