package album

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAlbum(t *testing.T) {
	a := Default()

	catalog, err := a.Catalog()
	require.NoError(t, err)

	assert.Equal(t, 8, catalog.Len())
	assert.Equal(t, 34*time.Minute+33*time.Second, catalog.TotalDuration())
	assert.Len(t, a.Platforms, 4)

	track, ok := catalog.TrackByID(3)
	require.True(t, ok)
	assert.Equal(t, "Neon Lights", track.Title)
	assert.False(t, track.HasSource())
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		tracks []Track
	}{
		{"duplicate id", []Track{{ID: 1, Title: "A", Duration: "1:00"}, {ID: 1, Title: "B", Duration: "1:00"}}},
		{"zero id", []Track{{ID: 0, Title: "A", Duration: "1:00"}}},
		{"empty title", []Track{{ID: 1, Title: " ", Duration: "1:00"}}},
		{"bad duration", []Track{{ID: 1, Title: "A", Duration: "100"}}},
		{"bad seconds", []Track{{ID: 1, Title: "A", Duration: "1:75"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.tracks)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	src := []Track{{ID: 1, Title: "A", Duration: "1:00"}}
	catalog, err := NewCatalog(src)
	require.NoError(t, err)

	src[0].Title = "changed"
	got := catalog.Tracks()
	got[0].Title = "changed too"

	track, _ := catalog.TrackByID(1)
	assert.Equal(t, "A", track.Title)
}

func TestCatalogNumber(t *testing.T) {
	catalog, err := NewCatalog([]Track{
		{ID: 10, Title: "A", Duration: "1:00"},
		{ID: 20, Title: "B", Duration: "1:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.Number(10))
	assert.Equal(t, 2, catalog.Number(20))
	assert.Equal(t, 0, catalog.Number(30))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"3:42", 3*time.Minute + 42*time.Second, false},
		{"0:05", 5 * time.Second, false},
		{"10:00", 10 * time.Minute, false},
		{"3:4", 0, true},
		{"abc", 0, true},
		{"-1:00", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	a, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Midnight Echoes", a.Title)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album.yaml")

	a := Default()
	require.NoError(t, a.SetTrackSource(2, "/music/02.mp3", "4:16"))
	a.Platforms[0].URL = "https://open.spotify.com/album/xyz"
	require.NoError(t, a.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/music/02.mp3", loaded.Tracks[1].URL)
	assert.Equal(t, "4:16", loaded.Tracks[1].Duration)
	assert.Equal(t, Spotify, loaded.Platforms[0].Platform)
	assert.Equal(t, "https://open.spotify.com/album/xyz", loaded.Platforms[0].Href())
	assert.Equal(t, "https://soundcloud.com", loaded.Platforms[3].Href())
}

func TestLoadRejectsUnknownPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "album.yaml")
	content := "title: X\ntracks:\n  - id: 1\n    title: A\n    duration: \"1:00\"\nplatforms:\n  - platform: myspace\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrUnknownPlatform), "got %v", err)
}

func TestSetTrackSourceUnknownTrack(t *testing.T) {
	assert.Error(t, Default().SetTrackSource(99, "x.mp3", ""))
}

func TestPlatformIcons(t *testing.T) {
	for _, p := range Platforms() {
		assert.NotEmpty(t, p.Icon(IconsNerd), p.String())
		assert.NotEmpty(t, p.Icon(IconsUnicode), p.String())
		assert.NotEmpty(t, p.Icon(IconsNone), p.String())

		parsed, err := ParsePlatform(p.Key())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	assert.Equal(t, "Unknown", Platform(42).String())
	assert.Equal(t, "Apple Music", AppleMusic.String())
}
