package album

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPlatform возвращается для названия платформы вне списка поддерживаемых
var ErrUnknownPlatform = errors.New("неизвестная стриминговая платформа")

// Platform перечисляет стриминговые платформы, на которых доступен альбом
type Platform int

const (
	Spotify Platform = iota
	AppleMusic
	YouTubeMusic
	SoundCloud
)

// IconStyle определяет набор глифов для отображения иконок
type IconStyle string

const (
	IconsNerd    IconStyle = "nerd"
	IconsUnicode IconStyle = "unicode"
	IconsNone    IconStyle = "none"
)

type platformInfo struct {
	key     string
	name    string
	url     string
	nerd    string
	unicode string
	plain   string
}

var platforms = [...]platformInfo{
	Spotify:      {"spotify", "Spotify", "https://spotify.com", "\uf1bc", "🎵", "[S]"},
	AppleMusic:   {"apple_music", "Apple Music", "https://music.apple.com", "\uf179", "🎶", "[A]"},
	YouTubeMusic: {"youtube_music", "YouTube Music", "https://music.youtube.com", "\uf16a", "▶", "[Y]"},
	SoundCloud:   {"soundcloud", "SoundCloud", "https://soundcloud.com", "\uf1be", "📻", "[C]"},
}

// Platforms возвращает все поддерживаемые платформы в порядке отображения
func Platforms() []Platform {
	return []Platform{Spotify, AppleMusic, YouTubeMusic, SoundCloud}
}

// ParsePlatform преобразует ключ из файла альбома в Platform
func ParsePlatform(key string) (Platform, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, p := range platforms {
		if p.key == k {
			return Platform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlatform, key)
}

func (p Platform) valid() bool {
	return p >= 0 && int(p) < len(platforms)
}

// String возвращает отображаемое название платформы
func (p Platform) String() string {
	if !p.valid() {
		return "Unknown"
	}
	return platforms[p].name
}

// Key возвращает ключ платформы для файла альбома
func (p Platform) Key() string {
	if !p.valid() {
		return ""
	}
	return platforms[p].key
}

// DefaultURL возвращает адрес главной страницы платформы
func (p Platform) DefaultURL() string {
	if !p.valid() {
		return ""
	}
	return platforms[p].url
}

// Icon возвращает глиф платформы для выбранного стиля иконок
func (p Platform) Icon(style IconStyle) string {
	if !p.valid() {
		return "?"
	}
	switch style {
	case IconsNerd:
		return platforms[p].nerd
	case IconsUnicode:
		return platforms[p].unicode
	default:
		return platforms[p].plain
	}
}

// MarshalYAML сохраняет платформу по ключу
func (p Platform) MarshalYAML() (interface{}, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlatform, int(p))
	}
	return p.Key(), nil
}

// UnmarshalYAML читает платформу по ключу
func (p *Platform) UnmarshalYAML(value *yaml.Node) error {
	var key string
	if err := value.Decode(&key); err != nil {
		return err
	}
	parsed, err := ParsePlatform(key)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PlatformLink связывает платформу со ссылкой на страницу альбома
type PlatformLink struct {
	Platform Platform `yaml:"platform"`
	URL      string   `yaml:"url,omitempty"`
}

// Href возвращает ссылку, подставляя адрес платформы по умолчанию
func (l PlatformLink) Href() string {
	if l.URL != "" {
		return l.URL
	}
	return l.Platform.DefaultURL()
}
