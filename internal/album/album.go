package album

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Album содержит все данные страницы альбома
type Album struct {
	Title     string         `yaml:"title"`
	Artist    string         `yaml:"artist"`
	Tagline   string         `yaml:"tagline"`
	CoverURL  string         `yaml:"cover_url"`
	About     []string       `yaml:"about"`
	Release   string         `yaml:"release"`
	Producer  string         `yaml:"producer"`
	Label     string         `yaml:"label"`
	Copyright string         `yaml:"copyright"`
	Tracks    []Track        `yaml:"tracks"`
	Platforms []PlatformLink `yaml:"platforms"`
}

// Default возвращает встроенный альбом Midnight Echoes
func Default() *Album {
	return &Album{
		Title:    "Midnight Echoes",
		Artist:   "Midnight Echoes",
		Tagline:  "Новый альбом уже доступен",
		CoverURL: "https://cdn.poehali.dev/files/172d875d-4eec-463a-a66d-9f4a3e282a9e.JPG",
		About: []string{
			"Midnight Echoes — это музыкальное путешествие сквозь ночные города и внутренние " +
				"переживания. Альбом исследует темы одиночества, надежды и поиска себя в современном мире.",
			"Восемь треков объединены атмосферным звучанием, где электронные текстуры " +
				"переплетаются с живыми инструментами, создавая уникальное звуковое пространство.",
		},
		Release:   "Декабрь 2025",
		Producer:  "[Имя продюсера]",
		Label:     "Independent",
		Copyright: "© 2025 Midnight Echoes. Все права защищены.",
		Tracks: []Track{
			{ID: 1, Title: "Midnight Dreams", Duration: "3:42"},
			{ID: 2, Title: "Echoes of Tomorrow", Duration: "4:15"},
			{ID: 3, Title: "Neon Lights", Duration: "3:28"},
			{ID: 4, Title: "Solitude", Duration: "5:01"},
			{ID: 5, Title: "Digital Rain", Duration: "3:55"},
			{ID: 6, Title: "Wavelength", Duration: "4:33"},
			{ID: 7, Title: "Reflection", Duration: "3:17"},
			{ID: 8, Title: "Final Chapter", Duration: "6:22"},
		},
		Platforms: []PlatformLink{
			{Platform: Spotify},
			{Platform: AppleMusic},
			{Platform: YouTubeMusic},
			{Platform: SoundCloud},
		},
	}
}

// Load загружает альбом из YAML файла.
// Если файла нет или он пуст, возвращается встроенный альбом.
func Load(filePath string) (*Album, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("ошибка чтения файла альбома: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return Default(), nil
	}

	a := &Album{}
	if err := yaml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла альбома: %w", err)
	}
	if _, err := a.Catalog(); err != nil {
		return nil, err
	}
	return a, nil
}

// Save сохраняет альбом в YAML файл
func (a *Album) Save(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("ошибка сериализации альбома: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла альбома: %w", err)
	}
	return nil
}

// Catalog строит неизменяемый каталог треков альбома
func (a *Album) Catalog() (*Catalog, error) {
	return NewCatalog(a.Tracks)
}

// SetTrackSource обновляет источник аудио и длительность трека в файле альбома.
// Пустая длительность оставляет прежнее значение.
func (a *Album) SetTrackSource(id int, url, duration string) error {
	for i := range a.Tracks {
		if a.Tracks[i].ID != id {
			continue
		}
		if duration != "" {
			if _, err := ParseDuration(duration); err != nil {
				return err
			}
			a.Tracks[i].Duration = duration
		}
		a.Tracks[i].URL = url
		return nil
	}
	return fmt.Errorf("трека с ID %d не найдено", id)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
