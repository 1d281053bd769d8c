// Package album содержит неизменяемые данные альбома: треки, тексты и ссылки на платформы
package album

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCatalog возвращается, если список треков нарушает инварианты каталога
var ErrInvalidCatalog = errors.New("некорректный список треков")

// Track описывает один трек альбома
type Track struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Duration string `yaml:"duration"` // Отображаемая длительность, например "3:42"
	URL      string `yaml:"url"`      // Путь или URL аудиофайла, может быть пустым
}

// HasSource сообщает, указан ли у трека источник аудио
func (t Track) HasSource() bool {
	return strings.TrimSpace(t.URL) != ""
}

// Catalog хранит упорядоченный неизменяемый список треков
type Catalog struct {
	tracks []Track
	index  map[int]int
}

// NewCatalog создает каталог и проверяет уникальность ID и формат длительностей
func NewCatalog(tracks []Track) (*Catalog, error) {
	c := &Catalog{
		tracks: make([]Track, len(tracks)),
		index:  make(map[int]int, len(tracks)),
	}
	copy(c.tracks, tracks)

	for i, t := range c.tracks {
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: трек %q имеет неположительный ID %d", ErrInvalidCatalog, t.Title, t.ID)
		}
		if _, dup := c.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: ID %d встречается дважды", ErrInvalidCatalog, t.ID)
		}
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: у трека %d нет названия", ErrInvalidCatalog, t.ID)
		}
		if _, err := ParseDuration(t.Duration); err != nil {
			return nil, fmt.Errorf("%w: трек %d: %w", ErrInvalidCatalog, t.ID, err)
		}
		c.index[t.ID] = i
	}

	return c, nil
}

// Tracks возвращает копию списка треков в порядке альбома
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// TrackByID возвращает трек по ID
func (c *Catalog) TrackByID(id int) (Track, bool) {
	i, ok := c.index[id]
	if !ok {
		return Track{}, false
	}
	return c.tracks[i], true
}

// Len возвращает количество треков
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Number возвращает порядковый номер трека в альбоме (с единицы) или 0
func (c *Catalog) Number(id int) int {
	i, ok := c.index[id]
	if !ok {
		return 0
	}
	return i + 1
}

// TotalDuration суммирует отображаемые длительности всех треков
func (c *Catalog) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range c.tracks {
		d, _ := ParseDuration(t.Duration)
		total += d
	}
	return total
}

// ParseDuration разбирает длительность в формате "m:ss"
func ParseDuration(s string) (time.Duration, error) {
	minutes, seconds, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("длительность %q не в формате m:ss", s)
	}

	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("некорректные минуты в %q", s)
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil || len(seconds) != 2 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("некорректные секунды в %q", s)
	}

	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
