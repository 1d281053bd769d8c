// Package metadata читает теги и длительность MP3 перед публикацией трека
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// Info описывает аудиофайл
type Info struct {
	Title    string
	Artist   string
	Album    string
	Size     int64
	Duration time.Duration
}

// Inspect читает теги, размер и длительность файла.
// Если тегов нет, название берется из имени файла.
func Inspect(filePath string) (*Info, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("ошибка получения информации о файле: %s является каталогом", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	info := readTags(file, filePath)
	info.Size = stat.Size()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}
	info.Duration, err = duration(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длительности: %w", err)
	}

	return info, nil
}

// readTags извлекает теги ID3; при ошибке разбирает имя файла
func readTags(reader io.ReadSeeker, source string) *Info {
	m, err := tag.ReadFrom(reader)
	if err != nil || strings.TrimSpace(m.Title()) == "" {
		return fromFileName(source)
	}
	return &Info{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
	}
}

func duration(reader io.ReadCloser) (time.Duration, error) {
	streamer, format, err := mp3.Decode(reader)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// fromFileName разбирает имена вида "03 - Title.mp3" и "Artist - Title.mp3"
func fromFileName(source string) *Info {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	parts := strings.SplitN(name, " - ", 2)
	if len(parts) < 2 {
		return &Info{Title: strings.TrimSpace(name)}
	}

	head := strings.TrimSpace(parts[0])
	title := strings.TrimSpace(parts[1])
	if isNumber(head) {
		return &Info{Title: title}
	}
	return &Info{Artist: head, Title: title}
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
