// Package publish загружает аудиофайлы треков в хранилище и обновляет файл альбома
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/metadata"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

var (
	// ErrNoAlbumFile возвращается, если не задан файл альбома для сохранения
	ErrNoAlbumFile = errors.New("не указан файл альбома (album_file)")
	// ErrNotPublished возвращается при снятии трека без источника
	ErrNotPublished = errors.New("трек не опубликован")
	// ErrForeignSource возвращается, если источник трека находится вне хранилища
	ErrForeignSource = errors.New("источник трека находится вне хранилища")
)

// Store хранилище аудиофайлов
type Store interface {
	UploadFile(ctx context.Context, reader io.Reader, key, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Service управляет публикацией треков
type Service struct {
	store     Store
	album     *album.Album
	albumPath string
	logger    *zap.Logger
	inspect   func(path string) (*metadata.Info, error)
}

// NewService создает сервис публикации
func NewService(store Store, a *album.Album, albumPath string, logger *zap.Logger) (*Service, error) {
	if albumPath == "" {
		return nil, ErrNoAlbumFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		album:     a,
		albumPath: albumPath,
		logger:    logger,
		inspect:   metadata.Inspect,
	}, nil
}

// Result содержит результат публикации
type Result struct {
	Track    album.Track
	Key      string
	Info     *metadata.Info
	Mismatch bool // Название в тегах файла отличается от названия трека
}

// Publish загружает файл трека, записывает URL и длительность в альбом и сохраняет его
func (s *Service) Publish(ctx context.Context, id int, filePath string, onProgress func(read, total int64)) (*Result, error) {
	track, err := s.track(id)
	if err != nil {
		return nil, err
	}

	info, err := s.inspect(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Создаем reader с отслеживанием прогресса
	var reader io.Reader = file
	if onProgress != nil {
		reader = &ProgressReader{Reader: file, Size: info.Size, OnProgress: onProgress}
	}

	key := ObjectKey(s.album, track)
	url, err := s.store.UploadFile(ctx, reader, key, "audio/mpeg")
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	duration := ""
	if info.Duration > 0 {
		duration = playback.FormatTime(info.Duration)
	}
	if err := s.album.SetTrackSource(id, url, duration); err != nil {
		return nil, err
	}
	if err := s.album.Save(s.albumPath); err != nil {
		return nil, err
	}

	track.URL = url
	if duration != "" {
		track.Duration = duration
	}

	s.logger.Info("трек опубликован",
		zap.Int("track", id),
		zap.String("key", key),
		zap.String("size", humanize.IBytes(uint64(info.Size))),
		zap.Duration("duration", info.Duration))

	return &Result{
		Track:    track,
		Key:      key,
		Info:     info,
		Mismatch: info.Title != "" && !strings.EqualFold(info.Title, track.Title),
	}, nil
}

// Unpublish удаляет файл трека из хранилища и очищает его URL в альбоме
func (s *Service) Unpublish(ctx context.Context, id int) (album.Track, error) {
	track, err := s.track(id)
	if err != nil {
		return album.Track{}, err
	}
	if !track.HasSource() {
		return album.Track{}, fmt.Errorf("%w: %d", ErrNotPublished, id)
	}

	key, ok := s.store.KeyFromURL(track.URL)
	if !ok {
		return album.Track{}, fmt.Errorf("%w: %s", ErrForeignSource, track.URL)
	}

	if err := s.store.DeleteFile(ctx, key); err != nil {
		return album.Track{}, err
	}
	if err := s.album.SetTrackSource(id, "", ""); err != nil {
		return album.Track{}, err
	}
	if err := s.album.Save(s.albumPath); err != nil {
		return album.Track{}, err
	}

	s.logger.Info("трек снят с публикации", zap.Int("track", id), zap.String("key", key))

	track.URL = ""
	return track, nil
}

func (s *Service) track(id int) (album.Track, error) {
	catalog, err := s.album.Catalog()
	if err != nil {
		return album.Track{}, err
	}
	track, ok := catalog.TrackByID(id)
	if !ok {
		return album.Track{}, fmt.Errorf("%w: %d", playback.ErrInvalidTrack, id)
	}
	return track, nil
}

// ObjectKey формирует ключ объекта: "<альбом>/<номер>-<название>.mp3"
func ObjectKey(a *album.Album, track album.Track) string {
	return fmt.Sprintf("%s/%02d-%s.mp3", slug(a.Title), track.ID, slug(track.Title))
}

// slug переводит строку в нижний регистр и заменяет все, кроме букв и цифр, дефисами
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(read, total int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead, pr.Size)
	}
	return n, err
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
