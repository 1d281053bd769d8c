package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazadus/midnight-echoes/internal/album"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла конфигурации: %v", err)
	}
	return configPath
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeConfig(t, `
album_file: ~/music/album.yaml
icons: nerd
seek_step: 10s
tick_interval: 100ms
buffer_size: 65536
log:
  level: debug
  file: ~/logs/echoes.log
  max_size_mb: 5
s3:
  bucket_name: test-bucket
  access_key: test-access-key
  secret_key: test-secret-key
  region: us-east-1
  endpoint: https://s3.amazonaws.com
`)

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	home, _ := os.UserHomeDir()
	expectedAlbum := filepath.Join(home, "music", "album.yaml")
	if loadedConfig.AlbumFile != expectedAlbum {
		t.Errorf("Ожидался AlbumFile: %s, получено: %s", expectedAlbum, loadedConfig.AlbumFile)
	}
	if loadedConfig.Icons != album.IconsNerd {
		t.Errorf("Ожидался стиль иконок nerd, получено: %s", loadedConfig.Icons)
	}
	if loadedConfig.SeekStep != 10*time.Second {
		t.Errorf("Ожидался SeekStep 10s, получено: %v", loadedConfig.SeekStep)
	}
	if loadedConfig.TickInterval != 100*time.Millisecond {
		t.Errorf("Ожидался TickInterval 100ms, получено: %v", loadedConfig.TickInterval)
	}
	if loadedConfig.BufferSize != 65536 {
		t.Errorf("Ожидался BufferSize 65536, получено: %d", loadedConfig.BufferSize)
	}
	if loadedConfig.Log.Level != "debug" || loadedConfig.Log.MaxSizeMB != 5 {
		t.Errorf("Неожиданные параметры журнала: %+v", loadedConfig.Log)
	}
	if !strings.HasPrefix(loadedConfig.Log.File, home) {
		t.Errorf("Тильда в пути журнала не раскрыта: %s", loadedConfig.Log.File)
	}
	// Незаданные поля сохраняют значения по умолчанию
	if loadedConfig.Log.MaxBackups != 3 {
		t.Errorf("Ожидался MaxBackups 3, получено: %d", loadedConfig.Log.MaxBackups)
	}
	if loadedConfig.S3.BucketName != "test-bucket" || loadedConfig.S3.Region != "us-east-1" {
		t.Errorf("Неожиданные параметры S3: %+v", loadedConfig.S3)
	}
	if !loadedConfig.S3.Configured() {
		t.Error("S3 должен считаться настроенным")
	}
}

func TestDefaultConfig(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Отсутствующий файл не должен быть ошибкой: %v", err)
	}

	if config.SeekStep != 5*time.Second {
		t.Errorf("Ожидался SeekStep по умолчанию 5s, получено: %v", config.SeekStep)
	}
	if config.TickInterval != 250*time.Millisecond {
		t.Errorf("Ожидался TickInterval по умолчанию 250ms, получено: %v", config.TickInterval)
	}
	if config.BufferSize != 256*1024 {
		t.Errorf("Ожидался BufferSize по умолчанию 256KB, получено: %d", config.BufferSize)
	}
	if config.Icons != album.IconsUnicode {
		t.Errorf("Ожидался стиль иконок unicode, получено: %s", config.Icons)
	}
	if !strings.HasSuffix(config.Log.File, filepath.Join("echoes", "echoes.log")) {
		t.Errorf("Неожиданный путь журнала по умолчанию: %s", config.Log.File)
	}
	if config.AlbumFile != "" {
		t.Errorf("Файл альбома по умолчанию должен быть пустым, получено: %s", config.AlbumFile)
	}
	if config.S3.Configured() {
		t.Error("S3 по умолчанию не должен быть настроен")
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"неизвестные иконки", "icons: emoji\n"},
		{"нулевой шаг перемотки", "seek_step: 0s\n"},
		{"отрицательный буфер", "buffer_size: -1\n"},
		{"неизвестный уровень", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Ожидалась ошибка ErrInvalidConfig, получено: %v", err)
			}
		})
	}
}

func TestMalformedDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "seek_step: five seconds\n"))
	if err == nil {
		t.Error("Ожидалась ошибка для некорректной длительности")
	}
}

func TestLoggerConfig(t *testing.T) {
	config := Default()
	config.Log.Level = "warn"

	lc := config.Logger()
	if lc.Level != "warn" || lc.File != config.Log.File || lc.MaxAgeDays != 28 {
		t.Errorf("Неожиданные параметры логгера: %+v", lc)
	}
}
