// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/logger"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.echoes"

const appName = "echoes"

// ErrInvalidConfig возвращается для некорректных значений конфигурации
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// LogConfig параметры журнала
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// S3Config параметры хранилища для публикации треков
type S3Config struct {
	BucketName string `yaml:"bucket_name"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
}

// Configured сообщает, заданы ли параметры, без которых загрузка невозможна
func (c S3Config) Configured() bool {
	return c.BucketName != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config структура для хранения конфигурации приложения
type Config struct {
	AlbumFile    string          `yaml:"album_file"`
	Icons        album.IconStyle `yaml:"icons"`
	SeekStep     time.Duration   `yaml:"seek_step"`
	TickInterval time.Duration   `yaml:"tick_interval"`
	BufferSize   int             `yaml:"buffer_size"`
	Log          LogConfig       `yaml:"log"`
	S3           S3Config        `yaml:"s3"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Icons:        album.IconsUnicode,
		SeekStep:     5 * time.Second,
		TickInterval: 250 * time.Millisecond,
		BufferSize:   256 * 1024,
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(xdg.StateHome, appName, appName+".log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не считается ошибкой: используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize проверяет значения и раскрывает тильду в путях
func (c *Config) normalize() error {
	switch c.Icons {
	case "":
		c.Icons = album.IconsUnicode
	case album.IconsNerd, album.IconsUnicode, album.IconsNone:
	default:
		return fmt.Errorf("%w: неизвестный стиль иконок %q", ErrInvalidConfig, c.Icons)
	}

	if c.SeekStep <= 0 {
		return fmt.Errorf("%w: seek_step должен быть положительным", ErrInvalidConfig)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval должен быть положительным", ErrInvalidConfig)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size должен быть положительным", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var err error
	if c.AlbumFile, err = expandHome(c.AlbumFile); err != nil {
		return err
	}
	if c.Log.File, err = expandHome(c.Log.File); err != nil {
		return err
	}
	return nil
}

// Logger возвращает параметры для пакета logger
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
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
