package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/config"
	"github.com/hazadus/midnight-echoes/internal/logger"
	"github.com/hazadus/midnight-echoes/internal/publish"
	"github.com/hazadus/midnight-echoes/internal/s3"
)

// Application содержит зависимости всех команд
type Application struct {
	Config *config.Config
	Album  *album.Album
	Logger *zap.Logger

	configPath string
	albumPath  string
	dryRun     bool

	// newStore создает хранилище для publish и unpublish
	newStore func(cfg config.S3Config) (publish.Store, error)
}

// NewApplication создает приложение с параметрами по умолчанию
func NewApplication() *Application {
	return &Application{
		configPath: config.DefaultPath,
		newStore:   newS3Store,
	}
}

// load читает конфигурацию, альбом и настраивает логгер.
// Уже заданные зависимости не перезаписываются.
func (app *Application) load() error {
	if app.Config == nil {
		cfg, err := config.LoadConfig(app.configPath)
		if err != nil {
			return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
		}
		app.Config = cfg
	}

	if app.Logger == nil {
		log, err := logger.New(app.Config.Logger())
		if err != nil {
			return fmt.Errorf("ошибка настройки логирования: %w", err)
		}
		app.Logger = log
	}

	if app.Album == nil {
		a, err := album.Load(app.AlbumFile())
		if err != nil {
			return fmt.Errorf("ошибка загрузки альбома: %w", err)
		}
		app.Album = a
	}

	app.Logger.Debug("приложение загружено",
		zap.String("config", app.configPath),
		zap.String("album", app.AlbumFile()),
		zap.Bool("dry_run", app.dryRun))
	return nil
}

// AlbumFile возвращает путь к файлу альбома: флаг имеет приоритет над конфигурацией
func (app *Application) AlbumFile() string {
	if app.albumPath != "" {
		return app.albumPath
	}
	if app.Config != nil {
		return app.Config.AlbumFile
	}
	return ""
}

// Catalog возвращает каталог треков текущего альбома
func (app *Application) Catalog() (*album.Catalog, error) {
	return app.Album.Catalog()
}

// Close сбрасывает буферы логгера
func (app *Application) Close() {
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}

func newS3Store(cfg config.S3Config) (publish.Store, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("хранилище не настроено: заполните раздел s3 в %s", config.DefaultPath)
	}
	return s3.NewStorage(s3.Config{
		Region:     cfg.Region,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		Endpoint:   cfg.Endpoint,
		BucketName: cfg.BucketName,
	})
}

func main() {
	// Отменяем контекст по Ctrl+C и SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApplication()
	defer app.Close()

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
