package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/midnight-echoes/internal/publish"
)

const uploadTimeout = 10 * time.Minute

// createPublishCommand создает команду publish с привязкой к экземпляру приложения
func (app *Application) createPublishCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [trackid] [file path]",
		Short: "Upload a track's mp3 file to S3 storage",
		Long: `Upload an mp3 file for an album track to S3 storage with progress tracking.
The track URL and duration are written back to the album file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trackID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("неверный ID трека: %s", args[0])
			}

			uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
			defer cancel()
			return app.publishTrack(uploadCtx, cmd.OutOrStdout(), trackID, args[1])
		},
	}
}

// createUnpublishCommand создает команду unpublish с привязкой к экземпляру приложения
func (app *Application) createUnpublishCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish [trackid]",
		Short: "Remove a track's audio file from S3 storage",
		Long:  `Delete the track's audio file from S3 storage and clear its URL in the album file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trackID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("неверный ID трека: %s", args[0])
			}
			return app.unpublishTrack(ctx, cmd.OutOrStdout(), trackID)
		},
	}
}

func (app *Application) publishService() (*publish.Service, error) {
	store, err := app.newStore(app.Config.S3)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания хранилища: %w", err)
	}
	return publish.NewService(store, app.Album, app.AlbumFile(), app.Logger.Named("publish"))
}

func (app *Application) publishTrack(ctx context.Context, out io.Writer, trackID int, filePath string) error {
	service, err := app.publishService()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "📤 Загружаем файл в S3:\n")
	fmt.Fprintf(out, "   Файл: %s\n", filePath)
	fmt.Fprintf(out, "   Бакет: %s\n", app.Config.S3.BucketName)
	fmt.Fprintln(out)

	start := time.Now()
	result, err := service.Publish(ctx, trackID, filePath, func(read, total int64) {
		elapsed := time.Since(start)
		var speed int64
		if seconds := elapsed.Seconds(); seconds > 0 {
			speed = int64(float64(read) / seconds)
		}
		percentage := 0.0
		if total > 0 {
			percentage = float64(read) / float64(total) * 100
		}
		fmt.Fprintf(out, "\r📊 Прогресс: %.1f%% | %s из %s | Скорость: %s/s",
			percentage,
			publish.FormatFileSize(read),
			publish.FormatFileSize(total),
			publish.FormatFileSize(speed))
	})
	if err != nil {
		fmt.Fprintln(out)
		return fmt.Errorf("ошибка публикации трека: %w", err)
	}

	fmt.Fprintf(out, "\n✅ Трек %q опубликован за %s\n", result.Track.Title, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "   URL: %s\n", result.Track.URL)
	fmt.Fprintf(out, "   Длительность: %s\n", result.Track.Duration)
	if result.Mismatch {
		fmt.Fprintf(out, "⚠️  Название в тегах файла (%q) отличается от названия трека\n", result.Info.Title)
	}
	fmt.Fprintf(out, "\n📦 Альбом сохранен в %s\n", app.AlbumFile())
	return nil
}

func (app *Application) unpublishTrack(ctx context.Context, out io.Writer, trackID int) error {
	service, err := app.publishService()
	if err != nil {
		return err
	}

	track, err := service.Unpublish(ctx, trackID)
	if err != nil {
		return fmt.Errorf("ошибка снятия трека с публикации: %w", err)
	}

	fmt.Fprintf(out, "🗑️  Трек %q снят с публикации\n", track.Title)
	fmt.Fprintf(out, "\n📦 Альбом сохранен в %s\n", app.AlbumFile())
	return nil
}
