package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
	"github.com/hazadus/midnight-echoes/internal/player"
)

const dryRunScheme = "dry-run://"

// newController создает контроллер воспроизведения поверх плеера или, с --dry-run,
// поверх беззвучного устройства. Возвращаемая функция освобождает ресурсы.
func (app *Application) newController(ctx context.Context) (*playback.Controller, func(), error) {
	catalog, err := app.Catalog()
	if err != nil {
		return nil, nil, err
	}

	if app.dryRun {
		return app.newDryRunController(ctx, catalog)
	}

	p := player.NewPlayer(
		player.WithLogger(app.Logger.Named("player")),
		player.WithTickInterval(app.Config.TickInterval),
		player.WithBufferSize(app.Config.BufferSize),
	)
	controller := playback.NewController(catalog, p, playback.WithLogger(app.Logger.Named("playback")))

	return controller, func() {
		controller.Close()
		_ = p.Close()
	}, nil
}

// newDryRunController подменяет источники треков так, чтобы беззвучное устройство
// знало их длительность из каталога
func (app *Application) newDryRunController(ctx context.Context, catalog *album.Catalog) (*playback.Controller, func(), error) {
	tracks := catalog.Tracks()
	lengths := make(map[string]time.Duration, len(tracks))
	for i := range tracks {
		d, err := album.ParseDuration(tracks[i].Duration)
		if err != nil {
			return nil, nil, err
		}
		tracks[i].URL = fmt.Sprintf("%s%d", dryRunScheme, tracks[i].ID)
		lengths[tracks[i].URL] = d
	}

	dryCatalog, err := album.NewCatalog(tracks)
	if err != nil {
		return nil, nil, err
	}

	media := playback.NewFakeMedia()
	media.SetLengthFunc(func(source string) time.Duration {
		if !strings.HasPrefix(source, dryRunScheme) {
			return 0
		}
		return lengths[source]
	})

	clockCtx, stopClock := context.WithCancel(ctx)
	go media.RunClock(clockCtx, app.Config.TickInterval)

	controller := playback.NewController(dryCatalog, media, playback.WithLogger(app.Logger.Named("playback")))
	return controller, func() {
		stopClock()
		controller.Close()
	}, nil
}
