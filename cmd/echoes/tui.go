package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/midnight-echoes/internal/browser"
	"github.com/hazadus/midnight-echoes/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the album page (Terminal User Interface)",
		Long:  `Launch the interactive album page: hero, track list with playback, about and streaming links.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}
}

func (app *Application) launchTUI(ctx context.Context) error {
	controller, release, err := app.newController(ctx)
	if err != nil {
		return err
	}
	defer release()

	tuiApp := tui.NewApp(app.Album, controller,
		tui.WithOpener(browser.New()),
		tui.WithIcons(app.Config.Icons),
		tui.WithSeekStep(app.Config.SeekStep),
		tui.WithLogger(app.Logger.Named("tui")),
	)
	return tuiApp.Run(ctx)
}
