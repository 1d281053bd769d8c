package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "echoes",
		Short: "Midnight Echoes album page and player for the terminal",
		Long: `Interactive album page for the terminal: track list with playback,
album notes and links to streaming platforms.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.load()
		},
		// Без подкоманды открывается интерфейс
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(ctx)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", app.configPath, "path to the config file")
	rootCmd.PersistentFlags().StringVar(&app.albumPath, "album", "", "path to the album YAML file (overrides album_file)")
	rootCmd.PersistentFlags().BoolVar(&app.dryRun, "dry-run", false, "simulate playback without audio output")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createPlatformsCommand())
	rootCmd.AddCommand(app.createPublishCommand(ctx))
	rootCmd.AddCommand(app.createUnpublishCommand(ctx))

	return rootCmd
}
