package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createPlatformsCommand создает команду platforms с привязкой к экземпляру приложения
func (app *Application) createPlatformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "Show streaming platform links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if len(app.Album.Platforms) == 0 {
				fmt.Fprintln(out, "Ссылки на платформы не указаны")
				return nil
			}
			fmt.Fprintln(out, "🎧 Слушайте на платформах:")
			for _, link := range app.Album.Platforms {
				fmt.Fprintf(out, "   %s %-14s %s\n", link.Platform.Icon(app.Config.Icons), link.Platform, link.Href())
			}
			return nil
		},
	}
}
