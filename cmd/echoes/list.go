package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
)

const titleColumnWidth = 30

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List album tracks",
		Long:  `Display the album track list with durations and audio sources.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}
			app.listTracks(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
}

func (app *Application) listTracks(out io.Writer, catalog *album.Catalog) {
	fmt.Fprintf(out, "💿 %s · %s\n", app.Album.Title, app.Album.Artist)
	fmt.Fprintf(out, "📚 Треков: %d, общая длительность: %s\n\n",
		catalog.Len(), playback.FormatTime(catalog.TotalDuration()))

	fmt.Fprintf(out, "%-4s %s %-8s %s\n", "№", runewidth.FillRight("Название", titleColumnWidth), "Время", "Источник")
	fmt.Fprintln(out, strings.Repeat("-", 60))

	for _, track := range catalog.Tracks() {
		title := runewidth.FillRight(runewidth.Truncate(track.Title, titleColumnWidth-2, "…"), titleColumnWidth)
		source := "нет"
		if track.HasSource() {
			source = track.URL
		}
		fmt.Fprintf(out, "%02d.  %s %-8s %s\n", catalog.Number(track.ID), title, track.Duration, source)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "💡 Используйте 'echoes play [ID]' для воспроизведения трека")
}
