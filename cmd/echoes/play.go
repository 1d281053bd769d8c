package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
	"github.com/hazadus/midnight-echoes/internal/playback"
	"github.com/hazadus/midnight-echoes/internal/player"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play a track by its ID",
		Long:  `Play an album track in the terminal without the interface. Space pauses, q stops.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trackID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("неверный ID трека: %s", args[0])
			}
			return app.playByID(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), trackID)
		},
	}
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode(tty *os.File) error {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = tty
	return cmd.Run()
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode(tty *os.File) error {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = tty
	return cmd.Run()
}

// terminal возвращает файл терминала, если ввод идет с него
func terminal(in io.Reader) (*os.File, bool) {
	f, ok := in.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil, false
	}
	return f, true
}

func (app *Application) playByID(ctx context.Context, in io.Reader, out io.Writer, trackID int) error {
	controller, release, err := app.newController(ctx)
	if err != nil {
		return err
	}
	defer release()

	track, ok := controller.Catalog().TrackByID(trackID)
	if !ok {
		return fmt.Errorf("%w: %d", playback.ErrInvalidTrack, trackID)
	}
	if !track.HasSource() {
		return fmt.Errorf("трек %d: %w", trackID, player.ErrNoSource)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		if err := controller.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Debug("цикл событий остановлен", zap.Error(err))
		}
	}()

	if _, err := controller.SelectOrToggle(trackID); err != nil {
		return err
	}

	printHeader(out, app.Album, controller.Catalog(), track)

	if tty, ok := terminal(in); ok {
		if err := enableRawMode(tty); err != nil {
			app.Logger.Debug("не удалось включить raw режим", zap.Error(err))
		}
		defer func() {
			if err := disableRawMode(tty); err != nil {
				app.Logger.Debug("не удалось восстановить режим терминала", zap.Error(err))
			}
		}()
	}

	keys, err := cancelreader.NewReader(in)
	if err != nil {
		app.Logger.Debug("управление с клавиатуры недоступно", zap.Error(err))
	} else {
		// Отмена прерывает ожидающее чтение, и горутина завершается вместе с командой
		defer keys.Cancel()
		go func() {
			defer keys.Close()
			readKeys(runCtx, keys, controller, stop)
		}()
	}

	for {
		select {
		case state := <-controller.Updates():
			displayProgress(out, state)
			if state.Err != nil {
				fmt.Fprintln(out)
				return state.Err
			}
			if state.Phase() == playback.PhaseEnded {
				fmt.Fprintln(out, "\n✅ Воспроизведение завершено")
				return nil
			}
		case <-runCtx.Done():
			fmt.Fprintln(out, "\n⏹️  Воспроизведение остановлено")
			return nil
		}
	}
}

func printHeader(out io.Writer, a *album.Album, catalog *album.Catalog, track album.Track) {
	fmt.Fprintf(out, "🎵 Сейчас играет:\n")
	fmt.Fprintf(out, "   №: %02d\n", catalog.Number(track.ID))
	fmt.Fprintf(out, "   Название: %s\n", track.Title)
	fmt.Fprintf(out, "   Альбом: %s\n", a.Title)
	fmt.Fprintf(out, "   Продолжительность: %s\n", track.Duration)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "🎮 Управление:\n")
	fmt.Fprintf(out, "   [Пробел] - пауза/воспроизведение\n")
	fmt.Fprintf(out, "   [q], [Ctrl+C] - остановить и выйти\n")
	fmt.Fprintln(out)
}

// readKeys переключает паузу по пробелу или Enter и останавливает воспроизведение по q
func readKeys(ctx context.Context, in io.Reader, controller *playback.Controller, stop context.CancelFunc) {
	buffer := make([]byte, 1)
	for {
		if _, err := in.Read(buffer); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch buffer[0] {
		case ' ', '\n', '\r':
			_, _ = controller.Toggle()
		case 'q', 'Q':
			stop()
			return
		}
	}
}

// displayProgress отображает позицию воспроизведения
func displayProgress(out io.Writer, state playback.State) {
	icon := "⏱️"
	if !state.Playing {
		icon = "⏸️"
	}

	total := "?:??"
	if state.Total > 0 {
		total = playback.FormatTime(state.Total)
	}

	fmt.Fprintf(out, "\r\033[K%s  %s / %s", icon, playback.FormatTime(state.Elapsed), total)
	if state.Total > 0 {
		fmt.Fprintf(out, " | %.1f%%", state.Progress()*100)
	}
}
