package playback

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/hazadus/midnight-echoes/internal/album"
)

func newTestController(t *testing.T) (*Controller, *FakeMedia) {
	t.Helper()

	tracks := make([]album.Track, 0, 8)
	for id := 1; id <= 8; id++ {
		tracks = append(tracks, album.Track{
			ID:       id,
			Title:    "Track " + string(rune('A'+id-1)),
			Duration: "3:00",
			URL:      "track" + string(rune('0'+id)) + ".mp3",
		})
	}
	catalog, err := album.NewCatalog(tracks)
	require.NoError(t, err)

	media := NewFakeMedia()
	c := NewController(catalog, media, WithLogger(zaptest.NewLogger(t, zaptest.Level(zapcore.ErrorLevel))))
	t.Cleanup(c.Close)
	return c, media
}

func waitCommand(t *testing.T, cmd *Command) error {
	t.Helper()
	require.NotNil(t, cmd)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := cmd.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "команда %s не завершилась", cmd.Op())
	return err
}

func TestInitialState(t *testing.T) {
	c, _ := newTestController(t)

	s := c.State()
	assert.False(t, s.HasSelection)
	assert.False(t, s.Playing)
	assert.Zero(t, s.Elapsed)
	assert.Zero(t, s.Total)
	assert.Equal(t, PhaseIdle, s.Phase())

	_, ok := c.CurrentTrack()
	assert.False(t, ok)
}

func TestSelectDifferentTracks(t *testing.T) {
	for a := 1; a <= 8; a++ {
		for b := 1; b <= 8; b++ {
			if a == b {
				continue
			}
			c, _ := newTestController(t)

			_, err := c.SelectOrToggle(a)
			require.NoError(t, err)
			cmd, err := c.SelectOrToggle(b)
			require.NoError(t, err)

			s := c.State()
			assert.Equal(t, b, s.SelectedID)
			assert.True(t, s.Playing)
			require.NoError(t, waitCommand(t, cmd))
		}
	}
}

func TestToggleTwiceRestoresPlaying(t *testing.T) {
	c, media := newTestController(t)

	cmd, err := c.SelectOrToggle(2)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))
	before := c.State().Playing

	_, err = c.SelectOrToggle(2)
	require.NoError(t, err)
	assert.NotEqual(t, before, c.State().Playing)

	cmd, err = c.SelectOrToggle(2)
	require.NoError(t, err)
	assert.Equal(t, before, c.State().Playing)

	require.NoError(t, waitCommand(t, cmd))
	assert.Equal(t, []string{"load:track2.mp3", "play", "pause", "play"}, media.Calls())
	assert.True(t, media.IsPlaying())
}

func TestSelectUnknownTrack(t *testing.T) {
	c, media := newTestController(t)

	cmd, err := c.SelectOrToggle(42)
	assert.ErrorIs(t, err, ErrInvalidTrack)
	assert.Nil(t, cmd)
	assert.Equal(t, PhaseIdle, c.State().Phase())
	assert.Empty(t, media.Calls())
}

func TestToggleWithoutSelection(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.Toggle()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestScenario(t *testing.T) {
	c, _ := newTestController(t)

	cmd, err := c.SelectOrToggle(3)
	require.NoError(t, err)
	s := c.State()
	assert.Equal(t, 3, s.SelectedID)
	assert.True(t, s.Playing)
	assert.Zero(t, s.Elapsed)
	require.NoError(t, waitCommand(t, cmd))

	c.OnMetadataLoaded(202 * time.Second)
	assert.Equal(t, 202*time.Second, c.State().Total)

	c.OnTimeUpdate(45 * time.Second)
	assert.Equal(t, 45*time.Second, c.State().Elapsed)

	_, err = c.SelectOrToggle(3)
	require.NoError(t, err)
	assert.False(t, c.State().Playing)
	assert.Equal(t, PhasePaused, c.State().Phase())

	_, err = c.SelectOrToggle(5)
	require.NoError(t, err)
	s = c.State()
	assert.Equal(t, 5, s.SelectedID)
	assert.True(t, s.Playing)

	track, ok := c.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "track5.mp3", track.URL)
}

func TestPlaybackEnded(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.SelectOrToggle(1)
	require.NoError(t, err)
	c.OnMetadataLoaded(180 * time.Second)
	c.OnTimeUpdate(179 * time.Second)

	c.OnPlaybackEnded()

	s := c.State()
	assert.False(t, s.Playing)
	assert.Zero(t, s.Elapsed)
	assert.Equal(t, 1, s.SelectedID)
	assert.Equal(t, PhaseEnded, s.Phase())

	// После окончания трека переключение снова запускает воспроизведение
	_, err = c.SelectOrToggle(1)
	require.NoError(t, err)
	assert.Equal(t, PhasePlaying, c.State().Phase())
}

func TestSeekIsOptimistic(t *testing.T) {
	c, media := newTestController(t)
	media.SetSeekError(errors.New("поток не поддерживает перемотку"))

	_, err := c.SelectOrToggle(1)
	require.NoError(t, err)
	c.OnMetadataLoaded(180 * time.Second)

	cmd := c.Seek(90 * time.Second)
	assert.Equal(t, 90*time.Second, c.State().Elapsed)

	assert.Error(t, waitCommand(t, cmd))
	assert.Equal(t, 90*time.Second, c.State().Elapsed)
	assert.True(t, c.State().Playing)
	assert.NoError(t, c.State().Err)

	// Следующее обновление от устройства исправляет позицию
	c.OnTimeUpdate(12 * time.Second)
	assert.Equal(t, 12*time.Second, c.State().Elapsed)
}

func TestSeekWithoutSelection(t *testing.T) {
	c, media := newTestController(t)

	cmd := c.Seek(10 * time.Second)
	assert.ErrorIs(t, waitCommand(t, cmd), ErrNoSelection)
	assert.Zero(t, c.State().Elapsed)
	assert.Empty(t, media.Calls())
}

func TestPlayRejectedRevertsPlaying(t *testing.T) {
	c, media := newTestController(t)
	rejection := errors.New("нет доступа к аудиоустройству")
	media.SetPlayError(rejection)

	cmd, err := c.SelectOrToggle(4)
	require.NoError(t, err)
	assert.True(t, c.State().Playing)

	assert.ErrorIs(t, waitCommand(t, cmd), rejection)

	s := c.State()
	assert.False(t, s.Playing)
	assert.True(t, s.HasSelection)
	assert.ErrorIs(t, s.Err, ErrPlaybackRejected)
	assert.ErrorIs(t, s.Err, rejection)

	// Новая попытка очищает ошибку
	media.SetPlayError(nil)
	cmd, err = c.SelectOrToggle(4)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))
	assert.True(t, c.State().Playing)
	assert.NoError(t, c.State().Err)
}

func TestSupersededLoadDoesNotTouchState(t *testing.T) {
	c, media := newTestController(t)
	media.BlockLoads()

	first, err := c.SelectOrToggle(1)
	require.NoError(t, err)
	second, err := c.SelectOrToggle(2)
	require.NoError(t, err)

	assert.ErrorIs(t, waitCommand(t, first), context.Canceled)
	media.ReleaseLoads()
	require.NoError(t, waitCommand(t, second))

	s := c.State()
	assert.Equal(t, 2, s.SelectedID)
	assert.True(t, s.Playing)
	assert.NoError(t, s.Err)
}

func TestStaleEventsDoNotTouchNewTrack(t *testing.T) {
	c, media := newTestController(t)

	cmd, err := c.SelectOrToggle(1)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))
	previous := media.Session()

	media.BlockLoads()
	second, err := c.SelectOrToggle(2)
	require.NoError(t, err)

	// События первого трека доходят уже после выбора второго
	c.Handle(Event{Kind: EventEnded, Session: previous})
	c.Handle(Event{Kind: EventTimeUpdate, Value: 170 * time.Second, Session: previous})
	c.Handle(Event{Kind: EventMetadataLoaded, Value: 180 * time.Second, Session: previous})

	s := c.State()
	assert.Equal(t, 2, s.SelectedID)
	assert.True(t, s.Playing)
	assert.False(t, s.Ended)
	assert.Zero(t, s.Elapsed)
	assert.Zero(t, s.Total)

	media.ReleaseLoads()
	require.NoError(t, waitCommand(t, second))
	assert.NotEqual(t, previous, media.Session())
	assert.True(t, media.IsPlaying())

	s = c.State()
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Zero(t, s.Elapsed)

	c.Handle(Event{Kind: EventTimeUpdate, Value: 5 * time.Second, Session: media.Session()})
	assert.Equal(t, 5*time.Second, c.State().Elapsed)
}

func TestRejectionAfterNewIntentIsIgnored(t *testing.T) {
	c, media := newTestController(t)
	media.BlockLoads()
	media.SetLoadError(errors.New("файл не найден"))

	load, err := c.SelectOrToggle(1)
	require.NoError(t, err)

	// Пользователь успел поставить паузу до ответа устройства
	_, err = c.SelectOrToggle(1)
	require.NoError(t, err)
	media.ReleaseLoads()

	assert.Error(t, waitCommand(t, load))
	s := c.State()
	assert.False(t, s.Playing)
	assert.NoError(t, s.Err)
}

func TestEventsIgnoredWithoutSelection(t *testing.T) {
	c, _ := newTestController(t)

	c.OnMetadataLoaded(100 * time.Second)
	c.OnTimeUpdate(10 * time.Second)
	c.OnPlaybackEnded()

	s := c.State()
	assert.Zero(t, s.Total)
	assert.Zero(t, s.Elapsed)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestRunDispatchesMediaEvents(t *testing.T) {
	c, media := newTestController(t)
	media.SetLength(202 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cmd, err := c.SelectOrToggle(3)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))

	assert.Eventually(t, func() bool {
		return c.State().Total == 202*time.Second
	}, time.Second, 5*time.Millisecond)

	media.Emit(Event{Kind: EventTimeUpdate, Value: 45 * time.Second})
	assert.Eventually(t, func() bool {
		return c.State().Elapsed == 45*time.Second
	}, time.Second, 5*time.Millisecond)

	media.Emit(Event{Kind: EventEnded})
	assert.Eventually(t, func() bool {
		return c.State().Phase() == PhaseEnded
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestUpdatesKeepLatestSnapshot(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.SelectOrToggle(1)
	require.NoError(t, err)
	c.OnMetadataLoaded(60 * time.Second)
	c.OnTimeUpdate(30 * time.Second)

	select {
	case s := <-c.Updates():
		assert.Equal(t, 30*time.Second, s.Elapsed)
		assert.Equal(t, 60*time.Second, s.Total)
	case <-time.After(time.Second):
		t.Fatal("снимок состояния не получен")
	}
}

func TestNeverPlayingWithoutSelection(t *testing.T) {
	c, _ := newTestController(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		switch rng.Intn(6) {
		case 0:
			_, _ = c.SelectOrToggle(rng.Intn(10))
		case 1:
			_, _ = c.Toggle()
		case 2:
			c.OnTimeUpdate(time.Duration(rng.Intn(200)) * time.Second)
		case 3:
			c.OnMetadataLoaded(time.Duration(rng.Intn(200)) * time.Second)
		case 4:
			c.OnPlaybackEnded()
		case 5:
			c.Seek(time.Duration(rng.Intn(200)) * time.Second)
		}

		s := c.State()
		if s.Playing && !s.HasSelection {
			t.Fatalf("шаг %d: воспроизведение без выбранного трека", i)
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "Idle"},
		{PhasePaused, "Paused"},
		{PhasePlaying, "Playing"},
		{PhaseEnded, "Ended"},
		{Phase(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestStateProgress(t *testing.T) {
	assert.Zero(t, State{Elapsed: time.Second}.Progress())
	assert.InDelta(t, 0.5, State{Elapsed: 30 * time.Second, Total: time.Minute}.Progress(), 1e-9)
	assert.Equal(t, 1.0, State{Elapsed: 2 * time.Minute, Total: time.Minute}.Progress())
}

func TestFakeClockPlaysToEnd(t *testing.T) {
	c, media := newTestController(t)
	media.SetLengthFunc(func(source string) time.Duration {
		if source == "track2.mp3" {
			return 30 * time.Millisecond
		}
		return time.Minute
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()
	go media.RunClock(ctx, 5*time.Millisecond)

	cmd, err := c.SelectOrToggle(2)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))

	assert.Eventually(t, func() bool {
		s := c.State()
		return s.Phase() == PhaseEnded && s.Total == 30*time.Millisecond
	}, time.Second, 5*time.Millisecond)
	assert.False(t, media.IsPlaying())

	// Повторный запуск после окончания начинает трек сначала
	cmd, err = c.SelectOrToggle(2)
	require.NoError(t, err)
	require.NoError(t, waitCommand(t, cmd))
	calls := media.Calls()
	assert.Equal(t, "play", calls[len(calls)-1])
}
