package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/album"
)

const (
	opLoad  = "load"
	opPlay  = "play"
	opPause = "pause"
	opSeek  = "seek"
)

// Option настраивает контроллер
type Option func(*Controller)

// WithLogger задает логгер контроллера
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller управляет выбором трека, паузой и позицией единственного аудиоустройства.
// Все изменения состояния проходят через его методы.
type Controller struct {
	catalog *album.Catalog
	media   Media
	logger  *zap.Logger

	mu     sync.RWMutex
	state  State
	intent uint64 // Номер последнего намерения play/pause
	loads  uint64 // Номер загрузки выбранного трека, события других загрузок отбрасываются
	last   *Command

	root          context.Context
	closeRoot     context.CancelFunc
	session       context.Context // Контекст команд выбранного трека
	cancelSession context.CancelFunc

	updates chan State
}

// NewController создает контроллер для каталога и аудиоустройства
func NewController(catalog *album.Catalog, media Media, opts ...Option) *Controller {
	root, closeRoot := context.WithCancel(context.Background())
	session, cancelSession := context.WithCancel(root)

	c := &Controller{
		catalog:       catalog,
		media:         media,
		logger:        zap.NewNop(),
		root:          root,
		closeRoot:     closeRoot,
		session:       session,
		cancelSession: cancelSession,
		updates:       make(chan State, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog возвращает каталог треков
func (c *Controller) Catalog() *album.Catalog {
	return c.catalog
}

// State возвращает снимок текущего состояния
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CurrentTrack возвращает выбранный трек
func (c *Controller) CurrentTrack() (album.Track, bool) {
	s := c.State()
	if !s.HasSelection {
		return album.Track{}, false
	}
	return c.catalog.TrackByID(s.SelectedID)
}

// Updates возвращает канал со снимками состояния после каждого изменения.
// Если получатель не успевает, в канале остается только последний снимок.
func (c *Controller) Updates() <-chan State {
	return c.updates
}

// SelectOrToggle выбирает трек или переключает паузу, если он уже выбран.
// Выбор другого трека всегда начинает его воспроизведение.
func (c *Controller) SelectOrToggle(id int) (*Command, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsSelected(id) {
		return c.toggleLocked(), nil
	}

	track, ok := c.catalog.TrackByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrack, id)
	}

	// Команды предыдущего трека больше не нужны
	c.cancelSession()
	c.session, c.cancelSession = context.WithCancel(c.root)

	c.intent++
	c.loads++
	c.state = State{
		SelectedID:   id,
		HasSelection: true,
		Playing:      true,
	}
	c.logger.Debug("выбран трек", zap.Int("track", id), zap.String("source", track.URL))

	source, session := track.URL, c.loads
	cmd := c.issueLocked(opLoad, func(ctx context.Context) error {
		if err := c.media.Load(ctx, source, session); err != nil {
			return err
		}
		return c.media.Play(ctx)
	})
	c.publishLocked()
	return cmd, nil
}

// Toggle переключает паузу выбранного трека
func (c *Controller) Toggle() (*Command, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.HasSelection {
		return nil, ErrNoSelection
	}
	return c.toggleLocked(), nil
}

func (c *Controller) toggleLocked() *Command {
	c.intent++
	c.state.Err = nil

	var cmd *Command
	if c.state.Playing {
		c.state.Playing = false
		cmd = c.issueLocked(opPause, func(context.Context) error {
			return c.media.Pause()
		})
	} else {
		c.state.Playing = true
		c.state.Ended = false
		cmd = c.issueLocked(opPlay, func(ctx context.Context) error {
			return c.media.Play(ctx)
		})
	}
	c.logger.Debug("переключение паузы",
		zap.Int("track", c.state.SelectedID),
		zap.Bool("playing", c.state.Playing))
	c.publishLocked()
	return cmd
}

// Seek сразу выставляет позицию и отправляет перемотку аудиоустройству.
// Диапазон ограничивает вызывающий код, см. ClampSeek.
func (c *Controller) Seek(target time.Duration) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.HasSelection {
		return completedCommand(opSeek, ErrNoSelection)
	}

	c.state.Elapsed = target
	c.state.Ended = false
	cmd := c.issueLocked(opSeek, func(context.Context) error {
		return c.media.SeekTo(target)
	})
	c.publishLocked()
	return cmd
}

// OnTimeUpdate принимает новую позицию от аудиоустройства
func (c *Controller) OnTimeUpdate(position time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeUpdateLocked(position)
}

// OnMetadataLoaded принимает длительность загруженного ресурса
func (c *Controller) OnMetadataLoaded(total time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadataLoadedLocked(total)
}

// OnPlaybackEnded обрабатывает естественное окончание трека.
// Следующий трек автоматически не запускается.
func (c *Controller) OnPlaybackEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playbackEndedLocked()
}

func (c *Controller) timeUpdateLocked(position time.Duration) {
	if !c.state.HasSelection {
		return
	}
	c.state.Elapsed = position
	c.publishLocked()
}

func (c *Controller) metadataLoadedLocked(total time.Duration) {
	if !c.state.HasSelection {
		return
	}
	c.state.Total = total
	c.publishLocked()
}

func (c *Controller) playbackEndedLocked() {
	if !c.state.HasSelection {
		return
	}
	c.state.Playing = false
	c.state.Ended = true
	c.state.Elapsed = 0
	c.logger.Debug("трек доиграл", zap.Int("track", c.state.SelectedID))
	c.publishLocked()
}

// Handle передает событие аудиоустройства соответствующему обработчику.
// События предыдущих загрузок отбрасываются.
func (c *Controller) Handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Session != c.loads {
		c.logger.Debug("событие устаревшей загрузки",
			zap.Stringer("event", ev.Kind),
			zap.Uint64("session", ev.Session),
			zap.Uint64("current", c.loads))
		return
	}

	switch ev.Kind {
	case EventTimeUpdate:
		c.timeUpdateLocked(ev.Value)
	case EventMetadataLoaded:
		c.metadataLoadedLocked(ev.Value)
	case EventEnded:
		c.playbackEndedLocked()
	}
}

// Run читает события аудиоустройства до отмены контекста или закрытия канала событий
func (c *Controller) Run(ctx context.Context) error {
	events := c.media.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Handle(ev)
		}
	}
}

// Close отменяет все незавершенные команды
func (c *Controller) Close() {
	c.closeRoot()
}

// issueLocked запускает команду после завершения предыдущей, чтобы аудиоустройство
// получало команды в порядке вызова. Должен вызываться под мьютексом.
func (c *Controller) issueLocked(op string, fn func(context.Context) error) *Command {
	ctx, cancel := context.WithCancel(c.session)
	cmd := newCommand(op, cancel)
	prev := c.last
	c.last = cmd
	intent := c.intent

	go func() {
		defer cancel()
		if prev != nil {
			<-prev.done
		}

		err := ctx.Err()
		if err == nil {
			err = fn(ctx)
		}
		c.reconcile(cmd, intent, err)
		cmd.finish(err)
	}()

	return cmd
}

// reconcile приводит оптимистичное состояние в соответствие с результатом команды
func (c *Controller) reconcile(cmd *Command, intent uint64, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		c.logger.Debug("команда отменена", zap.String("op", cmd.op))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.op {
	case opLoad, opPlay:
		if intent != c.intent || !c.state.Playing {
			c.logger.Debug("ошибка устаревшей команды", zap.String("op", cmd.op), zap.Error(err))
			return
		}
		c.state.Playing = false
		c.state.Err = fmt.Errorf("%w: %w", ErrPlaybackRejected, err)
		c.logger.Warn("воспроизведение отклонено",
			zap.Int("track", c.state.SelectedID),
			zap.Error(err))
		c.publishLocked()
	default:
		c.logger.Warn("команда не выполнена", zap.String("op", cmd.op), zap.Error(err))
	}
}

// publishLocked отправляет снимок, заменяя непрочитанный
func (c *Controller) publishLocked() {
	s := c.state
	select {
	case c.updates <- s:
		return
	default:
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- s:
	default:
	}
}
