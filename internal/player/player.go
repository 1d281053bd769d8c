// Package player содержит аудиоустройство на основе beep: загрузка, пауза, перемотка и события
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/hazadus/midnight-echoes/internal/playback"
	"github.com/hazadus/midnight-echoes/internal/streaming"
)

var (
	// ErrNoSource возвращается для трека без аудиофайла
	ErrNoSource = errors.New("у трека нет источника аудио")
	// ErrNotLoaded возвращается, если ресурс еще не загружен
	ErrNotLoaded = errors.New("ресурс не загружен")
	// ErrNotSeekable возвращается при перемотке потока, который ее не поддерживает
	ErrNotSeekable = errors.New("источник не поддерживает перемотку")
)

const (
	defaultTickInterval = 250 * time.Millisecond
	defaultBufferSize   = 256 * 1024 // 256KB буфер
	resampleQuality     = 4
)

// Option настраивает плеер
type Option func(*Player)

// WithLogger задает логгер плеера
func WithLogger(logger *zap.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTickInterval задает период отправки обновлений позиции
func WithTickInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tick = d
		}
	}
}

// WithBufferSize задает размер буфера потокового чтения
func WithBufferSize(size int) Option {
	return func(p *Player) {
		if size > 0 {
			p.bufferSize = size
		}
	}
}

// Player воспроизводит один трек за раз через системный аудиовыход
type Player struct {
	events chan playback.Event
	ended  chan uint64

	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.Logger
	tick       time.Duration
	bufferSize int

	mutex         sync.Mutex
	isInitialized bool
	sampleRate    beep.SampleRate
	generation    uint64
	session       uint64 // Номер загрузки от контроллера, которым помечаются события

	// Состояние загруженного ресурса
	source      string
	format      beep.Format
	streamer    beep.StreamSeekCloser
	ctrl        *beep.Ctrl
	reader      io.Closer
	seekable    bool
	isEnded     bool
	stopStream  context.CancelFunc
	stopMonitor context.CancelFunc
}

// NewPlayer создает новый экземпляр плеера
func NewPlayer(opts ...Option) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		events:     make(chan playback.Event, 16),
		ended:      make(chan uint64, 1),
		ctx:        ctx,
		cancel:     cancel,
		logger:     zap.NewNop(),
		tick:       defaultTickInterval,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events возвращает канал событий воспроизведения
func (p *Player) Events() <-chan playback.Event {
	return p.events
}

// Load заменяет текущий ресурс новым и оставляет его на паузе.
// События нового ресурса помечаются номером session.
func (p *Player) Load(ctx context.Context, source string, session uint64) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()
	p.drainEvents()
	p.session = session

	if source == "" {
		return ErrNoSource
	}
	return p.loadInternal(ctx, source)
}

// loadInternal открывает и декодирует источник (должен вызываться под мьютексом)
func (p *Player) loadInternal(ctx context.Context, source string) error {
	// Поток живет дольше команды загрузки, но прерывается ее отменой до конца загрузки
	streamCtx, stopStream := context.WithCancel(p.ctx)
	detach := context.AfterFunc(ctx, stopStream)
	defer detach()

	reader, seekable, err := streaming.Open(streamCtx, source, p.bufferSize)
	if err != nil {
		stopStream()
		return p.loadError(ctx, fmt.Errorf("ошибка создания потокового ридера: %w", err))
	}

	streamer, format, err := mp3.Decode(reader)
	if err != nil {
		reader.Close()
		stopStream()
		return p.loadError(ctx, fmt.Errorf("ошибка декодирования MP3: %w", err))
	}

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5))
		if err != nil {
			streamer.Close()
			reader.Close()
			stopStream()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
		p.sampleRate = format.SampleRate
	}

	p.generation++
	p.source = source
	p.format = format
	p.streamer = streamer
	p.reader = reader
	p.seekable = seekable
	p.stopStream = stopStream
	p.isEnded = false
	p.ctrl = &beep.Ctrl{Streamer: p.output(streamer), Paused: true}
	p.startLocked()

	if length := streamer.Len(); length > 0 {
		p.send(playback.Event{
			Kind:    playback.EventMetadataLoaded,
			Value:   format.SampleRate.D(length),
			Session: p.session,
		})
	}

	monitorCtx, stopMonitor := context.WithCancel(p.ctx)
	p.stopMonitor = stopMonitor
	go p.monitorProgress(monitorCtx, p.generation, p.session)

	p.logger.Debug("ресурс загружен",
		zap.String("source", source),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Bool("seekable", seekable))
	return nil
}

// loadError предпочитает ошибку отмены, если загрузку прервали
func (p *Player) loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// output приводит поток к частоте динамиков
func (p *Player) output(s beep.Streamer) beep.Streamer {
	if p.format.SampleRate == p.sampleRate {
		return s
	}
	return beep.Resample(resampleQuality, p.format.SampleRate, p.sampleRate, s)
}

// startLocked ставит текущий поток в очередь динамиков
func (p *Player) startLocked() {
	gen := p.generation
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// Вызывается из горутины динамиков: только неблокирующее уведомление
		select {
		case p.ended <- gen:
		default:
		}
	})))
}

// Play снимает паузу. После окончания трека воспроизведение начинается сначала.
func (p *Player) Play(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return ErrNotLoaded
	}

	if p.isEnded {
		if err := p.rewindLocked(ctx); err != nil {
			return err
		}
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// rewindLocked возвращает доигравший трек в начало
func (p *Player) rewindLocked(ctx context.Context) error {
	if !p.seekable {
		source := p.source
		p.stopInternal()
		return p.loadInternal(ctx, source)
	}

	speaker.Lock()
	err := p.streamer.Seek(0)
	p.ctrl.Paused = true
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("ошибка перемотки в начало: %w", err)
	}
	p.isEnded = false
	p.startLocked()
	return nil
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	return nil
}

// SeekTo перематывает на указанную позицию
func (p *Player) SeekTo(position time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return ErrNotLoaded
	}
	if !p.seekable {
		return ErrNotSeekable
	}

	n := p.format.SampleRate.N(position)
	if length := p.streamer.Len(); length > 0 && n >= length {
		n = length - 1
	}
	if n < 0 {
		n = 0
	}

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}

	if p.isEnded {
		// Доигравший поток уже снят с динамиков: возвращаем его на паузе
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
		p.isEnded = false
		p.startLocked()
	}
	return nil
}

// Stop останавливает воспроизведение и освобождает ресурс
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.stopMonitor != nil {
		p.stopMonitor()
		p.stopMonitor = nil
	}

	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	if p.reader != nil {
		p.reader.Close()
		p.reader = nil
	}

	if p.stopStream != nil {
		p.stopStream()
		p.stopStream = nil
	}

	p.source = ""
	p.isEnded = false
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	return nil
}

// drainEvents отбрасывает события предыдущего ресурса
func (p *Player) drainEvents() {
	for {
		select {
		case <-p.events:
		case <-p.ended:
		default:
			return
		}
	}
}

// send доставляет событие, пока плеер не закрыт
func (p *Player) send(ev playback.Event) {
	select {
	case p.events <- ev:
	case <-p.ctx.Done():
	}
}

// monitorProgress отправляет позицию воспроизведения и сообщает об окончании трека
func (p *Player) monitorProgress(ctx context.Context, gen, session uint64) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	lastPosition := time.Duration(-1)

	for {
		select {
		case <-ctx.Done():
			return

		case endedGen := <-p.ended:
			p.mutex.Lock()
			current := endedGen == gen && p.generation == gen && p.ctrl != nil
			if current {
				p.isEnded = true
			}
			p.mutex.Unlock()

			if current {
				p.logger.Debug("трек доиграл", zap.Uint64("generation", gen))
				p.send(playback.Event{Kind: playback.EventEnded, Session: session})
				lastPosition = -1
			}

		case <-ticker.C:
			p.mutex.Lock()
			if p.streamer == nil || p.ctrl == nil || p.generation != gen {
				p.mutex.Unlock()
				return
			}
			if p.isEnded {
				p.mutex.Unlock()
				continue
			}

			speaker.Lock()
			position := p.format.SampleRate.D(p.streamer.Position())
			speaker.Unlock()
			p.mutex.Unlock()

			if position == lastPosition {
				continue
			}
			lastPosition = position

			// Если получатель не успевает, пропускаем обновление
			select {
			case p.events <- playback.Event{Kind: playback.EventTimeUpdate, Value: position, Session: session}:
			default:
			}
		}
	}
}

// Проверка соответствия интерфейсу на этапе компиляции
var _ playback.Media = (*Player)(nil)
