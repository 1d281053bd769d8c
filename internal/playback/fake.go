package playback

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeMedia аудиоустройство без звука: для тестов и режима --dry-run
type FakeMedia struct {
	mu       sync.Mutex
	events   chan Event
	calls    []string
	loadErr  error
	playErr  error
	seekErr  error
	gate     chan struct{}
	length   time.Duration
	lengthOf func(source string) time.Duration
	loaded   bool
	playing  bool
	position time.Duration
	session  uint64
}

// NewFakeMedia создает новое фиктивное аудиоустройство
func NewFakeMedia() *FakeMedia {
	return &FakeMedia{
		events: make(chan Event, 64),
	}
}

// Load останавливает текущий ресурс, запоминает источник и, если задана длительность,
// сообщает ее событием
func (m *FakeMedia) Load(ctx context.Context, source string, session uint64) error {
	m.mu.Lock()
	m.calls = append(m.calls, "load:"+source)
	m.loaded = false
	m.playing = false
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		m.loaded = false
		return m.loadErr
	}
	m.loaded = true
	m.session = session
	m.position = 0
	if m.lengthOf != nil {
		m.length = m.lengthOf(source)
	}
	if m.length > 0 {
		m.emit(Event{Kind: EventMetadataLoaded, Value: m.length, Session: m.session}, false)
	}
	return nil
}

// Play начинает воспроизведение, после окончания трека начинает сначала
func (m *FakeMedia) Play(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "play")
	if m.playErr != nil {
		return m.playErr
	}
	if !m.loaded {
		return fmt.Errorf("ресурс не загружен")
	}
	if m.length > 0 && m.position >= m.length {
		m.position = 0
	}
	m.playing = true
	return nil
}

// Pause приостанавливает воспроизведение
func (m *FakeMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "pause")
	m.playing = false
	return nil
}

// SeekTo перематывает на указанную позицию
func (m *FakeMedia) SeekTo(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "seek:"+position.String())
	if m.seekErr != nil {
		return m.seekErr
	}
	m.position = position
	return nil
}

// Events возвращает канал событий
func (m *FakeMedia) Events() <-chan Event {
	return m.events
}

// RunClock продвигает позицию, пока идет воспроизведение, до отмены контекста
func (m *FakeMedia) RunClock(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.advance(tick)
		}
	}
}

func (m *FakeMedia) advance(tick time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		return
	}
	m.position += tick
	if m.length > 0 && m.position >= m.length {
		m.position = m.length
		m.playing = false
		m.emit(Event{Kind: EventEnded, Session: m.session}, false)
		return
	}
	m.emit(Event{Kind: EventTimeUpdate, Value: m.position, Session: m.session}, true)
}

// emit отправляет событие. Обновления позиции отбрасываются при переполнении.
func (m *FakeMedia) emit(ev Event, droppable bool) {
	if droppable {
		select {
		case m.events <- ev:
		default:
		}
		return
	}
	m.events <- ev
}

// Вспомогательные методы для тестов

// Emit отправляет событие так, будто его сгенерировало устройство.
// Без номера загрузки событие получает номер текущего ресурса.
func (m *FakeMedia) Emit(ev Event) {
	if ev.Session == 0 {
		ev.Session = m.Session()
	}
	m.events <- ev
}

// Session возвращает номер загрузки текущего ресурса
func (m *FakeMedia) Session() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SetLength задает длительность, сообщаемую после загрузки
func (m *FakeMedia) SetLength(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.length = d
}

// SetLengthFunc задает длительность в зависимости от загружаемого источника
func (m *FakeMedia) SetLengthFunc(fn func(source string) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lengthOf = fn
}

// SetLoadError задает ошибку загрузки
func (m *FakeMedia) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetPlayError задает ошибку запуска воспроизведения
func (m *FakeMedia) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// SetSeekError задает ошибку перемотки
func (m *FakeMedia) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

// BlockLoads заставляет Load ждать вызова ReleaseLoads или отмены контекста
func (m *FakeMedia) BlockLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
}

// ReleaseLoads отпускает ожидающие загрузки
func (m *FakeMedia) ReleaseLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

// Calls возвращает журнал вызовов
func (m *FakeMedia) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// IsPlaying сообщает, идет ли воспроизведение
func (m *FakeMedia) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Проверка соответствия интерфейсу на этапе компиляции
var _ Media = (*FakeMedia)(nil)
