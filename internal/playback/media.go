package playback

import (
	"context"
	"time"
)

// EventKind тип уведомления от аудиоустройства
type EventKind int

const (
	// EventTimeUpdate позиция воспроизведения изменилась
	EventTimeUpdate EventKind = iota
	// EventMetadataLoaded стала известна длительность ресурса
	EventMetadataLoaded
	// EventEnded трек доиграл до конца
	EventEnded
)

// String возвращает название события
func (k EventKind) String() string {
	switch k {
	case EventTimeUpdate:
		return "timeupdate"
	case EventMetadataLoaded:
		return "loadedmetadata"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event уведомление от аудиоустройства.
// Value содержит позицию для EventTimeUpdate и длительность для EventMetadataLoaded.
// Session равен номеру загрузки, переданному в Load для ресурса, который породил событие.
type Event struct {
	Kind    EventKind
	Value   time.Duration
	Session uint64
}

// Media описывает аудиоустройство, которым управляет контроллер.
// Load заменяет текущий ресурс и помечает все его события номером session.
// События приходят в порядке их возникновения.
type Media interface {
	Load(ctx context.Context, source string, session uint64) error
	Play(ctx context.Context) error
	Pause() error
	SeekTo(position time.Duration) error
	Events() <-chan Event
}
