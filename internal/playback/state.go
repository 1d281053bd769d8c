// Package playback содержит контроллер воспроизведения: выбор трека, пауза, позиция и перемотка
package playback

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTrack возвращается при выборе трека, которого нет в каталоге
	ErrInvalidTrack = errors.New("трек не найден в каталоге")
	// ErrPlaybackRejected означает, что аудиоустройство отказалось начать воспроизведение
	ErrPlaybackRejected = errors.New("воспроизведение отклонено")
	// ErrNoSelection возвращается при перемотке, когда трек не выбран
	ErrNoSelection = errors.New("трек не выбран")
)

// Phase описывает состояние автомата воспроизведения
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePaused
	PhasePlaying
	PhaseEnded
)

// String возвращает название состояния
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePaused:
		return "Paused"
	case PhasePlaying:
		return "Playing"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// State снимок состояния воспроизведения для отображения
type State struct {
	SelectedID   int           // ID выбранного трека, имеет смысл только при HasSelection
	HasSelection bool          // Выбран ли трек
	Playing      bool          // Намерение воспроизводить выбранный трек
	Ended        bool          // Трек доиграл до конца
	Elapsed      time.Duration // Текущая позиция
	Total        time.Duration // Длительность загруженного ресурса, 0 до загрузки метаданных
	Err          error         // Последняя ошибка воспроизведения
}

// Phase вычисляет состояние автомата по снимку
func (s State) Phase() Phase {
	switch {
	case !s.HasSelection:
		return PhaseIdle
	case s.Playing:
		return PhasePlaying
	case s.Ended:
		return PhaseEnded
	default:
		return PhasePaused
	}
}

// IsSelected сообщает, выбран ли трек с указанным ID
func (s State) IsSelected(id int) bool {
	return s.HasSelection && s.SelectedID == id
}

// IsPlayingTrack сообщает, воспроизводится ли трек с указанным ID
func (s State) IsPlayingTrack(id int) bool {
	return s.IsSelected(id) && s.Playing
}

// Progress возвращает долю прослушанного от 0 до 1
func (s State) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
