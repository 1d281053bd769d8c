package playback

import (
	"fmt"
	"math"
	"time"
)

// FormatTime форматирует позицию как "m:ss". Отрицательные значения дают "0:00".
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatSeconds форматирует позицию в секундах, NaN и бесконечность дают "0:00"
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return FormatTime(0)
	}
	if seconds > float64(math.MaxInt64/int64(time.Second)) {
		seconds = float64(math.MaxInt64 / int64(time.Second))
	}
	return FormatTime(time.Duration(seconds * float64(time.Second)))
}

// ClampSeek ограничивает позицию перемотки диапазоном [0, total].
// Пока длительность неизвестна, диапазон вырождается в 0.
func ClampSeek(target, total time.Duration) time.Duration {
	if target < 0 || total <= 0 {
		return 0
	}
	if target > total {
		return total
	}
	return target
}
