package availability

import (
	"sort"
	"time"

	"zapis/internal/domain"
)

// TimeframeRange переводит выбор таймфрейма в диапазон дат [start, end],
// включительно с обеих сторон. Неизвестное значение даёт неделю вперед.
func TimeframeRange(tf domain.Timeframe, today time.Time) (time.Time, time.Time) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	switch tf {
	case domain.TimeframeASAP:
		return day, day.AddDate(0, 0, 30)
	case domain.TimeframeThisWeek:
		return day, WeekStart(day).AddDate(0, 0, 6)
	case domain.TimeframeNextWeek:
		start := WeekStart(day).AddDate(0, 0, 7)
		return start, start.AddDate(0, 0, 6)
	case domain.TimeframeThisMonth:
		firstOfNext := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).AddDate(0, 1, 0)
		return day, firstOfNext.AddDate(0, 0, -1)
	default:
		return day, day.AddDate(0, 0, 7)
	}
}

// FilterBookable отбирает слоты для мастера бронирования: дата внутри
// диапазона таймфрейма, статус не "unavailable" и не "booked" (пустой
// статус считается доступным). Результат отсортирован по (дата, время).
func FilterBookable(slots []domain.TimeSlot, tf domain.Timeframe, today time.Time) []domain.TimeSlot {
	start, end := TimeframeRange(tf, today)

	var out []domain.TimeSlot
	for _, s := range slots {
		d, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		if !s.Bookable() {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})

	return out
}
