package availability

import (
	"time"

	"zapis/internal/domain"
)

const (
	// SlotStep — шаг сетки слотов.
	SlotStep = 30 * time.Minute
	// DefaultSlotDuration — длительность слота при проверке пересечений.
	DefaultSlotDuration = 30 * time.Minute

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// TimeLabels строит упорядоченный список меток "HH:MM" с шагом 30 минут
// в полуинтервале [start, end). Некорректные границы или end <= start
// дают пустой список, а не ошибку: пустая сетка — штатное состояние.
func TimeLabels(wh domain.WorkingHours) []string {
	start, err := time.Parse(timeLayout, wh.StartTime)
	if err != nil {
		return nil
	}
	end, err := time.Parse(timeLayout, wh.EndTime)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return nil
	}

	var labels []string
	for t := start; t.Before(end); t = t.Add(SlotStep) {
		labels = append(labels, t.Format(timeLayout))
	}
	return labels
}

// WeekStart возвращает понедельник недели, содержащей t (с точностью до дня).
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekDays возвращает дни недели, содержащей anchor, отфильтрованные по
// рабочим дням (0=воскресенье). Nil означает "не настроено" и приводится
// к будним дням; пустой список — календарь полностью закрыт.
func WeekDays(anchor time.Time, workingDays []int) []time.Time {
	if workingDays == nil {
		workingDays = domain.DefaultWorkingDays
	}

	allowed := make(map[int]struct{}, len(workingDays))
	for _, d := range workingDays {
		allowed[d] = struct{}{}
	}

	start := WeekStart(anchor)
	var days []time.Time
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		if _, ok := allowed[int(day.Weekday())]; ok {
			days = append(days, day)
		}
	}
	return days
}
