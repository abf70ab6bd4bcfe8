package availability

import (
	"zapis/internal/domain"
)

// ToggleSlot переключает точечную отметку для пары (date, timeLabel).
// Возвращает новый слой и признак, была ли отметка добавлена.
// Снятие отметки не делает слот бронируемым само по себе: приоритет
// статусов по-прежнему решает Resolve.
func ToggleSlot(overlay []domain.OneOffSlot, date, timeLabel string) ([]domain.OneOffSlot, bool) {
	out := make([]domain.OneOffSlot, 0, len(overlay)+1)
	found := false
	for _, s := range overlay {
		if s.Date == date && s.Time == timeLabel {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, domain.OneOffSlot{Date: date, Time: timeLabel})
	}
	return out, !found
}

// ToggleDay переключает весь день. Если каждая метка уже отмечена,
// все отметки даты снимаются; иначе добавляются недостающие, без
// дублирования существующих. Возвращает новый слой и признак, что день
// был закрыт (true) или открыт (false).
func ToggleDay(overlay []domain.OneOffSlot, date string, labels []string) ([]domain.OneOffSlot, bool) {
	if DayFullyUnavailable(date, labels, overlay) {
		out := make([]domain.OneOffSlot, 0, len(overlay))
		for _, s := range overlay {
			if s.Date != date {
				out = append(out, s)
			}
		}
		return out, false
	}

	existing := make(map[string]struct{}, len(overlay))
	for _, s := range overlay {
		if s.Date == date {
			existing[s.Time] = struct{}{}
		}
	}

	out := append(make([]domain.OneOffSlot, 0, len(overlay)+len(labels)), overlay...)
	for _, l := range labels {
		if _, ok := existing[l]; !ok {
			out = append(out, domain.OneOffSlot{Date: date, Time: l})
		}
	}
	return out, true
}
