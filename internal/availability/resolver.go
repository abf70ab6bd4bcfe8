package availability

import (
	"time"

	"zapis/internal/domain"
)

type SlotState string

const (
	StatePast            SlotState = "past"
	StateCalendarBlocked SlotState = "calendar_blocked"
	StateBlocked         SlotState = "blocked"
	StateBooked          SlotState = "booked"
	StateUnavailable     SlotState = "unavailable"
	StateAvailable       SlotState = "available"
)

// SlotResolution — итог разбора ячейки: единственный статус по приоритету
// плюс все булевы признаки для потребителей, которым нужно объединение.
type SlotResolution struct {
	State             SlotState `json:"state"`
	IsPast            bool      `json:"is_past"`
	IsCalendarBlocked bool      `json:"is_calendar_blocked"`
	IsBlocked         bool      `json:"is_blocked"`
	IsBooked          bool      `json:"is_booked"`
	IsUnavailable     bool      `json:"is_unavailable"`
	IsAvailable       bool      `json:"is_available"`
}

type ResolveInput struct {
	Now          time.Time
	SlotDuration time.Duration
	Appointments []domain.Appointment
	Events       []domain.CalendarEvent
	BlockedSlots []domain.BlockedSlot
	OneOffSlots  []domain.OneOffSlot
}

// Resolve вычисляет статус ячейки (date, timeLabel). Порядок приоритета
// фиксирован: past, calendar_blocked, blocked, booked, unavailable,
// available — прошедшая дата и конфликт с внешним календарем всегда
// перекрывают ручные отметки.
func Resolve(date, timeLabel string, in ResolveInput) SlotResolution {
	res := SlotResolution{
		IsPast:            isPast(date, in.Now),
		IsCalendarBlocked: isCalendarBlocked(date, timeLabel, in),
		IsBlocked:         isBlocked(date, timeLabel, in.BlockedSlots),
		IsBooked:          isBooked(date, timeLabel, in.Appointments),
		IsUnavailable:     isOneOffUnavailable(date, timeLabel, in.OneOffSlots),
	}

	switch {
	case res.IsPast:
		res.State = StatePast
	case res.IsCalendarBlocked:
		res.State = StateCalendarBlocked
	case res.IsBlocked:
		res.State = StateBlocked
	case res.IsBooked:
		res.State = StateBooked
	case res.IsUnavailable:
		res.State = StateUnavailable
	default:
		res.State = StateAvailable
		res.IsAvailable = true
	}

	return res
}

// DayFullyUnavailable — день целиком закрыт, если каждая метка времени
// имеет точечную отметку. Повторяющиеся блокировки и брони намеренно
// не учитываются: переключение дня трогает только точечный слой.
func DayFullyUnavailable(date string, labels []string, oneOff []domain.OneOffSlot) bool {
	if len(labels) == 0 {
		return false
	}
	marked := make(map[string]struct{}, len(oneOff))
	for _, s := range oneOff {
		if s.Date == date {
			marked[s.Time] = struct{}{}
		}
	}
	for _, l := range labels {
		if _, ok := marked[l]; !ok {
			return false
		}
	}
	return true
}

func isPast(date string, now time.Time) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

func isCalendarBlocked(date, timeLabel string, in ResolveInput) bool {
	slotStart, err := time.Parse(dateLayout+" "+timeLayout, date+" "+timeLabel)
	if err != nil {
		return false
	}
	duration := in.SlotDuration
	if duration <= 0 {
		duration = DefaultSlotDuration
	}
	slotEnd := slotStart.Add(duration)

	for _, e := range in.Events {
		evStart, evEnd, ok := eventInterval(e)
		if !ok {
			continue
		}
		if evStart.Before(slotEnd) && evEnd.After(slotStart) {
			return true
		}
	}
	return false
}

// eventInterval приводит событие к полуинтервалу [start, end).
// События на весь день (только дата, без времени) разворачиваются
// в [00:00:00Z, 23:59:59Z) своей даты.
func eventInterval(e domain.CalendarEvent) (time.Time, time.Time, bool) {
	start, _, ok := parseEventTime(e.StartTime)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, allDay, ok := parseEventTime(e.EndTime)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if allDay {
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return start, end, true
}

func parseEventTime(s string) (t time.Time, allDay, ok bool) {
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return parsed.UTC(), false, true
	}
	if parsed, err := time.Parse(dateLayout, s); err == nil {
		return parsed, true, true
	}
	return time.Time{}, false, false
}

func isBlocked(date, timeLabel string, blocks []domain.BlockedSlot) bool {
	cellMin, ok := minuteOfDay(timeLabel)
	if !ok {
		return false
	}
	for _, b := range blocks {
		if b.Date != "" && b.Date != date {
			continue
		}
		startMin, okS := minuteOfDay(b.StartTime)
		endMin, okE := minuteOfDay(b.EndTime)
		if !okS || !okE {
			continue
		}
		if cellMin >= startMin && cellMin < endMin {
			return true
		}
	}
	return false
}

func isBooked(date, timeLabel string, appointments []domain.Appointment) bool {
	for _, a := range appointments {
		if a.Status != domain.AppointmentStatusConfirmed {
			continue
		}
		if a.Date == date && a.Time == timeLabel {
			return true
		}
	}
	return false
}

func isOneOffUnavailable(date, timeLabel string, oneOff []domain.OneOffSlot) bool {
	for _, s := range oneOff {
		if s.Date == date && s.Time == timeLabel {
			return true
		}
	}
	return false
}

func minuteOfDay(label string) (int, bool) {
	t, err := time.Parse(timeLayout, label)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
