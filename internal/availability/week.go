package availability

import (
	"time"

	"zapis/internal/domain"
)

// SlotCell — ячейка недельной сетки администратора.
type SlotCell struct {
	Date string `json:"date"`
	Time string `json:"time"`
	SlotResolution
}

type DayGrid struct {
	Date             string     `json:"date"`
	Weekday          int        `json:"weekday"`
	FullyUnavailable bool       `json:"fully_unavailable"`
	Slots            []SlotCell `json:"slots"`
}

type WeekGrid struct {
	WeekStart  string    `json:"week_start"`
	TimeLabels []string  `json:"time_labels"`
	Days       []DayGrid `json:"days"`
}

// BuildWeekGrid собирает недельную сетку: дни по рабочим дням недели,
// метки по рабочим часам, статус каждой ячейки по приоритету Resolve.
// Настройки должны быть нормализованы вызывающей стороной.
func BuildWeekGrid(anchor time.Time, settings domain.Settings, in ResolveInput) WeekGrid {
	labels := TimeLabels(*settings.WorkingHours)
	days := WeekDays(anchor, settings.WorkingDays)

	in.BlockedSlots = settings.BlockedSlots
	in.OneOffSlots = settings.OneOffSlots

	grid := WeekGrid{
		WeekStart:  WeekStart(anchor).Format(dateLayout),
		TimeLabels: labels,
	}

	for _, day := range days {
		date := day.Format(dateLayout)
		dg := DayGrid{
			Date:             date,
			Weekday:          int(day.Weekday()),
			FullyUnavailable: DayFullyUnavailable(date, labels, settings.OneOffSlots),
		}
		for _, label := range labels {
			dg.Slots = append(dg.Slots, SlotCell{
				Date:           date,
				Time:           label,
				SlotResolution: Resolve(date, label, in),
			})
		}
		grid.Days = append(grid.Days, dg)
	}

	return grid
}
