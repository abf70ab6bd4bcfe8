package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

func normalizedSettings() domain.Settings {
	s := domain.Settings{
		WorkingHours: &domain.WorkingHours{StartTime: "09:00", EndTime: "11:00"},
		WorkingDays:  []int{1, 2, 3, 4, 5},
	}
	return s
}

func TestBuildWeekGrid_Shape(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	grid := BuildWeekGrid(anchor, normalizedSettings(), ResolveInput{Now: testNow})

	if grid.WeekStart != "2025-01-06" {
		t.Errorf("начало недели: ожидалось 2025-01-06, получено %s", grid.WeekStart)
	}
	if len(grid.Days) != 5 {
		t.Fatalf("ожидалось 5 дней, получено %d", len(grid.Days))
	}
	if len(grid.TimeLabels) != 4 {
		t.Fatalf("ожидалось 4 метки, получено %d", len(grid.TimeLabels))
	}
	for _, day := range grid.Days {
		if len(day.Slots) != len(grid.TimeLabels) {
			t.Errorf("день %s: ожидалось %d ячеек, получено %d", day.Date, len(grid.TimeLabels), len(day.Slots))
		}
	}
}

func TestBuildWeekGrid_PastDaysResolved(t *testing.T) {
	// Сейчас среда 8 января: понедельник и вторник уже прошли.
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	grid := BuildWeekGrid(anchor, normalizedSettings(), ResolveInput{Now: testNow})

	for _, slot := range grid.Days[0].Slots {
		if slot.State != StatePast {
			t.Errorf("ячейка %s %s: ожидался past, получен %s", slot.Date, slot.Time, slot.State)
		}
	}
	for _, slot := range grid.Days[2].Slots {
		if slot.State == StatePast {
			t.Errorf("ячейка %s %s не должна быть прошедшей", slot.Date, slot.Time)
		}
	}
}

func TestBuildWeekGrid_OverlaysApplied(t *testing.T) {
	settings := normalizedSettings()
	settings.BlockedSlots = []domain.BlockedSlot{{StartTime: "09:00", EndTime: "09:30"}}
	settings.OneOffSlots = []domain.OneOffSlot{
		{Date: "2025-01-09", Time: "09:00"},
		{Date: "2025-01-09", Time: "09:30"},
		{Date: "2025-01-09", Time: "10:00"},
		{Date: "2025-01-09", Time: "10:30"},
	}

	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	grid := BuildWeekGrid(anchor, settings, ResolveInput{Now: testNow})

	// Четверг 9 января — четвертый рабочий день недели не считая выходных:
	// понедельник(0) вторник(1) среда(2) четверг(3).
	thursday := grid.Days[3]
	if thursday.Date != "2025-01-09" {
		t.Fatalf("ожидался 2025-01-09, получено %s", thursday.Date)
	}
	if !thursday.FullyUnavailable {
		t.Error("день со всеми точечными отметками должен быть полностью закрыт")
	}
	// Ежедневная блокировка перекрывает точечную отметку в 09:00.
	if thursday.Slots[0].State != StateBlocked {
		t.Errorf("ожидался blocked, получен %s", thursday.Slots[0].State)
	}
	if thursday.Slots[1].State != StateUnavailable {
		t.Errorf("ожидался unavailable, получен %s", thursday.Slots[1].State)
	}
}

func TestBuildWeekGrid_EmptyWorkingDays(t *testing.T) {
	settings := normalizedSettings()
	settings.WorkingDays = []int{}
	settings.OneOffSlots = []domain.OneOffSlot{{Date: "2025-01-09", Time: "09:00"}}

	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	grid := BuildWeekGrid(anchor, settings, ResolveInput{Now: testNow})

	if len(grid.Days) != 0 {
		t.Errorf("пустой список рабочих дней должен давать пустую неделю, получено %d дней", len(grid.Days))
	}
}

func TestBuildWeekGrid_InvertedHours(t *testing.T) {
	settings := normalizedSettings()
	settings.WorkingHours = &domain.WorkingHours{StartTime: "17:00", EndTime: "09:00"}

	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	grid := BuildWeekGrid(anchor, settings, ResolveInput{Now: testNow})

	if len(grid.TimeLabels) != 0 {
		t.Errorf("инвертированные часы должны давать пустую сетку, получено %d меток", len(grid.TimeLabels))
	}
	for _, day := range grid.Days {
		if len(day.Slots) != 0 {
			t.Errorf("день %s: ячеек быть не должно", day.Date)
		}
	}
}
