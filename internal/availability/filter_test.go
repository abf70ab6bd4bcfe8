package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

// Среда, 8 января 2025: неделя 2025-01-06..2025-01-12.
var filterToday = time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

func TestTimeframeRange(t *testing.T) {
	tests := []struct {
		name      string
		tf        domain.Timeframe
		wantStart string
		wantEnd   string
	}{
		{"asap", domain.TimeframeASAP, "2025-01-08", "2025-02-07"},
		{"this_week", domain.TimeframeThisWeek, "2025-01-08", "2025-01-12"},
		{"next_week", domain.TimeframeNextWeek, "2025-01-13", "2025-01-19"},
		{"this_month", domain.TimeframeThisMonth, "2025-01-08", "2025-01-31"},
		{"неизвестное значение", domain.Timeframe("someday"), "2025-01-08", "2025-01-15"},
		{"пустое значение", domain.Timeframe(""), "2025-01-08", "2025-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := TimeframeRange(tt.tf, filterToday)
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("начало: ожидалось %s, получено %s", tt.wantStart, got)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("конец: ожидалось %s, получено %s", tt.wantEnd, got)
			}
		})
	}
}

func TestTimeframeRange_MonthBoundary(t *testing.T) {
	// Конец февраля в невисокосном году.
	today := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	_, end := TimeframeRange(domain.TimeframeThisMonth, today)
	if got := end.Format("2006-01-02"); got != "2025-02-28" {
		t.Errorf("ожидалось 2025-02-28, получено %s", got)
	}
}

func TestFilterBookable_StatusAndRange(t *testing.T) {
	slots := []domain.TimeSlot{
		{Date: "2025-01-10", Time: "09:00", Status: domain.SlotStatusAvailable},
		{Date: "2025-01-10", Time: "09:30", Status: domain.SlotStatusBooked},
		{Date: "2025-01-10", Time: "10:00", Status: domain.SlotStatusUnavailable},
		{Date: "2025-01-10", Time: "10:30"}, // пустой статус = доступен
		{Date: "2025-01-20", Time: "09:00", Status: domain.SlotStatusAvailable}, // вне недели
		{Date: "2025-01-07", Time: "09:00", Status: domain.SlotStatusAvailable}, // до начала диапазона
	}

	got := FilterBookable(slots, domain.TimeframeThisWeek, filterToday)
	if len(got) != 2 {
		t.Fatalf("ожидалось 2 слота, получено %d", len(got))
	}
	if got[0].Time != "09:00" || got[1].Time != "10:30" {
		t.Errorf("неверный отбор: %s, %s", got[0].Time, got[1].Time)
	}
}

func TestFilterBookable_SortedByDateThenTime(t *testing.T) {
	slots := []domain.TimeSlot{
		{Date: "2025-01-11", Time: "09:00"},
		{Date: "2025-01-10", Time: "15:30"},
		{Date: "2025-01-10", Time: "09:00"},
		{Date: "2025-01-09", Time: "16:00"},
	}

	got := FilterBookable(slots, domain.TimeframeThisWeek, filterToday)
	if len(got) != 4 {
		t.Fatalf("ожидалось 4 слота, получено %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Date > cur.Date || (prev.Date == cur.Date && prev.Time > cur.Time) {
			t.Errorf("нарушен порядок: %s %s после %s %s", cur.Date, cur.Time, prev.Date, prev.Time)
		}
	}
}

func TestFilterBookable_InclusiveBounds(t *testing.T) {
	slots := []domain.TimeSlot{
		{Date: "2025-01-08", Time: "09:00"},
		{Date: "2025-01-12", Time: "09:00"},
	}

	got := FilterBookable(slots, domain.TimeframeThisWeek, filterToday)
	if len(got) != 2 {
		t.Errorf("границы диапазона включительны, ожидалось 2 слота, получено %d", len(got))
	}
}

func TestFilterBookable_SkipsMalformedDates(t *testing.T) {
	slots := []domain.TimeSlot{
		{Date: "10.01.2025", Time: "09:00"},
		{Date: "2025-01-10", Time: "09:00"},
	}

	got := FilterBookable(slots, domain.TimeframeThisWeek, filterToday)
	if len(got) != 1 {
		t.Errorf("нечитаемая дата должна отбрасываться, получено %d слотов", len(got))
	}
}
