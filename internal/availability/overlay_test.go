package availability

import (
	"testing"

	"zapis/internal/domain"
)

func containsSlot(overlay []domain.OneOffSlot, date, timeLabel string) bool {
	for _, s := range overlay {
		if s.Date == date && s.Time == timeLabel {
			return true
		}
	}
	return false
}

func countForDate(overlay []domain.OneOffSlot, date string) int {
	n := 0
	for _, s := range overlay {
		if s.Date == date {
			n++
		}
	}
	return n
}

func TestToggleSlot_AddThenRemove(t *testing.T) {
	var overlay []domain.OneOffSlot

	overlay, added := ToggleSlot(overlay, "2025-01-09", "10:00")
	if !added {
		t.Fatal("первое переключение должно добавить отметку")
	}
	if !containsSlot(overlay, "2025-01-09", "10:00") {
		t.Fatal("отметка не найдена после добавления")
	}

	overlay, added = ToggleSlot(overlay, "2025-01-09", "10:00")
	if added {
		t.Fatal("повторное переключение должно снять отметку")
	}
	if len(overlay) != 0 {
		t.Errorf("двойное переключение должно вернуть слой к исходному состоянию, осталось %d записей", len(overlay))
	}
}

func TestToggleSlot_DoesNotTouchOtherEntries(t *testing.T) {
	overlay := []domain.OneOffSlot{
		{Date: "2025-01-09", Time: "09:00"},
		{Date: "2025-01-10", Time: "10:00"},
	}

	got, _ := ToggleSlot(overlay, "2025-01-09", "10:00")
	if len(got) != 3 {
		t.Fatalf("ожидалось 3 записи, получено %d", len(got))
	}
	if !containsSlot(got, "2025-01-09", "09:00") || !containsSlot(got, "2025-01-10", "10:00") {
		t.Error("существующие записи не должны изменяться")
	}
}

func TestToggleDay_DisableAddsMissingWithoutDuplicates(t *testing.T) {
	labels := []string{"09:00", "09:30", "10:00", "10:30"}
	overlay := []domain.OneOffSlot{
		{Date: "2025-01-09", Time: "09:30"},
		{Date: "2025-01-10", Time: "09:00"},
	}

	got, disabled := ToggleDay(overlay, "2025-01-09", labels)
	if !disabled {
		t.Fatal("день должен закрыться")
	}
	if n := countForDate(got, "2025-01-09"); n != len(labels) {
		t.Errorf("ожидалось ровно %d записей даты, получено %d", len(labels), n)
	}
	seen := map[string]int{}
	for _, s := range got {
		if s.Date == "2025-01-09" {
			seen[s.Time]++
		}
	}
	for label, n := range seen {
		if n > 1 {
			t.Errorf("метка %s продублирована %d раз", label, n)
		}
	}
	if !containsSlot(got, "2025-01-10", "09:00") {
		t.Error("записи других дат должны сохраняться")
	}
}

func TestToggleDay_EnableRemovesAllEntriesOfDate(t *testing.T) {
	labels := []string{"09:00", "09:30"}
	overlay := []domain.OneOffSlot{
		{Date: "2025-01-09", Time: "09:00"},
		{Date: "2025-01-09", Time: "09:30"},
		{Date: "2025-01-10", Time: "09:00"},
	}

	got, disabled := ToggleDay(overlay, "2025-01-09", labels)
	if disabled {
		t.Fatal("полностью закрытый день должен открыться")
	}
	if n := countForDate(got, "2025-01-09"); n != 0 {
		t.Errorf("все записи даты должны быть сняты, осталось %d", n)
	}
	if !containsSlot(got, "2025-01-10", "09:00") {
		t.Error("записи других дат должны сохраняться")
	}
}

func TestToggleDay_RoundTrip(t *testing.T) {
	labels := []string{"09:00", "09:30", "10:00"}

	overlay, _ := ToggleDay(nil, "2025-01-09", labels)
	overlay, _ = ToggleDay(overlay, "2025-01-09", labels)

	if len(overlay) != 0 {
		t.Errorf("двойное переключение дня должно вернуть пустой слой, осталось %d записей", len(overlay))
	}
}
