package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

func TestTimeLabels_StandardDay(t *testing.T) {
	labels := TimeLabels(domain.WorkingHours{StartTime: "09:00", EndTime: "17:00"})

	if len(labels) != 16 {
		t.Fatalf("ожидалось 16 меток, получено %d", len(labels))
	}
	if labels[0] != "09:00" {
		t.Errorf("первая метка: ожидалось 09:00, получено %s", labels[0])
	}
	if labels[1] != "09:30" {
		t.Errorf("вторая метка: ожидалось 09:30, получено %s", labels[1])
	}
	if labels[len(labels)-1] != "16:30" {
		t.Errorf("последняя метка: ожидалось 16:30, получено %s", labels[len(labels)-1])
	}
}

func TestTimeLabels_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		hours domain.WorkingHours
		want  int
	}{
		{"инвертированные границы", domain.WorkingHours{StartTime: "17:00", EndTime: "09:00"}, 0},
		{"равные границы", domain.WorkingHours{StartTime: "09:00", EndTime: "09:00"}, 0},
		{"нечитаемое начало", domain.WorkingHours{StartTime: "девять", EndTime: "17:00"}, 0},
		{"нечитаемый конец", domain.WorkingHours{StartTime: "09:00", EndTime: ""}, 0},
		{"один слот", domain.WorkingHours{StartTime: "09:00", EndTime: "09:30"}, 1},
		{"граница не кратна шагу", domain.WorkingHours{StartTime: "09:00", EndTime: "10:15"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeLabels(tt.hours)
			if len(got) != tt.want {
				t.Errorf("ожидалось %d меток, получено %d (%v)", tt.want, len(got), got)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"понедельник", time.Date(2025, 1, 6, 15, 30, 0, 0, time.UTC), "2025-01-06"},
		{"среда", time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), "2025-01-06"},
		{"воскресенье", time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC), "2025-01-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in).Format("2006-01-02")
			if got != tt.want {
				t.Errorf("ожидалось %s, получено %s", tt.want, got)
			}
		})
	}
}

func TestWeekDays_WeekdayFilter(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	days := WeekDays(anchor, []int{1, 2, 3, 4, 5})
	if len(days) != 5 {
		t.Fatalf("ожидалось 5 дней, получено %d", len(days))
	}
	for _, d := range days {
		wd := int(d.Weekday())
		if wd < 1 || wd > 5 {
			t.Errorf("день %s не будний (weekday=%d)", d.Format("2006-01-02"), wd)
		}
	}
}

func TestWeekDays_EmptyMeansClosed(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	if days := WeekDays(anchor, []int{}); len(days) != 0 {
		t.Errorf("пустой список рабочих дней должен закрывать неделю, получено %d дней", len(days))
	}
}

func TestWeekDays_NilDefaultsToWeekdays(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	days := WeekDays(anchor, nil)
	if len(days) != 5 {
		t.Fatalf("nil должен приводиться к будним дням, получено %d дней", len(days))
	}
	if days[0].Weekday() != time.Monday {
		t.Errorf("первый день должен быть понедельником, получено %s", days[0].Weekday())
	}
}

func TestWeekDays_WeekendOnly(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	days := WeekDays(anchor, []int{0, 6})
	if len(days) != 2 {
		t.Fatalf("ожидалось 2 дня, получено %d", len(days))
	}
	// Неделя начинается с понедельника: суббота идёт раньше воскресенья.
	if days[0].Weekday() != time.Saturday || days[1].Weekday() != time.Sunday {
		t.Errorf("неверный порядок выходных: %s, %s", days[0].Weekday(), days[1].Weekday())
	}
}
