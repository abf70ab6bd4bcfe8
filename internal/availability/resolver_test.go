package availability

import (
	"testing"
	"time"

	"zapis/internal/domain"
)

var testNow = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

func TestResolve_PriorityOrder(t *testing.T) {
	confirmed := domain.Appointment{
		Status: domain.AppointmentStatusConfirmed,
		Date:   "2025-01-09",
		Time:   "10:00",
	}
	event := domain.CalendarEvent{
		StartTime: "2025-01-09T10:00:00Z",
		EndTime:   "2025-01-09T10:30:00Z",
	}
	block := domain.BlockedSlot{StartTime: "10:00", EndTime: "11:00"}
	oneOff := domain.OneOffSlot{Date: "2025-01-09", Time: "10:00"}

	tests := []struct {
		name string
		date string
		in   ResolveInput
		want SlotState
	}{
		{
			name: "прошедшая дата доминирует над календарем",
			date: "2025-01-07",
			in: ResolveInput{
				Now: testNow,
				Events: []domain.CalendarEvent{{
					StartTime: "2025-01-07T10:00:00Z",
					EndTime:   "2025-01-07T10:30:00Z",
				}},
			},
			want: StatePast,
		},
		{
			name: "календарь доминирует над блокировкой и бронью",
			date: "2025-01-09",
			in: ResolveInput{
				Now:          testNow,
				Events:       []domain.CalendarEvent{event},
				BlockedSlots: []domain.BlockedSlot{block},
				Appointments: []domain.Appointment{confirmed},
				OneOffSlots:  []domain.OneOffSlot{oneOff},
			},
			want: StateCalendarBlocked,
		},
		{
			name: "блокировка доминирует над бронью",
			date: "2025-01-09",
			in: ResolveInput{
				Now:          testNow,
				BlockedSlots: []domain.BlockedSlot{block},
				Appointments: []domain.Appointment{confirmed},
				OneOffSlots:  []domain.OneOffSlot{oneOff},
			},
			want: StateBlocked,
		},
		{
			name: "бронь доминирует над точечной отметкой",
			date: "2025-01-09",
			in: ResolveInput{
				Now:          testNow,
				Appointments: []domain.Appointment{confirmed},
				OneOffSlots:  []domain.OneOffSlot{oneOff},
			},
			want: StateBooked,
		},
		{
			name: "точечная отметка",
			date: "2025-01-09",
			in: ResolveInput{
				Now:         testNow,
				OneOffSlots: []domain.OneOffSlot{oneOff},
			},
			want: StateUnavailable,
		},
		{
			name: "свободный слот",
			date: "2025-01-09",
			in:   ResolveInput{Now: testNow},
			want: StateAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.date, "10:00", tt.in)
			if got.State != tt.want {
				t.Errorf("ожидался статус %s, получен %s", tt.want, got.State)
			}
		})
	}
}

func TestResolve_FacetsExposeUnion(t *testing.T) {
	in := ResolveInput{
		Now: testNow,
		BlockedSlots: []domain.BlockedSlot{
			{StartTime: "10:00", EndTime: "11:00"},
		},
		OneOffSlots: []domain.OneOffSlot{
			{Date: "2025-01-09", Time: "10:00"},
		},
	}

	got := Resolve("2025-01-09", "10:00", in)
	if got.State != StateBlocked {
		t.Fatalf("ожидался статус blocked, получен %s", got.State)
	}
	if !got.IsBlocked || !got.IsUnavailable {
		t.Errorf("оба признака должны быть выставлены: is_blocked=%v is_unavailable=%v", got.IsBlocked, got.IsUnavailable)
	}
	if got.IsAvailable {
		t.Error("is_available не должен быть выставлен")
	}
}

func TestResolve_CalendarOverlap(t *testing.T) {
	tests := []struct {
		name    string
		event   domain.CalendarEvent
		blocked bool
	}{
		{
			name:    "точное совпадение",
			event:   domain.CalendarEvent{StartTime: "2025-01-09T10:00:00Z", EndTime: "2025-01-09T10:30:00Z"},
			blocked: true,
		},
		{
			name:    "частичное перекрытие с конца",
			event:   domain.CalendarEvent{StartTime: "2025-01-09T10:15:00Z", EndTime: "2025-01-09T11:00:00Z"},
			blocked: true,
		},
		{
			name:    "частичное перекрытие с начала",
			event:   domain.CalendarEvent{StartTime: "2025-01-09T09:45:00Z", EndTime: "2025-01-09T10:15:00Z"},
			blocked: true,
		},
		{
			name:    "смежное событие после (полуинтервал)",
			event:   domain.CalendarEvent{StartTime: "2025-01-09T10:30:00Z", EndTime: "2025-01-09T11:00:00Z"},
			blocked: false,
		},
		{
			name:    "смежное событие до (полуинтервал)",
			event:   domain.CalendarEvent{StartTime: "2025-01-09T09:30:00Z", EndTime: "2025-01-09T10:00:00Z"},
			blocked: false,
		},
		{
			name:    "другой день",
			event:   domain.CalendarEvent{StartTime: "2025-01-10T10:00:00Z", EndTime: "2025-01-10T10:30:00Z"},
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ResolveInput{Now: testNow, Events: []domain.CalendarEvent{tt.event}}
			got := Resolve("2025-01-09", "10:00", in)
			if got.IsCalendarBlocked != tt.blocked {
				t.Errorf("ожидалось is_calendar_blocked=%v, получено %v", tt.blocked, got.IsCalendarBlocked)
			}
		})
	}
}

func TestResolve_AllDayEventBlocksWholeDay(t *testing.T) {
	in := ResolveInput{
		Now: testNow,
		Events: []domain.CalendarEvent{
			{StartTime: "2025-01-10", EndTime: "2025-01-10", IsAllDay: true},
		},
	}

	for _, label := range []string{"00:00", "09:00", "12:30", "16:30", "23:30"} {
		got := Resolve("2025-01-10", label, in)
		if got.State != StateCalendarBlocked {
			t.Errorf("метка %s: ожидался calendar_blocked, получен %s", label, got.State)
		}
	}

	// Соседний день событие не задевает.
	if got := Resolve("2025-01-11", "09:00", in); got.IsCalendarBlocked {
		t.Error("событие на весь день не должно блокировать соседнюю дату")
	}
}

func TestResolve_RecurringBlock(t *testing.T) {
	tests := []struct {
		name    string
		block   domain.BlockedSlot
		date    string
		label   string
		blocked bool
	}{
		{
			name:    "ежедневная блокировка без даты",
			block:   domain.BlockedSlot{StartTime: "13:00", EndTime: "14:00", Label: "обед"},
			date:    "2025-01-09",
			label:   "13:30",
			blocked: true,
		},
		{
			name:    "блокировка с датой в свою дату",
			block:   domain.BlockedSlot{StartTime: "13:00", EndTime: "14:00", Date: "2025-01-09"},
			date:    "2025-01-09",
			label:   "13:00",
			blocked: true,
		},
		{
			name:    "блокировка с датой в чужую дату",
			block:   domain.BlockedSlot{StartTime: "13:00", EndTime: "14:00", Date: "2025-01-09"},
			date:    "2025-01-10",
			label:   "13:00",
			blocked: false,
		},
		{
			name:    "конец полуинтервала не включается",
			block:   domain.BlockedSlot{StartTime: "13:00", EndTime: "14:00"},
			date:    "2025-01-09",
			label:   "14:00",
			blocked: false,
		},
		{
			name:    "начало полуинтервала включается",
			block:   domain.BlockedSlot{StartTime: "13:00", EndTime: "14:00"},
			date:    "2025-01-09",
			label:   "13:00",
			blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ResolveInput{Now: testNow, BlockedSlots: []domain.BlockedSlot{tt.block}}
			got := Resolve(tt.date, tt.label, in)
			if got.IsBlocked != tt.blocked {
				t.Errorf("ожидалось is_blocked=%v, получено %v", tt.blocked, got.IsBlocked)
			}
		})
	}
}

func TestResolve_OnlyConfirmedAppointmentsBook(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.AppointmentStatusPending,
		domain.AppointmentStatusCancelled,
	} {
		in := ResolveInput{
			Now: testNow,
			Appointments: []domain.Appointment{
				{Status: status, Date: "2025-01-09", Time: "10:00"},
			},
		}
		got := Resolve("2025-01-09", "10:00", in)
		if got.IsBooked {
			t.Errorf("статус %s не должен бронировать слот", status)
		}
	}
}

func TestDayFullyUnavailable(t *testing.T) {
	labels := []string{"09:00", "09:30", "10:00"}

	tests := []struct {
		name   string
		oneOff []domain.OneOffSlot
		want   bool
	}{
		{
			name: "все метки отмечены",
			oneOff: []domain.OneOffSlot{
				{Date: "2025-01-09", Time: "09:00"},
				{Date: "2025-01-09", Time: "09:30"},
				{Date: "2025-01-09", Time: "10:00"},
			},
			want: true,
		},
		{
			name: "не хватает одной метки",
			oneOff: []domain.OneOffSlot{
				{Date: "2025-01-09", Time: "09:00"},
				{Date: "2025-01-09", Time: "09:30"},
			},
			want: false,
		},
		{
			name: "отметки чужой даты не считаются",
			oneOff: []domain.OneOffSlot{
				{Date: "2025-01-10", Time: "09:00"},
				{Date: "2025-01-10", Time: "09:30"},
				{Date: "2025-01-10", Time: "10:00"},
			},
			want: false,
		},
		{name: "пустой слой", oneOff: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayFullyUnavailable("2025-01-09", labels, tt.oneOff); got != tt.want {
				t.Errorf("ожидалось %v, получено %v", tt.want, got)
			}
		})
	}
}

func TestDayFullyUnavailable_EmptyGrid(t *testing.T) {
	if DayFullyUnavailable("2025-01-09", nil, nil) {
		t.Error("день без сетки не считается полностью закрытым")
	}
}
