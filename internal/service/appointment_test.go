package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
)

type calendarServiceStub struct {
	createdFor  []int64
	createErr   error
	deleted     []string
	deleteErr   error
	events      []domain.CalendarEvent
	eventsErr   error
	nextEventID string
}

func (c *calendarServiceStub) AuthURL(ctx context.Context, orgID, calendarID int64, provider domain.CalendarProvider) (string, error) {
	return "", nil
}

func (c *calendarServiceStub) HandleCallback(ctx context.Context, state, code string) error {
	return nil
}

func (c *calendarServiceStub) ListConnections(ctx context.Context, orgID, calendarID int64) ([]domain.CalendarConnection, error) {
	return nil, nil
}

func (c *calendarServiceStub) EventsForWeek(ctx context.Context, orgID, calendarID int64, start, end time.Time) ([]domain.CalendarEvent, error) {
	return c.events, c.eventsErr
}

func (c *calendarServiceStub) CreateEvent(ctx context.Context, orgID, calendarID int64, appointment domain.Appointment) (string, error) {
	if c.createErr != nil {
		return "", c.createErr
	}
	c.createdFor = append(c.createdFor, appointment.ID)
	return c.nextEventID, nil
}

func (c *calendarServiceStub) DeleteEvent(ctx context.Context, orgID, calendarID int64, eventID string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, eventID)
	return nil
}

func newAppointmentService(
	appointments *appointmentRepoStub,
	slots *timeSlotRepoStub,
	settings *settingsRepoStub,
	calendars *calendarServiceStub,
) *AppointmentServiceImpl {
	return NewAppointmentService(
		appointments,
		slots,
		settings,
		calendars,
		config.BookingConfig{PendingTTL: 30 * time.Minute},
		zap.NewNop(),
	)
}

func TestBook_CreatesPending(t *testing.T) {
	appointments := &appointmentRepoStub{}
	slots := &timeSlotRepoStub{
		slots: []domain.TimeSlot{
			{ID: 7, OrgID: 1, CalendarID: 2, Date: "2025-01-10", Time: "10:00"},
		},
	}
	svc := newAppointmentService(appointments, slots, &settingsRepoStub{}, &calendarServiceStub{})

	id, err := svc.Book(context.Background(), 1, 2, domain.CreateAppointmentDTO{
		SlotID: 7,
		Email:  "client@example.com",
		Location: domain.LocationDetails{
			Type: domain.LocationTypeVideo,
		},
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if id == 0 {
		t.Fatal("ожидался идентификатор записи")
	}

	created := appointments.appointments[0]
	if created.Status != domain.AppointmentStatusPending {
		t.Errorf("ожидался статус pending, получен %s", created.Status)
	}
	if created.Date != "2025-01-10" || created.Time != "10:00" {
		t.Errorf("неверные дата и время записи: %s %s", created.Date, created.Time)
	}
	if created.ExpiresAt.Sub(created.CreatedAt) != 30*time.Minute {
		t.Errorf("неверный срок подтверждения: %v", created.ExpiresAt.Sub(created.CreatedAt))
	}
}

func TestBook_RejectsUnavailableSlots(t *testing.T) {
	tests := []struct {
		name string
		slot domain.TimeSlot
	}{
		{"занятый слот", domain.TimeSlot{ID: 7, OrgID: 1, CalendarID: 2, Date: "2025-01-10", Time: "10:00", Status: domain.SlotStatusBooked}},
		{"недоступный слот", domain.TimeSlot{ID: 7, OrgID: 1, CalendarID: 2, Date: "2025-01-10", Time: "10:00", Status: domain.SlotStatusUnavailable}},
		{"чужой календарь", domain.TimeSlot{ID: 7, OrgID: 1, CalendarID: 9, Date: "2025-01-10", Time: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := &timeSlotRepoStub{slots: []domain.TimeSlot{tt.slot}}
			svc := newAppointmentService(&appointmentRepoStub{}, slots, &settingsRepoStub{}, &calendarServiceStub{})

			_, err := svc.Book(context.Background(), 1, 2, domain.CreateAppointmentDTO{
				SlotID:   7,
				Email:    "client@example.com",
				Location: domain.LocationDetails{Type: domain.LocationTypeOffice},
			})
			if err == nil {
				t.Error("ожидалась ошибка бронирования")
			}
		})
	}
}

func TestConfirm_BooksSlotAndCreatesEvent(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, OrgID: 1, CalendarID: 2, SlotID: 7, Status: domain.AppointmentStatusPending, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	slots := &timeSlotRepoStub{
		slots: []domain.TimeSlot{{ID: 7, OrgID: 1, CalendarID: 2}},
	}
	settings := &settingsRepoStub{
		doc: &domain.Settings{CalendarSync: domain.CalendarSyncSettings{AutoCreateEvents: true}},
	}
	calendars := &calendarServiceStub{nextEventID: "evt-42"}
	svc := newAppointmentService(appointments, slots, settings, calendars)

	if err := svc.Confirm(context.Background(), 1); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if appointments.appointments[0].Status != domain.AppointmentStatusConfirmed {
		t.Errorf("ожидался статус confirmed, получен %s", appointments.appointments[0].Status)
	}
	if slots.statuses[7] != domain.SlotStatusBooked {
		t.Errorf("слот должен быть помечен занятым, статус %s", slots.statuses[7])
	}
	if len(calendars.createdFor) != 1 {
		t.Fatalf("ожидалось одно событие во внешнем календаре, было %d", len(calendars.createdFor))
	}
	if appointments.appointments[0].ProviderEventID != "evt-42" {
		t.Errorf("идентификатор события не сохранён: %q", appointments.appointments[0].ProviderEventID)
	}
}

func TestConfirm_SlotAlreadyBooked(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, OrgID: 1, CalendarID: 2, SlotID: 7, Status: domain.AppointmentStatusPending, ExpiresAt: time.Now().Add(time.Hour)},
			{ID: 2, OrgID: 1, CalendarID: 2, SlotID: 7, Status: domain.AppointmentStatusPending, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	slots := &timeSlotRepoStub{
		slots: []domain.TimeSlot{{ID: 7, OrgID: 1, CalendarID: 2}},
	}
	svc := newAppointmentService(appointments, slots, &settingsRepoStub{}, &calendarServiceStub{})

	if err := svc.Confirm(context.Background(), 1); err != nil {
		t.Fatalf("неожиданная ошибка первого подтверждения: %v", err)
	}

	err := svc.Confirm(context.Background(), 2)
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("ожидалась ошибка занятого слота, получено %v", err)
	}
	if appointments.appointments[1].Status != domain.AppointmentStatusPending {
		t.Errorf("вторая запись не должна была подтвердиться, статус %s", appointments.appointments[1].Status)
	}
}

func TestBook_UnavailableSlotSentinel(t *testing.T) {
	slots := &timeSlotRepoStub{
		slots: []domain.TimeSlot{
			{ID: 7, OrgID: 1, CalendarID: 2, Date: "2025-01-10", Time: "10:00", Status: domain.SlotStatusBooked},
		},
	}
	svc := newAppointmentService(&appointmentRepoStub{}, slots, &settingsRepoStub{}, &calendarServiceStub{})

	_, err := svc.Book(context.Background(), 1, 2, domain.CreateAppointmentDTO{
		SlotID:   7,
		Email:    "client@example.com",
		Location: domain.LocationDetails{Type: domain.LocationTypeOffice},
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("ожидалась ошибка недоступного слота, получено %v", err)
	}
}

func TestConfirm_SyncFailureDoesNotFail(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, OrgID: 1, CalendarID: 2, SlotID: 7, Status: domain.AppointmentStatusPending, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	settings := &settingsRepoStub{
		doc: &domain.Settings{CalendarSync: domain.CalendarSyncSettings{AutoCreateEvents: true}},
	}
	calendars := &calendarServiceStub{createErr: errStub}
	svc := newAppointmentService(appointments, &timeSlotRepoStub{}, settings, calendars)

	if err := svc.Confirm(context.Background(), 1); err != nil {
		t.Fatalf("сбой синхронизации не должен отменять подтверждение: %v", err)
	}
	if appointments.appointments[0].Status != domain.AppointmentStatusConfirmed {
		t.Errorf("запись должна остаться подтверждённой, статус %s", appointments.appointments[0].Status)
	}
}

func TestConfirm_Expired(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, Status: domain.AppointmentStatusPending, ExpiresAt: time.Now().Add(-time.Minute)},
		},
	}
	svc := newAppointmentService(appointments, &timeSlotRepoStub{}, &settingsRepoStub{}, &calendarServiceStub{})

	if err := svc.Confirm(context.Background(), 1); err == nil {
		t.Fatal("ожидалась ошибка просроченной записи")
	}
	if appointments.appointments[0].Status != domain.AppointmentStatusPending {
		t.Errorf("статус не должен был измениться, получен %s", appointments.appointments[0].Status)
	}
}

func TestConfirm_OnlyPending(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, Status: domain.AppointmentStatusConfirmed, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	svc := newAppointmentService(appointments, &timeSlotRepoStub{}, &settingsRepoStub{}, &calendarServiceStub{})

	if err := svc.Confirm(context.Background(), 1); err == nil {
		t.Error("ожидалась ошибка повторного подтверждения")
	}
}

func TestCancel_ReleasesSlotAndDeletesEvent(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, OrgID: 1, CalendarID: 2, SlotID: 7, Status: domain.AppointmentStatusConfirmed, ProviderEventID: "evt-42"},
		},
	}
	slots := &timeSlotRepoStub{
		slots: []domain.TimeSlot{{ID: 7, Status: domain.SlotStatusBooked}},
	}
	settings := &settingsRepoStub{
		doc: &domain.Settings{CalendarSync: domain.CalendarSyncSettings{SyncCancellations: true}},
	}
	calendars := &calendarServiceStub{}
	svc := newAppointmentService(appointments, slots, settings, calendars)

	if err := svc.Cancel(context.Background(), 1); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if appointments.appointments[0].Status != domain.AppointmentStatusCancelled {
		t.Errorf("ожидался статус cancelled, получен %s", appointments.appointments[0].Status)
	}
	if slots.statuses[7] != domain.SlotStatusAvailable {
		t.Errorf("слот должен был освободиться, статус %s", slots.statuses[7])
	}
	if len(calendars.deleted) != 1 || calendars.deleted[0] != "evt-42" {
		t.Errorf("событие должно было удалиться: %v", calendars.deleted)
	}
}

func TestCancel_PendingKeepsSlot(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, SlotID: 7, Status: domain.AppointmentStatusPending},
		},
	}
	slots := &timeSlotRepoStub{}
	svc := newAppointmentService(appointments, slots, &settingsRepoStub{}, &calendarServiceStub{})

	if err := svc.Cancel(context.Background(), 1); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(slots.statuses) != 0 {
		t.Errorf("статус слота не должен был меняться: %v", slots.statuses)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	appointments := &appointmentRepoStub{
		appointments: []domain.Appointment{
			{ID: 1, Status: domain.AppointmentStatusCancelled},
		},
	}
	svc := newAppointmentService(appointments, &timeSlotRepoStub{}, &settingsRepoStub{}, &calendarServiceStub{})

	if err := svc.Cancel(context.Background(), 1); err == nil {
		t.Error("ожидалась ошибка повторной отмены")
	}
}
