package service

import (
	"context"
	"errors"
	"time"

	"zapis/internal/domain"
)

// Заглушки репозиториев для тестов сервисного слоя.

type settingsRepoStub struct {
	doc       *domain.Settings
	getErr    error
	upsertErr error
	saved     []domain.Settings
}

func (s *settingsRepoStub) Get(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.doc == nil {
		return nil, nil
	}
	copied := *s.doc
	return &copied, nil
}

func (s *settingsRepoStub) Upsert(ctx context.Context, settings domain.Settings) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.saved = append(s.saved, settings)
	copied := settings
	s.doc = &copied
	return nil
}

type appointmentRepoStub struct {
	appointments []domain.Appointment
	updated      map[int64]domain.UpdateAppointmentDTO
	expired      int64
}

func (a *appointmentRepoStub) Create(ctx context.Context, appointment domain.Appointment) (int64, error) {
	appointment.ID = int64(len(a.appointments) + 1)
	a.appointments = append(a.appointments, appointment)
	return appointment.ID, nil
}

func (a *appointmentRepoStub) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	for i := range a.appointments {
		if a.appointments[i].ID == id {
			copied := a.appointments[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (a *appointmentRepoStub) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	if a.updated == nil {
		a.updated = make(map[int64]domain.UpdateAppointmentDTO)
	}
	a.updated[id] = dto
	for i := range a.appointments {
		if a.appointments[i].ID == id {
			if dto.Status != nil {
				a.appointments[i].Status = *dto.Status
			}
			if dto.ProviderEventID != nil {
				a.appointments[i].ProviderEventID = *dto.ProviderEventID
			}
		}
	}
	return nil
}

func (a *appointmentRepoStub) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, appt := range a.appointments {
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (a *appointmentRepoStub) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, _ := a.List(ctx, filter)
	return len(list), nil
}

func (a *appointmentRepoStub) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	return a.expired, nil
}

type timeSlotRepoStub struct {
	slots     []domain.TimeSlot
	batch     []domain.TimeSlot
	statuses  map[int64]domain.SlotStatus
	createErr error
}

func (t *timeSlotRepoStub) Create(ctx context.Context, slot domain.TimeSlot) (int64, error) {
	if t.createErr != nil {
		return 0, t.createErr
	}
	slot.ID = int64(len(t.slots) + 1)
	t.slots = append(t.slots, slot)
	return slot.ID, nil
}

func (t *timeSlotRepoStub) CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error) {
	if t.createErr != nil {
		return 0, t.createErr
	}
	t.batch = append(t.batch, slots...)
	return len(slots), nil
}

func (t *timeSlotRepoStub) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	for i := range t.slots {
		if t.slots[i].ID == id {
			copied := t.slots[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (t *timeSlotRepoStub) GetByDateTime(ctx context.Context, orgID, calendarID int64, date, timeLabel string) (*domain.TimeSlot, error) {
	for i := range t.slots {
		s := t.slots[i]
		if s.OrgID == orgID && s.CalendarID == calendarID && s.Date == date && s.Time == timeLabel {
			copied := s
			return &copied, nil
		}
	}
	return nil, nil
}

func (t *timeSlotRepoStub) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error {
	if t.statuses == nil {
		t.statuses = make(map[int64]domain.SlotStatus)
	}
	t.statuses[id] = status
	for i := range t.slots {
		if t.slots[i].ID == id {
			t.slots[i].Status = status
		}
	}
	return nil
}

func (t *timeSlotRepoStub) Delete(ctx context.Context, id int64) error {
	return nil
}

func (t *timeSlotRepoStub) List(ctx context.Context, filter domain.TimeSlotFilter) ([]domain.TimeSlot, error) {
	return append([]domain.TimeSlot(nil), t.slots...), nil
}

func (t *timeSlotRepoStub) CountByFilter(ctx context.Context, filter domain.TimeSlotFilter) (int, error) {
	return len(t.slots), nil
}

var errStub = errors.New("ошибка заглушки")
