package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"zapis/internal/availability"
	"zapis/internal/domain"
	"zapis/internal/repository"
)

type AvailabilityServiceImpl struct {
	settingsRepo    repository.SettingsRepository
	appointmentRepo repository.AppointmentRepository
	timeSlotRepo    repository.TimeSlotRepository
	calendars       CalendarService
	logger          *zap.Logger
}

func NewAvailabilityService(
	settingsRepo repository.SettingsRepository,
	appointmentRepo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	calendars CalendarService,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		settingsRepo:    settingsRepo,
		appointmentRepo: appointmentRepo,
		timeSlotRepo:    timeSlotRepo,
		calendars:       calendars,
		logger:          logger,
	}
}

// WeekGrid собирает недельную сетку для пары (организация, календарь):
// настройки, подтверждённые записи недели и, если включено отображение
// занятости, события внешних календарей. Сбой синхронизации не роняет
// сетку — события просто не накладываются.
func (s *AvailabilityServiceImpl) WeekGrid(ctx context.Context, orgID, calendarID int64, anchor time.Time) (*availability.WeekGrid, error) {
	settings, err := s.loadSettings(ctx, orgID, calendarID)
	if err != nil {
		return nil, err
	}

	weekStart := availability.WeekStart(anchor)
	weekEnd := weekStart.AddDate(0, 0, 7)

	status := domain.AppointmentStatusConfirmed
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		OrgID:      &orgID,
		CalendarID: &calendarID,
		Status:     &status,
		StartDate:  &weekStart,
		EndDate:    &weekEnd,
	})
	if err != nil {
		s.logger.Error("ошибка получения записей недели", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при построении сетки доступности")
	}

	var events []domain.CalendarEvent
	if settings.CalendarSync.ShowBusyTimes {
		events, err = s.calendars.EventsForWeek(ctx, orgID, calendarID, weekStart, weekEnd)
		if err != nil {
			s.logger.Warn("ошибка получения событий внешнего календаря", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
			events = nil
		}
	}

	grid := availability.BuildWeekGrid(anchor, *settings, availability.ResolveInput{
		Now:          time.Now().UTC(),
		Appointments: appointments,
		Events:       events,
	})

	return &grid, nil
}

// ToggleSlot переключает точечную отметку недоступности для ячейки.
// Ячейку с подтверждённой записью переключить нельзя: сначала запись
// нужно отменить. Настройки читаются и записываются целиком.
func (s *AvailabilityServiceImpl) ToggleSlot(ctx context.Context, orgID, calendarID int64, dto domain.ToggleSlotDTO) (*domain.Settings, error) {
	booked, err := s.hasConfirmedAppointment(ctx, orgID, calendarID, dto.Date, dto.Time)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrSlotHasAppointment
	}

	settings, err := s.loadSettings(ctx, orgID, calendarID)
	if err != nil {
		return nil, err
	}

	overlay, added := availability.ToggleSlot(settings.OneOffSlots, dto.Date, dto.Time)
	settings.OneOffSlots = overlay
	settings.UpdatedAt = time.Now()

	if err := s.settingsRepo.Upsert(ctx, *settings); err != nil {
		s.logger.Error("ошибка сохранения настроек при переключении слота", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при переключении слота")
	}

	s.logger.Info("слот переключён",
		zap.Int64("orgId", orgID),
		zap.Int64("calendarId", calendarID),
		zap.String("date", dto.Date),
		zap.String("time", dto.Time),
		zap.Bool("unavailable", added),
	)

	return settings, nil
}

// ToggleDay переключает день целиком: полностью недоступный день
// становится доступным, любой другой — полностью недоступным.
func (s *AvailabilityServiceImpl) ToggleDay(ctx context.Context, orgID, calendarID int64, dto domain.ToggleDayDTO) (*domain.Settings, error) {
	settings, err := s.loadSettings(ctx, orgID, calendarID)
	if err != nil {
		return nil, err
	}

	labels := availability.TimeLabels(*settings.WorkingHours)
	if len(labels) == 0 {
		return nil, errors.New("рабочие часы календаря не заданы")
	}

	overlay, disabled := availability.ToggleDay(settings.OneOffSlots, dto.Date, labels)
	settings.OneOffSlots = overlay
	settings.UpdatedAt = time.Now()

	if err := s.settingsRepo.Upsert(ctx, *settings); err != nil {
		s.logger.Error("ошибка сохранения настроек при переключении дня", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при переключении дня")
	}

	s.logger.Info("день переключён",
		zap.Int64("orgId", orgID),
		zap.Int64("calendarId", calendarID),
		zap.String("date", dto.Date),
		zap.Bool("unavailable", disabled),
	)

	return settings, nil
}

// ListBookable возвращает свободные слоты в границах таймфрейма,
// отсортированные по дате и времени.
func (s *AvailabilityServiceImpl) ListBookable(ctx context.Context, orgID, calendarID int64, timeframe domain.Timeframe) ([]domain.TimeSlot, error) {
	slots, err := s.timeSlotRepo.List(ctx, domain.TimeSlotFilter{
		OrgID:      &orgID,
		CalendarID: &calendarID,
	})
	if err != nil {
		s.logger.Error("ошибка получения слотов", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при получении свободных слотов")
	}

	return availability.FilterBookable(slots, timeframe, time.Now().UTC()), nil
}

func (s *AvailabilityServiceImpl) loadSettings(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, orgID, calendarID)
	if err != nil {
		s.logger.Error("ошибка получения настроек", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при получении настроек")
	}

	if settings == nil {
		settings = &domain.Settings{OrgID: orgID, CalendarID: calendarID}
	}

	settings.Normalize()

	return settings, nil
}

func (s *AvailabilityServiceImpl) hasConfirmedAppointment(ctx context.Context, orgID, calendarID int64, date, timeLabel string) (bool, error) {
	status := domain.AppointmentStatusConfirmed
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		OrgID:      &orgID,
		CalendarID: &calendarID,
		Status:     &status,
	})
	if err != nil {
		s.logger.Error("ошибка проверки записей на слот", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return false, errors.New("ошибка при переключении слота")
	}

	for _, a := range appointments {
		if a.Date == date && a.Time == timeLabel {
			return true, nil
		}
	}

	return false, nil
}
