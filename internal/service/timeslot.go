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

type TimeSlotServiceImpl struct {
	repo         repository.TimeSlotRepository
	settingsRepo repository.SettingsRepository
	logger       *zap.Logger
}

func NewTimeSlotService(repo repository.TimeSlotRepository, settingsRepo repository.SettingsRepository, logger *zap.Logger) *TimeSlotServiceImpl {
	return &TimeSlotServiceImpl{
		repo:         repo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

func (s *TimeSlotServiceImpl) Create(ctx context.Context, orgID, calendarID int64, dto domain.CreateTimeSlotDTO) (int64, error) {
	existing, err := s.repo.GetByDateTime(ctx, orgID, calendarID, dto.Date, dto.Time)
	if err == nil && existing != nil {
		return 0, errors.New("слот на это время уже существует")
	}

	status := dto.Status
	if status == "" {
		status = domain.SlotStatusAvailable
	}

	id, err := s.repo.Create(ctx, domain.TimeSlot{
		OrgID:      orgID,
		CalendarID: calendarID,
		Date:       dto.Date,
		Time:       dto.Time,
		Status:     status,
	})
	if err != nil {
		s.logger.Error("ошибка создания слота", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return 0, errors.New("ошибка при создании слота")
	}

	return id, nil
}

// Seed массово создаёт свободные слоты на диапазон дат по рабочим часам
// и рабочим дням календаря. Уже существующие слоты не затираются.
func (s *TimeSlotServiceImpl) Seed(ctx context.Context, orgID, calendarID int64, dto domain.SeedTimeSlotsDTO) (int, error) {
	startDate, err := time.Parse("2006-01-02", dto.StartDate)
	if err != nil {
		return 0, errors.New("некорректная начальная дата")
	}

	endDate, err := time.Parse("2006-01-02", dto.EndDate)
	if err != nil {
		return 0, errors.New("некорректная конечная дата")
	}

	if endDate.Before(startDate) {
		return 0, errors.New("конечная дата раньше начальной")
	}

	settings, err := s.settingsRepo.Get(ctx, orgID, calendarID)
	if err != nil {
		s.logger.Error("ошибка получения настроек", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return 0, errors.New("ошибка при создании слотов")
	}
	if settings == nil {
		settings = &domain.Settings{OrgID: orgID, CalendarID: calendarID}
	}
	settings.Normalize()

	labels := availability.TimeLabels(*settings.WorkingHours)
	if len(labels) == 0 {
		return 0, errors.New("рабочие часы календаря не заданы")
	}

	workingDays := make(map[int]bool, len(settings.WorkingDays))
	for _, d := range settings.WorkingDays {
		workingDays[d] = true
	}

	var slots []domain.TimeSlot
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		// нумерация дней недели: воскресенье = 0, как в time.Weekday
		if !workingDays[int(day.Weekday())] {
			continue
		}

		date := day.Format("2006-01-02")
		for _, label := range labels {
			slots = append(slots, domain.TimeSlot{
				OrgID:      orgID,
				CalendarID: calendarID,
				Date:       date,
				Time:       label,
				Status:     domain.SlotStatusAvailable,
			})
		}
	}

	if len(slots) == 0 {
		return 0, nil
	}

	created, err := s.repo.CreateBatch(ctx, slots)
	if err != nil {
		s.logger.Error("ошибка массового создания слотов", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return 0, errors.New("ошибка при создании слотов")
	}

	s.logger.Info("созданы слоты",
		zap.Int64("orgId", orgID),
		zap.Int64("calendarId", calendarID),
		zap.String("from", dto.StartDate),
		zap.String("to", dto.EndDate),
		zap.Int("count", created),
	)

	return created, nil
}

func (s *TimeSlotServiceImpl) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("слот не найден")
	}
	if slot == nil {
		return nil, errors.New("слот не найден")
	}

	return slot, nil
}

func (s *TimeSlotServiceImpl) UpdateStatus(ctx context.Context, id int64, dto domain.UpdateTimeSlotDTO) error {
	if dto.Status == nil {
		return errors.New("статус не указан")
	}

	_, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.UpdateStatus(ctx, id, *dto.Status)
	if err != nil {
		s.logger.Error("ошибка обновления статуса слота", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении слота")
	}

	return nil
}

func (s *TimeSlotServiceImpl) Delete(ctx context.Context, id int64) error {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if slot.Status == domain.SlotStatusBooked {
		return errors.New("нельзя удалить занятый слот")
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления слота", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении слота")
	}

	return nil
}

func (s *TimeSlotServiceImpl) List(ctx context.Context, filter domain.TimeSlotFilter) ([]domain.TimeSlot, int, error) {
	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка слотов", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка слотов")
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчёта слотов", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка слотов")
	}

	return slots, total, nil
}
