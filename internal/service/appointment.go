package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
	"zapis/internal/repository"
)

type AppointmentServiceImpl struct {
	repo          repository.AppointmentRepository
	timeSlotRepo  repository.TimeSlotRepository
	settingsRepo  repository.SettingsRepository
	calendars     CalendarService
	bookingConfig config.BookingConfig
	logger        *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	settingsRepo repository.SettingsRepository,
	calendars CalendarService,
	bookingConfig config.BookingConfig,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:          repo,
		timeSlotRepo:  timeSlotRepo,
		settingsRepo:  settingsRepo,
		calendars:     calendars,
		bookingConfig: bookingConfig,
		logger:        logger,
	}
}

// Book создаёт ожидающую запись на свободный слот. Запись живёт
// ограниченное время и отменяется, если её не подтвердили.
func (s *AppointmentServiceImpl) Book(ctx context.Context, orgID, calendarID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	slot, err := s.timeSlotRepo.GetByID(ctx, dto.SlotID)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Int64("slotId", dto.SlotID), zap.Error(err))
		return 0, errors.New("слот не найден")
	}
	if slot == nil || slot.OrgID != orgID || slot.CalendarID != calendarID {
		return 0, errors.New("слот не найден")
	}

	if !slot.Bookable() {
		return 0, ErrSlotUnavailable
	}

	appointmentDate, err := time.Parse("2006-01-02 15:04", slot.Date+" "+slot.Time)
	if err != nil {
		s.logger.Error("некорректные дата или время слота", zap.Int64("slotId", slot.ID), zap.Error(err))
		return 0, ErrSlotUnavailable
	}

	now := time.Now()
	appointment := domain.Appointment{
		OrgID:           orgID,
		CalendarID:      calendarID,
		SlotID:          slot.ID,
		Email:           dto.Email,
		Location:        dto.Location,
		Status:          domain.AppointmentStatusPending,
		AppointmentDate: appointmentDate,
		Date:            slot.Date,
		Time:            slot.Time,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.bookingConfig.PendingTTL),
	}

	id, err := s.repo.Create(ctx, appointment)
	if err != nil {
		s.logger.Error("ошибка создания записи", zap.Int64("slotId", slot.ID), zap.Error(err))
		return 0, errors.New("ошибка при создании записи")
	}

	s.logger.Info("создана ожидающая запись",
		zap.Int64("appointmentId", id),
		zap.Int64("slotId", slot.ID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time),
	)

	return id, nil
}

// Confirm подтверждает ожидающую запись: слот помечается занятым,
// и при включённой настройке в внешнем календаре создаётся событие.
// Сбой синхронизации не отменяет подтверждение.
func (s *AppointmentServiceImpl) Confirm(ctx context.Context, id int64) error {
	appointment, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status != domain.AppointmentStatusPending {
		return errors.New("подтвердить можно только ожидающую запись")
	}

	if time.Now().After(appointment.ExpiresAt) {
		return errors.New("время на подтверждение записи истекло")
	}

	// Слот могли занять через другую ожидающую запись.
	slot, err := s.timeSlotRepo.GetByID(ctx, appointment.SlotID)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Int64("slotId", appointment.SlotID), zap.Error(err))
		return errors.New("ошибка при подтверждении записи")
	}
	if slot != nil && slot.Status == domain.SlotStatusBooked {
		return ErrSlotAlreadyBooked
	}

	confirmed := domain.AppointmentStatusConfirmed
	err = s.repo.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &confirmed})
	if err != nil {
		s.logger.Error("ошибка подтверждения записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при подтверждении записи")
	}

	err = s.timeSlotRepo.UpdateStatus(ctx, appointment.SlotID, domain.SlotStatusBooked)
	if err != nil {
		s.logger.Error("ошибка пометки слота занятым", zap.Int64("slotId", appointment.SlotID), zap.Error(err))
	}

	settings, err := s.settingsRepo.Get(ctx, appointment.OrgID, appointment.CalendarID)
	if err != nil {
		s.logger.Warn("ошибка получения настроек при подтверждении", zap.Int64("id", id), zap.Error(err))
		return nil
	}

	if settings != nil && settings.CalendarSync.AutoCreateEvents {
		eventID, err := s.calendars.CreateEvent(ctx, appointment.OrgID, appointment.CalendarID, *appointment)
		if err != nil {
			s.logger.Warn("ошибка создания события во внешнем календаре", zap.Int64("id", id), zap.Error(err))
			return nil
		}

		err = s.repo.Update(ctx, id, domain.UpdateAppointmentDTO{ProviderEventID: &eventID})
		if err != nil {
			s.logger.Warn("ошибка сохранения идентификатора события", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

// Cancel отменяет запись и освобождает слот. Если при подтверждении
// было создано событие во внешнем календаре и включена синхронизация
// отмен, событие удаляется.
func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	appointment, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status == domain.AppointmentStatusCancelled {
		return errors.New("запись уже отменена")
	}

	wasConfirmed := appointment.Status == domain.AppointmentStatusConfirmed

	cancelled := domain.AppointmentStatusCancelled
	err = s.repo.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &cancelled})
	if err != nil {
		s.logger.Error("ошибка отмены записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при отмене записи")
	}

	if wasConfirmed {
		err = s.timeSlotRepo.UpdateStatus(ctx, appointment.SlotID, domain.SlotStatusAvailable)
		if err != nil {
			s.logger.Error("ошибка освобождения слота", zap.Int64("slotId", appointment.SlotID), zap.Error(err))
		}
	}

	if appointment.ProviderEventID != "" {
		settings, err := s.settingsRepo.Get(ctx, appointment.OrgID, appointment.CalendarID)
		if err != nil {
			s.logger.Warn("ошибка получения настроек при отмене", zap.Int64("id", id), zap.Error(err))
			return nil
		}

		if settings != nil && settings.CalendarSync.SyncCancellations {
			err = s.calendars.DeleteEvent(ctx, appointment.OrgID, appointment.CalendarID, appointment.ProviderEventID)
			if err != nil {
				s.logger.Warn("ошибка удаления события из внешнего календаря", zap.Int64("id", id), zap.Error(err))
			}
		}
	}

	return nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.getExisting(ctx, id)
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	_, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Update(ctx, id, dto)
	if err != nil {
		s.logger.Error("ошибка обновления записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении записи")
	}

	return nil
}

// List сначала отменяет просроченные ожидающие записи, затем возвращает
// страницу по фильтру. Фоновых задач нет, просрочка обрабатывается лениво.
func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	expired, err := s.repo.ExpirePending(ctx, time.Now())
	if err != nil {
		s.logger.Warn("ошибка отмены просроченных записей", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("отменены просроченные записи", zap.Int64("count", expired))
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка записей")
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчёта записей", zap.Error(err))
		return nil, 0, errors.New("ошибка при получении списка записей")
	}

	return appointments, total, nil
}

func (s *AppointmentServiceImpl) getExisting(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("запись не найдена")
	}
	if appointment == nil {
		return nil, errors.New("запись не найдена")
	}

	return appointment, nil
}
