package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/repository"
)

type SettingsServiceImpl struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Get возвращает документ настроек с заполненными значениями по умолчанию.
// Отсутствие документа не ошибка: календарь без настроек работает
// по умолчанию (09:00–17:00, будние дни).
func (s *SettingsServiceImpl) Get(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx, orgID, calendarID)
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

// Update читает документ целиком, накладывает переданные поля и
// записывает документ обратно. Поля, не указанные в DTO, сохраняются.
func (s *SettingsServiceImpl) Update(ctx context.Context, orgID, calendarID int64, dto domain.UpdateSettingsDTO) (*domain.Settings, error) {
	settings, err := s.Get(ctx, orgID, calendarID)
	if err != nil {
		return nil, err
	}

	if dto.WorkingHours != nil {
		settings.WorkingHours = dto.WorkingHours
	}
	if dto.WorkingDays != nil {
		settings.WorkingDays = *dto.WorkingDays
	}
	if dto.BlockedSlots != nil {
		settings.BlockedSlots = *dto.BlockedSlots
	}
	if dto.CalendarSync != nil {
		settings.CalendarSync = *dto.CalendarSync
	}

	settings.UpdatedAt = time.Now()

	err = s.repo.Upsert(ctx, *settings)
	if err != nil {
		s.logger.Error("ошибка сохранения настроек", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("ошибка при сохранении настроек")
	}

	settings.Normalize()

	return settings, nil
}
