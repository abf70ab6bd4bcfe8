package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/repository"
	"zapis/internal/storage"
)

type OrganizationServiceImpl struct {
	repo        repository.OrganizationRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewOrganizationService(repo repository.OrganizationRepository, fileStorage storage.FileStorage, logger *zap.Logger) *OrganizationServiceImpl {
	return &OrganizationServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *OrganizationServiceImpl) Create(ctx context.Context, ownerID int64, dto domain.CreateOrganizationDTO) (int64, error) {
	existing, err := s.repo.GetBySlug(ctx, dto.Slug)
	if err == nil && existing != nil {
		return 0, errors.New("организация с таким slug уже существует")
	}

	id, err := s.repo.Create(ctx, ownerID, dto)
	if err != nil {
		s.logger.Error("ошибка создания организации", zap.Error(err))
		return 0, errors.New("ошибка при создании организации")
	}

	return id, nil
}

func (s *OrganizationServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения организации", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("организация не найдена")
	}
	if org == nil {
		return nil, errors.New("организация не найдена")
	}

	return org, nil
}

func (s *OrganizationServiceImpl) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	org, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("ошибка получения организации по slug", zap.String("slug", slug), zap.Error(err))
		return nil, errors.New("организация не найдена")
	}
	if org == nil {
		return nil, errors.New("организация не найдена")
	}

	return org, nil
}

func (s *OrganizationServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateOrganizationDTO) error {
	_, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if dto.Slug != nil {
		existing, err := s.repo.GetBySlug(ctx, *dto.Slug)
		if err == nil && existing != nil && existing.ID != id {
			return errors.New("организация с таким slug уже существует")
		}
	}

	err = s.repo.Update(ctx, id, dto)
	if err != nil {
		s.logger.Error("ошибка обновления организации", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении организации")
	}

	return nil
}

func (s *OrganizationServiceImpl) Delete(ctx context.Context, id int64) error {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if org.LogoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, org.LogoURL); err != nil {
			s.logger.Warn("ошибка удаления логотипа при удалении организации", zap.Int64("id", id), zap.Error(err))
		}
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления организации", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении организации")
	}

	return nil
}

func (s *OrganizationServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	orgs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка организаций", zap.Error(err))
		return nil, errors.New("ошибка при получении списка организаций")
	}

	return orgs, nil
}

func (s *OrganizationServiceImpl) UploadLogo(ctx context.Context, orgID int64, data []byte, filename string) (string, error) {
	org, err := s.GetByID(ctx, orgID)
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.UploadFile(ctx, data, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки логотипа", zap.Int64("orgId", orgID), zap.Error(err))
		return "", errors.New("ошибка при загрузке логотипа")
	}

	if org.LogoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, org.LogoURL); err != nil {
			s.logger.Warn("ошибка удаления старого логотипа", zap.Int64("orgId", orgID), zap.Error(err))
		}
	}

	err = s.repo.UpdateLogo(ctx, orgID, url)
	if err != nil {
		s.logger.Error("ошибка сохранения URL логотипа", zap.Int64("orgId", orgID), zap.Error(err))
		return "", errors.New("ошибка при загрузке логотипа")
	}

	return url, nil
}

func (s *OrganizationServiceImpl) DeleteLogo(ctx context.Context, orgID int64) error {
	org, err := s.GetByID(ctx, orgID)
	if err != nil {
		return err
	}

	if org.LogoURL == "" {
		return nil
	}

	if err := s.fileStorage.DeleteFile(ctx, org.LogoURL); err != nil {
		s.logger.Warn("ошибка удаления логотипа", zap.Int64("orgId", orgID), zap.Error(err))
	}

	err = s.repo.UpdateLogo(ctx, orgID, "")
	if err != nil {
		s.logger.Error("ошибка очистки URL логотипа", zap.Int64("orgId", orgID), zap.Error(err))
		return errors.New("ошибка при удалении логотипа")
	}

	return nil
}

func (s *OrganizationServiceImpl) CreateCalendar(ctx context.Context, orgID int64, dto domain.CreateCalendarDTO) (int64, error) {
	_, err := s.GetByID(ctx, orgID)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateCalendar(ctx, orgID, dto)
	if err != nil {
		s.logger.Error("ошибка создания календаря", zap.Int64("orgId", orgID), zap.Error(err))
		return 0, errors.New("ошибка при создании календаря")
	}

	return id, nil
}

func (s *OrganizationServiceImpl) GetCalendarByID(ctx context.Context, orgID, calendarID int64) (*domain.Calendar, error) {
	calendar, err := s.repo.GetCalendarByID(ctx, orgID, calendarID)
	if err != nil {
		s.logger.Error("ошибка получения календаря", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return nil, errors.New("календарь не найден")
	}
	if calendar == nil {
		return nil, errors.New("календарь не найден")
	}

	return calendar, nil
}

func (s *OrganizationServiceImpl) ListCalendars(ctx context.Context, orgID int64) ([]domain.Calendar, error) {
	calendars, err := s.repo.ListCalendars(ctx, orgID)
	if err != nil {
		s.logger.Error("ошибка получения списка календарей", zap.Int64("orgId", orgID), zap.Error(err))
		return nil, errors.New("ошибка при получении списка календарей")
	}

	return calendars, nil
}

func (s *OrganizationServiceImpl) DeleteCalendar(ctx context.Context, orgID, calendarID int64) error {
	_, err := s.GetCalendarByID(ctx, orgID, calendarID)
	if err != nil {
		return err
	}

	err = s.repo.DeleteCalendar(ctx, orgID, calendarID)
	if err != nil {
		s.logger.Error("ошибка удаления календаря", zap.Int64("orgId", orgID), zap.Int64("calendarId", calendarID), zap.Error(err))
		return errors.New("ошибка при удалении календаря")
	}

	return nil
}
