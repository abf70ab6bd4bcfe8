package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/availability"
	"zapis/internal/domain"
	"zapis/internal/repository"
	"zapis/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User         UserService
	Auth         AuthService
	Organization OrganizationService
	Settings     SettingsService
	Availability AvailabilityService
	Appointment  AppointmentService
	TimeSlot     TimeSlotService
	Calendar     CalendarService
}

func NewServices(deps Deps) *Services {
	calendarSvc := NewCalendarService(deps.Repos.CalendarConnection, deps.Config, deps.Logger)
	settingsSvc := NewSettingsService(deps.Repos.Settings, deps.Logger)

	return &Services{
		User:         NewUserService(deps.Repos.User, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Organization: NewOrganizationService(deps.Repos.Organization, deps.FileStorage, deps.Logger),
		Settings:     settingsSvc,
		Availability: NewAvailabilityService(deps.Repos.Settings, deps.Repos.Appointment, deps.Repos.TimeSlot, calendarSvc, deps.Logger),
		Appointment:  NewAppointmentService(deps.Repos.Appointment, deps.Repos.TimeSlot, deps.Repos.Settings, calendarSvc, deps.Config.Booking, deps.Logger),
		TimeSlot:     NewTimeSlotService(deps.Repos.TimeSlot, deps.Repos.Settings, deps.Logger),
		Calendar:     calendarSvc,
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type OrganizationService interface {
	Create(ctx context.Context, ownerID int64, dto domain.CreateOrganizationDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	Update(ctx context.Context, id int64, dto domain.UpdateOrganizationDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Organization, error)

	UploadLogo(ctx context.Context, orgID int64, data []byte, filename string) (string, error)
	DeleteLogo(ctx context.Context, orgID int64) error

	CreateCalendar(ctx context.Context, orgID int64, dto domain.CreateCalendarDTO) (int64, error)
	GetCalendarByID(ctx context.Context, orgID, calendarID int64) (*domain.Calendar, error)
	ListCalendars(ctx context.Context, orgID int64) ([]domain.Calendar, error)
	DeleteCalendar(ctx context.Context, orgID, calendarID int64) error
}

type SettingsService interface {
	Get(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error)
	Update(ctx context.Context, orgID, calendarID int64, dto domain.UpdateSettingsDTO) (*domain.Settings, error)
}

type AvailabilityService interface {
	WeekGrid(ctx context.Context, orgID, calendarID int64, anchor time.Time) (*availability.WeekGrid, error)
	ToggleSlot(ctx context.Context, orgID, calendarID int64, dto domain.ToggleSlotDTO) (*domain.Settings, error)
	ToggleDay(ctx context.Context, orgID, calendarID int64, dto domain.ToggleDayDTO) (*domain.Settings, error)
	ListBookable(ctx context.Context, orgID, calendarID int64, timeframe domain.Timeframe) ([]domain.TimeSlot, error)
}

type AppointmentService interface {
	Book(ctx context.Context, orgID, calendarID int64, dto domain.CreateAppointmentDTO) (int64, error)
	Confirm(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

type TimeSlotService interface {
	Create(ctx context.Context, orgID, calendarID int64, dto domain.CreateTimeSlotDTO) (int64, error)
	Seed(ctx context.Context, orgID, calendarID int64, dto domain.SeedTimeSlotsDTO) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	UpdateStatus(ctx context.Context, id int64, dto domain.UpdateTimeSlotDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.TimeSlotFilter) ([]domain.TimeSlot, int, error)
}

type CalendarService interface {
	AuthURL(ctx context.Context, orgID, calendarID int64, provider domain.CalendarProvider) (string, error)
	HandleCallback(ctx context.Context, state, code string) error
	ListConnections(ctx context.Context, orgID, calendarID int64) ([]domain.CalendarConnection, error)
	EventsForWeek(ctx context.Context, orgID, calendarID int64, start, end time.Time) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, orgID, calendarID int64, appointment domain.Appointment) (string, error)
	DeleteEvent(ctx context.Context, orgID, calendarID int64, eventID string) error
}
