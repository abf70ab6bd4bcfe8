package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type Repositories struct {
	User               UserRepository
	Auth               AuthRepository
	Organization       OrganizationRepository
	Settings           SettingsRepository
	Appointment        AppointmentRepository
	TimeSlot           TimeSlotRepository
	CalendarConnection CalendarConnectionRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:               NewUserRepository(db),
		Auth:               NewAuthRepository(db),
		Organization:       NewOrganizationRepository(db),
		Settings:           NewSettingsRepository(db),
		Appointment:        NewAppointmentRepository(db),
		TimeSlot:           NewTimeSlotRepository(db),
		CalendarConnection: NewCalendarConnectionRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, ownerID int64, org domain.CreateOrganizationDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	Update(ctx context.Context, id int64, org domain.UpdateOrganizationDTO) error
	UpdateLogo(ctx context.Context, id int64, logoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Organization, error)

	CreateCalendar(ctx context.Context, orgID int64, calendar domain.CreateCalendarDTO) (int64, error)
	GetCalendarByID(ctx context.Context, orgID, calendarID int64) (*domain.Calendar, error)
	ListCalendars(ctx context.Context, orgID int64) ([]domain.Calendar, error)
	DeleteCalendar(ctx context.Context, orgID, calendarID int64) error
}

// SettingsRepository хранит документ настроек целиком: чтение и запись
// всегда идут по всему документу, частичных обновлений нет. Одновременные
// переключения соревнуются по принципу "последняя запись побеждает";
// Upsert выделен отдельным методом, чтобы позже можно было добавить
// версионирование, не трогая логику разбора статусов.
type SettingsRepository interface {
	Get(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error)
	Upsert(ctx context.Context, settings domain.Settings) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, appointment domain.UpdateAppointmentDTO) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type TimeSlotRepository interface {
	Create(ctx context.Context, slot domain.TimeSlot) (int64, error)
	CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByDateTime(ctx context.Context, orgID, calendarID int64, date, timeLabel string) (*domain.TimeSlot, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.TimeSlotFilter) ([]domain.TimeSlot, error)
	CountByFilter(ctx context.Context, filter domain.TimeSlotFilter) (int, error)
}

type CalendarConnectionRepository interface {
	Upsert(ctx context.Context, conn domain.CalendarConnection) (int64, error)
	GetByProvider(ctx context.Context, orgID, calendarID int64, provider domain.CalendarProvider) (*domain.CalendarConnection, error)
	ListByCalendar(ctx context.Context, orgID, calendarID int64) ([]domain.CalendarConnection, error)
	Delete(ctx context.Context, id int64) error
}
