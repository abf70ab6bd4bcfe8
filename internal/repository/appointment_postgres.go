package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) AppointmentRepository {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Create(ctx context.Context, appointment domain.Appointment) (int64, error) {
	var id int64

	query := `
		INSERT INTO appointments (
			org_id, calendar_id, slot_id, email, location_type, location_details,
			status, appointment_date, date, time, provider_event_id, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		appointment.OrgID,
		appointment.CalendarID,
		appointment.SlotID,
		appointment.Email,
		appointment.Location.Type,
		appointment.Location.Details,
		appointment.Status,
		appointment.AppointmentDate,
		appointment.Date,
		appointment.Time,
		appointment.ProviderEventID,
		appointment.CreatedAt,
		appointment.ExpiresAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := `
		SELECT id, org_id, calendar_id, slot_id, email, location_type, location_details,
		       status, appointment_date, date, time, provider_event_id, created_at, expires_at
		FROM appointments
		WHERE id = $1
	`

	var appointment domain.Appointment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.OrgID,
		&appointment.CalendarID,
		&appointment.SlotID,
		&appointment.Email,
		&appointment.Location.Type,
		&appointment.Location.Details,
		&appointment.Status,
		&appointment.AppointmentDate,
		&appointment.Date,
		&appointment.Time,
		&appointment.ProviderEventID,
		&appointment.CreatedAt,
		&appointment.ExpiresAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return &appointment, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	query := `UPDATE appointments SET id = id`

	args := []interface{}{}
	argID := 1

	if dto.Status != nil {
		query += fmt.Sprintf(", status = $%d", argID)
		args = append(args, *dto.Status)
		argID++
	}

	if dto.Location != nil {
		query += fmt.Sprintf(", location_type = $%d, location_details = $%d", argID, argID+1)
		args = append(args, dto.Location.Type, dto.Location.Details)
		argID += 2
	}

	if dto.ProviderEventID != nil {
		query += fmt.Sprintf(", provider_event_id = $%d", argID)
		args = append(args, *dto.ProviderEventID)
		argID++
	}

	if len(args) == 0 {
		return nil
	}

	query += fmt.Sprintf(" WHERE id = $%d", argID)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи: %w", err)
	}

	return nil
}

func buildAppointmentFilter(filter domain.AppointmentFilter) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	argID := 1

	if filter.OrgID != nil {
		clause += fmt.Sprintf(" AND org_id = $%d", argID)
		args = append(args, *filter.OrgID)
		argID++
	}

	if filter.CalendarID != nil {
		clause += fmt.Sprintf(" AND calendar_id = $%d", argID)
		args = append(args, *filter.CalendarID)
		argID++
	}

	if filter.Email != nil {
		clause += fmt.Sprintf(" AND email = $%d", argID)
		args = append(args, *filter.Email)
		argID++
	}

	if filter.Status != nil {
		clause += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	if filter.ExcludeStatus != nil {
		clause += fmt.Sprintf(" AND status != $%d", argID)
		args = append(args, *filter.ExcludeStatus)
		argID++
	}

	if filter.StartDate != nil {
		clause += fmt.Sprintf(" AND appointment_date >= $%d", argID)
		args = append(args, *filter.StartDate)
		argID++
	}

	if filter.EndDate != nil {
		clause += fmt.Sprintf(" AND appointment_date <= $%d", argID)
		args = append(args, *filter.EndDate)
	}

	return clause, args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	query := `
		SELECT id, org_id, calendar_id, slot_id, email, location_type, location_details,
		       status, appointment_date, date, time, provider_event_id, created_at, expires_at
		FROM appointments
		WHERE 1=1
	`

	clause, args := buildAppointmentFilter(filter)
	query += clause
	argID := len(args) + 1

	query += " ORDER BY appointment_date"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		var appointment domain.Appointment
		err := rows.Scan(
			&appointment.ID,
			&appointment.OrgID,
			&appointment.CalendarID,
			&appointment.SlotID,
			&appointment.Email,
			&appointment.Location.Type,
			&appointment.Location.Details,
			&appointment.Status,
			&appointment.AppointmentDate,
			&appointment.Date,
			&appointment.Time,
			&appointment.ProviderEventID,
			&appointment.CreatedAt,
			&appointment.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов запроса: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE 1=1`

	clause, args := buildAppointmentFilter(filter)
	query += clause

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

// ExpirePending помечает отмененными неподтвержденные записи с истекшим
// сроком ожидания. Вызывается лениво при чтении, фоновых задач нет.
func (r *AppointmentRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = $1
		WHERE status = $2 AND expires_at < $3
	`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusCancelled, domain.AppointmentStatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка отмены просроченных записей: %w", err)
	}

	return tag.RowsAffected(), nil
}
