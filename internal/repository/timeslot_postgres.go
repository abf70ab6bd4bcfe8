package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type TimeSlotRepo struct {
	db *pgxpool.Pool
}

func NewTimeSlotRepository(db *pgxpool.Pool) TimeSlotRepository {
	return &TimeSlotRepo{db: db}
}

func (r *TimeSlotRepo) Create(ctx context.Context, slot domain.TimeSlot) (int64, error) {
	var id int64

	query := `
		INSERT INTO time_slots (org_id, calendar_id, date, time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		ctx,
		query,
		slot.OrgID,
		slot.CalendarID,
		slot.Date,
		slot.Time,
		slot.Status,
		now,
		now,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания слота: %w", err)
	}

	return id, nil
}

// CreateBatch вставляет слоты пачкой, пропуская уже существующие пары
// (дата, время) календаря. Возвращает число реально созданных слотов.
func (r *TimeSlotRepo) CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO time_slots (org_id, calendar_id, date, time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (org_id, calendar_id, date, time) DO NOTHING
	`

	now := time.Now()
	batch := &pgx.Batch{}
	for _, slot := range slots {
		batch.Queue(query, slot.OrgID, slot.CalendarID, slot.Date, slot.Time, slot.Status, now, now)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	created := 0
	for range slots {
		tag, err := results.Exec()
		if err != nil {
			return created, fmt.Errorf("ошибка массового создания слотов: %w", err)
		}
		created += int(tag.RowsAffected())
	}

	return created, nil
}

func (r *TimeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	query := `
		SELECT id, org_id, calendar_id, date, time, status, created_at, updated_at
		FROM time_slots
		WHERE id = $1
	`

	var slot domain.TimeSlot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.OrgID,
		&slot.CalendarID,
		&slot.Date,
		&slot.Time,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}

	return &slot, nil
}

func (r *TimeSlotRepo) GetByDateTime(ctx context.Context, orgID, calendarID int64, date, timeLabel string) (*domain.TimeSlot, error) {
	query := `
		SELECT id, org_id, calendar_id, date, time, status, created_at, updated_at
		FROM time_slots
		WHERE org_id = $1 AND calendar_id = $2 AND date = $3 AND time = $4
	`

	var slot domain.TimeSlot
	err := r.db.QueryRow(ctx, query, orgID, calendarID, date, timeLabel).Scan(
		&slot.ID,
		&slot.OrgID,
		&slot.CalendarID,
		&slot.Date,
		&slot.Time,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}

	return &slot, nil
}

func (r *TimeSlotRepo) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error {
	query := `UPDATE time_slots SET status = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса слота: %w", err)
	}

	return nil
}

func (r *TimeSlotRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM time_slots WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления слота: %w", err)
	}

	return nil
}

func (r *TimeSlotRepo) List(ctx context.Context, filter domain.TimeSlotFilter) ([]domain.TimeSlot, error) {
	query := `
		SELECT id, org_id, calendar_id, date, time, status, created_at, updated_at
		FROM time_slots
		WHERE 1=1
	`

	args := []interface{}{}
	argID := 1

	if filter.OrgID != nil {
		query += fmt.Sprintf(" AND org_id = $%d", argID)
		args = append(args, *filter.OrgID)
		argID++
	}

	if filter.CalendarID != nil {
		query += fmt.Sprintf(" AND calendar_id = $%d", argID)
		args = append(args, *filter.CalendarID)
		argID++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND date >= $%d", argID)
		args = append(args, *filter.DateFrom)
		argID++
	}

	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND date <= $%d", argID)
		args = append(args, *filter.DateTo)
		argID++
	}

	query += " ORDER BY date, time"

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
		return nil, fmt.Errorf("ошибка получения списка слотов: %w", err)
	}
	defer rows.Close()

	var slots []domain.TimeSlot
	for rows.Next() {
		var slot domain.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.OrgID,
			&slot.CalendarID,
			&slot.Date,
			&slot.Time,
			&slot.Status,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования слота: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов запроса: %w", err)
	}

	return slots, nil
}

func (r *TimeSlotRepo) CountByFilter(ctx context.Context, filter domain.TimeSlotFilter) (int, error) {
	query := `SELECT COUNT(*) FROM time_slots WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OrgID != nil {
		query += fmt.Sprintf(" AND org_id = $%d", argID)
		args = append(args, *filter.OrgID)
		argID++
	}

	if filter.CalendarID != nil {
		query += fmt.Sprintf(" AND calendar_id = $%d", argID)
		args = append(args, *filter.CalendarID)
		argID++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND date >= $%d", argID)
		args = append(args, *filter.DateFrom)
		argID++
	}

	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND date <= $%d", argID)
		args = append(args, *filter.DateTo)
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета слотов: %w", err)
	}

	return count, nil
}
