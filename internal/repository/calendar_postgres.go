package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type CalendarConnectionRepo struct {
	db *pgxpool.Pool
}

func NewCalendarConnectionRepository(db *pgxpool.Pool) CalendarConnectionRepository {
	return &CalendarConnectionRepo{db: db}
}

// Upsert сохраняет подключение провайдера; повторное подключение того же
// провайдера к календарю перезаписывает токены.
func (r *CalendarConnectionRepo) Upsert(ctx context.Context, conn domain.CalendarConnection) (int64, error) {
	var id int64

	query := `
		INSERT INTO calendar_connections (
			org_id, calendar_id, provider, account_email,
			access_token, refresh_token, token_expiry, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (org_id, calendar_id, provider)
		DO UPDATE SET
			account_email = $4,
			access_token = $5,
			refresh_token = $6,
			token_expiry = $7,
			updated_at = $9
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		ctx,
		query,
		conn.OrgID,
		conn.CalendarID,
		conn.Provider,
		conn.AccountEmail,
		conn.AccessToken,
		conn.RefreshToken,
		conn.TokenExpiry,
		now,
		now,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения подключения календаря: %w", err)
	}

	return id, nil
}

func (r *CalendarConnectionRepo) GetByProvider(ctx context.Context, orgID, calendarID int64, provider domain.CalendarProvider) (*domain.CalendarConnection, error) {
	query := `
		SELECT id, org_id, calendar_id, provider, account_email,
		       access_token, refresh_token, token_expiry, created_at, updated_at
		FROM calendar_connections
		WHERE org_id = $1 AND calendar_id = $2 AND provider = $3
	`

	var conn domain.CalendarConnection
	err := r.db.QueryRow(ctx, query, orgID, calendarID, provider).Scan(
		&conn.ID,
		&conn.OrgID,
		&conn.CalendarID,
		&conn.Provider,
		&conn.AccountEmail,
		&conn.AccessToken,
		&conn.RefreshToken,
		&conn.TokenExpiry,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения подключения календаря: %w", err)
	}

	return &conn, nil
}

func (r *CalendarConnectionRepo) ListByCalendar(ctx context.Context, orgID, calendarID int64) ([]domain.CalendarConnection, error) {
	query := `
		SELECT id, org_id, calendar_id, provider, account_email,
		       access_token, refresh_token, token_expiry, created_at, updated_at
		FROM calendar_connections
		WHERE org_id = $1 AND calendar_id = $2
		ORDER BY provider
	`

	rows, err := r.db.Query(ctx, query, orgID, calendarID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка подключений: %w", err)
	}
	defer rows.Close()

	var conns []domain.CalendarConnection
	for rows.Next() {
		var conn domain.CalendarConnection
		err := rows.Scan(
			&conn.ID,
			&conn.OrgID,
			&conn.CalendarID,
			&conn.Provider,
			&conn.AccountEmail,
			&conn.AccessToken,
			&conn.RefreshToken,
			&conn.TokenExpiry,
			&conn.CreatedAt,
			&conn.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования подключения: %w", err)
		}
		conns = append(conns, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов запроса: %w", err)
	}

	return conns, nil
}

func (r *CalendarConnectionRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM calendar_connections WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления подключения календаря: %w", err)
	}

	return nil
}
