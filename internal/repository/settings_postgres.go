package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) SettingsRepository {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, orgID, calendarID int64) (*domain.Settings, error) {
	query := `
		SELECT document, updated_at
		FROM calendar_settings
		WHERE org_id = $1 AND calendar_id = $2
	`

	var (
		raw       []byte
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, orgID, calendarID).Scan(&raw, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("ошибка разбора документа настроек: %w", err)
	}

	settings.OrgID = orgID
	settings.CalendarID = calendarID
	settings.UpdatedAt = updatedAt

	return &settings, nil
}

// Upsert перезаписывает документ настроек целиком. Последняя запись
// побеждает: блокировок на уровне документа нет.
func (r *SettingsRepo) Upsert(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("ошибка сериализации документа настроек: %w", err)
	}

	query := `
		INSERT INTO calendar_settings (org_id, calendar_id, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, calendar_id)
		DO UPDATE SET document = $3, updated_at = $4
	`

	_, err = r.db.Exec(ctx, query, settings.OrgID, settings.CalendarID, raw, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек: %w", err)
	}

	return nil
}
