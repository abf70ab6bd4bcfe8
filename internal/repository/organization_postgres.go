package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type OrganizationRepo struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) OrganizationRepository {
	return &OrganizationRepo{db: db}
}

func (r *OrganizationRepo) Create(ctx context.Context, ownerID int64, org domain.CreateOrganizationDTO) (int64, error) {
	var id int64

	query := `
		INSERT INTO organizations (name, slug, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(ctx, query, org.Name, org.Slug, ownerID, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания организации: %w", err)
	}

	return id, nil
}

func (r *OrganizationRepo) scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var org domain.Organization
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.LogoURL,
		&org.OwnerID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения организации: %w", err)
	}

	return &org, nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	query := `
		SELECT id, name, slug, COALESCE(logo_url, ''), owner_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	return r.scanOrganization(r.db.QueryRow(ctx, query, id))
}

func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	query := `
		SELECT id, name, slug, COALESCE(logo_url, ''), owner_id, created_at, updated_at
		FROM organizations
		WHERE slug = $1
	`
	return r.scanOrganization(r.db.QueryRow(ctx, query, slug))
}

func (r *OrganizationRepo) Update(ctx context.Context, id int64, org domain.UpdateOrganizationDTO) error {
	query := `UPDATE organizations SET updated_at = $1`

	args := []interface{}{time.Now()}
	argID := 2

	if org.Name != nil {
		query += fmt.Sprintf(", name = $%d", argID)
		args = append(args, *org.Name)
		argID++
	}

	if org.Slug != nil {
		query += fmt.Sprintf(", slug = $%d", argID)
		args = append(args, *org.Slug)
		argID++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argID)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления организации: %w", err)
	}

	return nil
}

func (r *OrganizationRepo) UpdateLogo(ctx context.Context, id int64, logoURL string) error {
	query := `UPDATE organizations SET logo_url = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.Exec(ctx, query, logoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления логотипа организации: %w", err)
	}

	return nil
}

func (r *OrganizationRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM organizations WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления организации: %w", err)
	}

	return nil
}

func (r *OrganizationRepo) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	query := `
		SELECT id, name, slug, COALESCE(logo_url, ''), owner_id, created_at, updated_at
		FROM organizations
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка организаций: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var org domain.Organization
		err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.Slug,
			&org.LogoURL,
			&org.OwnerID,
			&org.CreatedAt,
			&org.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования организации: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов запроса: %w", err)
	}

	return orgs, nil
}

func (r *OrganizationRepo) CreateCalendar(ctx context.Context, orgID int64, calendar domain.CreateCalendarDTO) (int64, error) {
	var id int64

	query := `
		INSERT INTO calendars (org_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(ctx, query, orgID, calendar.Name, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания календаря: %w", err)
	}

	return id, nil
}

func (r *OrganizationRepo) GetCalendarByID(ctx context.Context, orgID, calendarID int64) (*domain.Calendar, error) {
	query := `
		SELECT id, org_id, name, created_at, updated_at
		FROM calendars
		WHERE id = $1 AND org_id = $2
	`

	var calendar domain.Calendar
	err := r.db.QueryRow(ctx, query, calendarID, orgID).Scan(
		&calendar.ID,
		&calendar.OrgID,
		&calendar.Name,
		&calendar.CreatedAt,
		&calendar.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения календаря: %w", err)
	}

	return &calendar, nil
}

func (r *OrganizationRepo) ListCalendars(ctx context.Context, orgID int64) ([]domain.Calendar, error) {
	query := `
		SELECT id, org_id, name, created_at, updated_at
		FROM calendars
		WHERE org_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка календарей: %w", err)
	}
	defer rows.Close()

	var calendars []domain.Calendar
	for rows.Next() {
		var calendar domain.Calendar
		err := rows.Scan(
			&calendar.ID,
			&calendar.OrgID,
			&calendar.Name,
			&calendar.CreatedAt,
			&calendar.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования календаря: %w", err)
		}
		calendars = append(calendars, calendar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов запроса: %w", err)
	}

	return calendars, nil
}

func (r *OrganizationRepo) DeleteCalendar(ctx context.Context, orgID, calendarID int64) error {
	query := `DELETE FROM calendars WHERE id = $1 AND org_id = $2`

	_, err := r.db.Exec(ctx, query, calendarID, orgID)
	if err != nil {
		return fmt.Errorf("ошибка удаления календаря: %w", err)
	}

	return nil
}
