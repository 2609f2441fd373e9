package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"med-adherence/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, user_id,
			name, dose, frequency_per_day,
			start_date, end_date,
			category_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.UserID,
		m.Name,
		m.Dose,
		m.FrequencyPerDay,
		m.StartDate,
		m.EndDate,
		m.CategoryID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			name, dose, frequency_per_day,
			start_date, end_date,
			category_id,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	var m medications.Medication
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Dose,
		&m.FrequencyPerDay,
		&m.StartDate,
		&m.EndDate,
		&m.CategoryID,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}

	return m, nil
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID string, filter medications.ListFilter) ([]medications.Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, user_id,
			name, dose, frequency_per_day,
			start_date, end_date,
			category_id,
			created_at, updated_at
		FROM medications
		WHERE user_id = $1
	`)

	args := []any{userID}
	argN := 2

	if filter.CategoryID != "" {
		sb.WriteString(fmt.Sprintf(" AND category_id = $%d", argN))
		args = append(args, filter.CategoryID)
		argN++
	}

	// Mismo predicado que usaba la app original contra Supabase:
	// start_date <= día AND (end_date IS NULL OR end_date >= día).
	if filter.ActiveOn != nil {
		sb.WriteString(fmt.Sprintf(" AND start_date <= $%d AND (end_date IS NULL OR end_date >= $%d)", argN, argN))
		args = append(args, *filter.ActiveOn)
		argN++
	}

	sb.WriteString(" ORDER BY name, id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		var m medications.Medication
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Name,
			&m.Dose,
			&m.FrequencyPerDay,
			&m.StartDate,
			&m.EndDate,
			&m.CategoryID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET name = $2,
			dose = $3,
			frequency_per_day = $4,
			start_date = $5,
			end_date = $6,
			category_id = $7,
			updated_at = $8
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dose,
		m.FrequencyPerDay,
		m.StartDate,
		m.EndDate,
		m.CategoryID,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM medications
		WHERE user_id = $1 AND category_id = $2
	`, userID, categoryID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
