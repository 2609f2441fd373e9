package postgres

import (
	"context"
	"database/sql"
	"strings"

	"med-adherence/internal/domain/categories"
)

type CategoriesRepo struct {
	db *sql.DB
}

func NewCategoriesRepo(db *sql.DB) *CategoriesRepo {
	return &CategoriesRepo{db: db}
}

func (r *CategoriesRepo) Create(ctx context.Context, c categories.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		c.ID,
		c.UserID,
		c.Name,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (categories.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return categories.Category{}, categories.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id)

	var c categories.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return categories.Category{}, categories.ErrNotFound
		}
		return categories.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) ListByUser(ctx context.Context, userID string) ([]categories.Category, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]categories.Category, 0)
	for rows.Next() {
		var c categories.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *CategoriesRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return categories.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return categories.ErrNotFound
	}
	return nil
}
