package medications

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Medication, error)
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error

	// CountByCategory cuenta medicamentos del usuario que referencian la categoría.
	// Lo usa categories para bloquear el borrado de categorías en uso.
	CountByCategory(ctx context.Context, userID, categoryID string) (int, error)
}

type ListFilter struct {
	// ActiveOn filtra medicamentos activos en ese día:
	// start_date <= día y (end_date ausente o end_date >= día).
	ActiveOn *time.Time

	CategoryID string
}
