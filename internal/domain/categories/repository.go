package categories

import "context"

type Repository interface {
	Create(ctx context.Context, c Category) error
	GetByID(ctx context.Context, id string) (Category, error)
	ListByUser(ctx context.Context, userID string) ([]Category, error)
	Delete(ctx context.Context, id string) error
}
