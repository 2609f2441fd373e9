package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"med-adherence/internal/domain/categories"
)

type categoriesRepo struct {
	mu   sync.RWMutex
	byID map[string]categories.Category
}

func NewCategoriesRepo() categories.Repository {
	return &categoriesRepo{
		byID: make(map[string]categories.Category),
	}
}

func (r *categoriesRepo) Create(ctx context.Context, c categories.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return errors.New("category id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("category already exists")
	}

	r.byID[c.ID] = c
	return nil
}

func (r *categoriesRepo) GetByID(ctx context.Context, id string) (categories.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return categories.Category{}, categories.ErrNotFound
	}
	return c, nil
}

func (r *categoriesRepo) ListByUser(ctx context.Context, userID string) ([]categories.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]categories.Category, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *categoriesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return categories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
