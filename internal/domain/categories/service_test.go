package categories

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Category
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Category{}}
}

func (r *testRepo) Create(ctx context.Context, c Category) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Category, error) {
	out := make([]Category, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestService_Create_TrimsAndStampsTimes(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	c, err := svc.Create(context.Background(), "user-1", "  Vitaminas  ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Name != "Vitaminas" {
		t.Fatalf("expected trimmed name, got %q", c.Name)
	}
	if c.CreatedAt != now || c.UpdatedAt != now {
		t.Fatalf("expected timestamps = now")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "", "Vitaminas"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty user: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
