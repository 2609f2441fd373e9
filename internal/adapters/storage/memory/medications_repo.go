package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"med-adherence/internal/domain/medications"
)

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
}

func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID: make(map[string]medications.Medication),
	}
}

func (r *medicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}

	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, nil
}

func (r *medicationsRepo) ListByUser(ctx context.Context, userID string, filter medications.ListFilter) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)

	for _, m := range r.byID {
		if m.UserID != userID {
			continue
		}

		if filter.CategoryID != "" {
			if m.CategoryID == nil || *m.CategoryID != filter.CategoryID {
				continue
			}
		}

		if filter.ActiveOn != nil {
			if !activeOn(m, *filter.ActiveOn) {
				continue
			}
		}

		out = append(out, m)
	}

	// Orden por nombre, como listaba el producto original.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *medicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; !ok {
		return medications.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return medications.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *medicationsRepo) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.byID {
		if m.UserID != userID {
			continue
		}
		if m.CategoryID != nil && *m.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// activeOn replica el filtro SQL: start_date <= día y (end_date nulo o >= día),
// a granularidad de día.
func activeOn(m medications.Medication, day time.Time) bool {
	d := startOfDay(day)
	if startOfDay(m.StartDate).After(d) {
		return false
	}
	if m.EndDate != nil && d.After(startOfDay(*m.EndDate)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
