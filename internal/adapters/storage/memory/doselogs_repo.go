package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"med-adherence/internal/domain/doselogs"
)

type doseLogsRepo struct {
	mu   sync.RWMutex
	byID map[string]doselogs.DoseLog
}

func NewDoseLogsRepo() doselogs.Repository {
	return &doseLogsRepo{
		byID: make(map[string]doselogs.DoseLog),
	}
}

func (r *doseLogsRepo) Create(ctx context.Context, l doselogs.DoseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("dose log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("dose log already exists")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *doseLogsRepo) ListByUser(ctx context.Context, userID string, filter doselogs.ListFilter) ([]doselogs.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doselogs.DoseLog, 0)

	for _, l := range r.byID {
		if l.UserID != userID {
			continue
		}
		if filter.MedicationID != "" && l.MedicationID != filter.MedicationID {
			continue
		}

		// Rangos inclusivos.
		if filter.From != nil && l.ScheduledTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.ScheduledTime.After(*filter.To) {
			continue
		}
		if filter.TakenFrom != nil && l.TimestampTaken.Before(*filter.TakenFrom) {
			continue
		}
		if filter.TakenTo != nil && l.TimestampTaken.After(*filter.TakenTo) {
			continue
		}

		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].ScheduledTime.Before(out[j].ScheduledTime)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
