package doselogs

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l DoseLog) error
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]DoseLog, error)
}

// ListFilter: los rangos son opcionales e inclusivos.
// From/To filtran por scheduled_time (reportes, adherencia);
// TakenFrom/TakenTo por timestamp_taken (feed del schedule, anti-duplicados).
type ListFilter struct {
	MedicationID string

	From *time.Time
	To   *time.Time

	TakenFrom *time.Time
	TakenTo   *time.Time
}
