package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"med-adherence/internal/domain/doselogs"
)

type DoseLogsRepo struct {
	db *sql.DB
}

func NewDoseLogsRepo(db *sql.DB) *DoseLogsRepo {
	return &DoseLogsRepo{db: db}
}

func (r *DoseLogsRepo) Create(ctx context.Context, l doselogs.DoseLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (
			id, user_id, medication_id,
			scheduled_time, timestamp_taken,
			taken_on_time, reward_earned,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		l.ID,
		l.UserID,
		l.MedicationID,
		l.ScheduledTime,
		l.TimestampTaken,
		l.TakenOnTime,
		l.RewardEarned,
		l.CreatedAt,
	)
	return err
}

func (r *DoseLogsRepo) ListByUser(ctx context.Context, userID string, filter doselogs.ListFilter) ([]doselogs.DoseLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, user_id, medication_id,
			scheduled_time, timestamp_taken,
			taken_on_time, reward_earned,
			created_at
		FROM dose_logs
		WHERE user_id = $1
	`)

	args := []any{userID}
	argN := 2

	if filter.MedicationID != "" {
		sb.WriteString(fmt.Sprintf(" AND medication_id = $%d", argN))
		args = append(args, filter.MedicationID)
		argN++
	}

	// Rangos inclusivos, igual que el repo en memoria.
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_time >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_time <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}
	if filter.TakenFrom != nil {
		sb.WriteString(fmt.Sprintf(" AND timestamp_taken >= $%d", argN))
		args = append(args, *filter.TakenFrom)
		argN++
	}
	if filter.TakenTo != nil {
		sb.WriteString(fmt.Sprintf(" AND timestamp_taken <= $%d", argN))
		args = append(args, *filter.TakenTo)
		argN++
	}

	sb.WriteString(" ORDER BY scheduled_time, id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doselogs.DoseLog, 0)
	for rows.Next() {
		var l doselogs.DoseLog
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.MedicationID,
			&l.ScheduledTime,
			&l.TimestampTaken,
			&l.TakenOnTime,
			&l.RewardEarned,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}
