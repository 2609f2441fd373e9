package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
)

var ErrInvalidInput = errors.New("invalid input")

const timestampLayout = "2006-01-02 15:04:05"

// Service exporta los logs de tomas como CSV. Es formateo puro sobre datos ya
// consultados; mismas columnas y Yes/No que el export original.
type Service struct {
	meds *medications.Service
	logs *doselogs.Service

	// now es swappable en tests; el rango por defecto del export depende de él.
	now func() time.Time
}

func NewService(meds *medications.Service, logs *doselogs.Service) *Service {
	return &Service{
		meds: meds,
		logs: logs,
		now:  time.Now,
	}
}

// WriteCSV escribe los logs del usuario con scheduled_time en [start, end]
// sobre w, ascendente por scheduled_time.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, userID string, start, end time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	if end.Before(start) {
		return ErrInvalidInput
	}

	meds, err := s.meds.ListByUser(ctx, userID, medications.ListFilter{})
	if err != nil {
		return err
	}
	nameByID := make(map[string]string, len(meds))
	for _, m := range meds {
		nameByID[m.ID] = m.Name
	}

	logs, err := s.logs.ListByUser(ctx, userID, doselogs.ListFilter{
		From: &start,
		To:   &end,
	})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Medication", "Scheduled Time", "Taken Time", "On Time", "Reward Earned"}); err != nil {
		return err
	}

	for _, l := range logs {
		name, ok := nameByID[l.MedicationID]
		if !ok {
			// Medicamento borrado después de registrar tomas.
			name = "Unknown"
		}
		row := []string{
			name,
			l.ScheduledTime.Format(timestampLayout),
			l.TimestampTaken.Format(timestampLayout),
			yesNo(l.TakenOnTime),
			yesNo(l.RewardEarned),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
