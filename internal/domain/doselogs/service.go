package doselogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("dose already logged for this occurrence")
)

const (
	// Misma ventana asimétrica que usa el core de schedule para atribuir un log
	// a una ocurrencia: [scheduled-2h, scheduled+4h].
	earlyMatchWindow = 2 * time.Hour
	lateGraceWindow  = 4 * time.Hour
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	MedicationID  string
	ScheduledTime time.Time
}

// Record es el log_dose del producto original, ahora in-process: estampa
// timestamp_taken = now y calcula taken_on_time / reward_earned al escribir.
// Rechaza un segundo log que caería en la ventana de la misma ocurrencia,
// para no acreditarla dos veces.
func (s *Service) Record(ctx context.Context, userID string, in RecordInput) (DoseLog, error) {
	userID = strings.TrimSpace(userID)
	medID := strings.TrimSpace(in.MedicationID)

	if userID == "" || medID == "" {
		return DoseLog{}, ErrInvalidInput
	}
	if in.ScheduledTime.IsZero() {
		return DoseLog{}, ErrInvalidInput
	}

	now := s.now()

	from := in.ScheduledTime.Add(-earlyMatchWindow)
	to := in.ScheduledTime.Add(lateGraceWindow)
	existing, err := s.repo.ListByUser(ctx, userID, ListFilter{
		MedicationID: medID,
		TakenFrom:    &from,
		TakenTo:      &to,
	})
	if err != nil {
		return DoseLog{}, err
	}
	if len(existing) > 0 {
		return DoseLog{}, ErrDuplicate
	}

	// "A tiempo" = registrado a más tardar en el horario nominal. Después del
	// horario la UI original lo marca "(Late)", aunque siga contando.
	onTime := !now.After(in.ScheduledTime)

	l := DoseLog{
		ID:             uuid.NewString(),
		UserID:         userID,
		MedicationID:   medID,
		ScheduledTime:  in.ScheduledTime,
		TimestampTaken: now,
		TakenOnTime:    onTime,
		RewardEarned:   onTime,
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return DoseLog{}, err
	}
	return l, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]DoseLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, filter)
}
