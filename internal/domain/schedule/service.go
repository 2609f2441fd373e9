package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
)

var ErrInvalidInput = errors.New("invalid input")

// Service orquesta la carga de insumos (medicamentos activos + logs) y delega
// en Build, que es puro. Todo lo que depende del reloj pasa por s.now para que
// los tests fijen el instante.
type Service struct {
	meds *medications.Service
	logs *doselogs.Service
	now  func() time.Time
}

func NewService(meds *medications.Service, logs *doselogs.Service) *Service {
	return &Service{
		meds: meds,
		logs: logs,
		now:  time.Now,
	}
}

// Today arma la agenda de hoy en modo single-day: todas las ocurrencias del
// día con su status, incluso las ya tomadas o vencidas (pantalla de registro).
func (s *Service) Today(ctx context.Context, userID string) ([]ScheduledDose, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	day := startOfDay(now)

	meds, err := s.meds.ListByUser(ctx, userID, medications.ListFilter{ActiveOn: &day})
	if err != nil {
		return nil, err
	}

	// Logs del día por timestamp_taken: cubre toda la ventana de atribución
	// [06:00, 24:00] de las ocurrencias de hoy.
	from := day
	to := day.AddDate(0, 0, 1)
	logs, err := s.logs.ListByUser(ctx, userID, doselogs.ListFilter{
		TakenFrom: &from,
		TakenTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	return Build(meds, logs, now, SingleDay(day)), nil
}

// Reminders arma la vista de recordatorios: ventana de `days` días desde hoy,
// solo ocurrencias futuras o actualmente due, con los buckets de día marcados.
func (s *Service) Reminders(ctx context.Context, userID string, days int) ([]ScheduledDose, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if days < 1 || days > 31 {
		return nil, ErrInvalidInput
	}

	now := s.now()
	start := startOfDay(now)

	// Sin filtro ActiveOn: un medicamento puede arrancar en mitad de la
	// ventana; ActiveOn se evalúa día a día dentro de Build.
	meds, err := s.meds.ListByUser(ctx, userID, medications.ListFilter{})
	if err != nil {
		return nil, err
	}

	from := start.Add(-earlyMatchWindow)
	to := start.AddDate(0, 0, days)
	logs, err := s.logs.ListByUser(ctx, userID, doselogs.ListFilter{
		TakenFrom: &from,
		TakenTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	return Build(meds, logs, now, MultiDay(start, days)), nil
}
