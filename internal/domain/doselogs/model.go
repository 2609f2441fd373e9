package doselogs

import "time"

// DoseLog registra una toma concreta. Es append-only: el core de schedule solo
// lo lee para decidir si una ocurrencia ya fue satisfecha.
type DoseLog struct {
	ID           string
	UserID       string
	MedicationID string

	// ScheduledTime es el horario nominal de la ocurrencia que se está
	// registrando; TimestampTaken es el instante real del registro.
	ScheduledTime  time.Time
	TimestampTaken time.Time

	// TakenOnTime es informativo: un log tardío sigue contando como "taken"
	// para la ocurrencia, nunca la degrada.
	TakenOnTime  bool
	RewardEarned bool

	CreatedAt time.Time
}
