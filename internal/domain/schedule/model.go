package schedule

import (
	"time"

	"med-adherence/internal/domain/medications"
)

// DoseStatus es el ciclo de vida de una ocurrencia frente a "now" y los logs.
type DoseStatus string

const (
	StatusPending DoseStatus = "pending"
	StatusTaken   DoseStatus = "taken"
	StatusLate    DoseStatus = "late"
	StatusMissed  DoseStatus = "missed"
)

// Mode define la política de filtrado del builder según el caso de uso.
type Mode string

const (
	// ModeSingleDay incluye todas las ocurrencias del día (pantalla de registro).
	ModeSingleDay Mode = "single-day"
	// ModeMultiDay incluye solo ocurrencias futuras o actualmente "due" (recordatorios).
	ModeMultiDay Mode = "multi-day"
)

// Window es la ventana de días a expandir.
type Window struct {
	Mode  Mode
	Start time.Time // día calendario; la hora se normaliza
	Days  int       // cantidad de días desde Start (mínimo 1)
}

func SingleDay(day time.Time) Window {
	return Window{Mode: ModeSingleDay, Start: day, Days: 1}
}

func MultiDay(start time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	return Window{Mode: ModeMultiDay, Start: start, Days: days}
}

// ScheduledDose es una ocurrencia derivada: se construye en cada invocación
// a partir de (medicamentos, logs, now) y se descarta después de renderizar.
// Nunca se persiste.
type ScheduledDose struct {
	Medication medications.Medication

	// DoseNumber es 1-based dentro del día ("dosis 2 de 3").
	DoseNumber    int
	ScheduledTime time.Time

	Status DoseStatus

	// Buckets temporales, eje independiente del status (no colapsar en un enum).
	IsToday    bool
	IsTomorrow bool
	IsUpcoming bool
	IsDue      bool
}
