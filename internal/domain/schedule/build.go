package schedule

import (
	"sort"
	"time"

	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
)

const (
	// Un log hasta 2h antes o 4h después del horario se atribuye a esa ocurrencia.
	// La asimetría viene del producto original; no "limpiar" a una ventana simétrica.
	earlyMatchWindow = 2 * time.Hour
	lateGraceWindow  = 4 * time.Hour
)

// Build expande la ventana de días y clasifica cada ocurrencia.
//
// Es una función pura: sin I/O, sin reloj ambiente ("now" siempre viene como
// parámetro), mismas entradas => misma salida. La salida queda ordenada en forma
// total: horario ascendente, desempate por nombre de medicamento, ID y número
// de dosis.
//
// Política por modo:
//   - single-day: incluye todas las ocurrencias del día, sin importar status.
//   - multi-day: incluye solo ocurrencias futuras o actualmente "due"; las
//     vencidas sin log quedan fuera de esta vista (los recordatorios miran
//     hacia adelante, lo perdido vive en la agenda del día y en adherencia).
func Build(meds []medications.Medication, logs []doselogs.DoseLog, now time.Time, w Window) []ScheduledDose {
	days := w.Days
	if days < 1 {
		days = 1
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	out := make([]ScheduledDose, 0)

	for off := 0; off < days; off++ {
		day := startOfDay(w.Start).AddDate(0, 0, off)

		for _, m := range meds {
			if !ActiveOn(m, day) {
				continue
			}

			for i, t := range DailyTimes(m.FrequencyPerDay, day) {
				due := isDue(t, now)

				if w.Mode == ModeMultiDay && !t.After(now) && !due {
					continue
				}

				d := startOfDay(t)
				out = append(out, ScheduledDose{
					Medication:    m,
					DoseNumber:    i + 1,
					ScheduledTime: t,
					Status:        classify(m.ID, t, logs, now),
					IsToday:       d.Equal(today),
					IsTomorrow:    d.Equal(tomorrow),
					IsUpcoming:    d.After(tomorrow) && t.After(now),
					IsDue:         due,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ScheduledTime.Equal(b.ScheduledTime) {
			return a.ScheduledTime.Before(b.ScheduledTime)
		}
		if a.Medication.Name != b.Medication.Name {
			return a.Medication.Name < b.Medication.Name
		}
		if a.Medication.ID != b.Medication.ID {
			return a.Medication.ID < b.Medication.ID
		}
		return a.DoseNumber < b.DoseNumber
	})

	return out
}

// classify asigna el status con orden de decisión estricto:
// taken > missed > late > pending.
//
// Un log que matchea gana siempre, aunque el log en sí haya sido tardío:
// la tardanza del log es TakenOnTime (informativo) y nunca degrada "taken".
// Sin log: missed desde now == horario+4h inclusive; late en (horario, horario+4h);
// pending con now <= horario.
func classify(medicationID string, scheduled time.Time, logs []doselogs.DoseLog, now time.Time) DoseStatus {
	if hasMatchingLog(medicationID, scheduled, logs) {
		return StatusTaken
	}

	deadline := scheduled.Add(lateGraceWindow)
	switch {
	case !now.Before(deadline):
		return StatusMissed
	case now.After(scheduled):
		return StatusLate
	default:
		return StatusPending
	}
}

// hasMatchingLog busca un log del mismo medicamento con timestamp_taken dentro
// de [horario-2h, horario+4h], extremos inclusive. La ventana acotada evita
// acreditar dos veces el mismo log en ocurrencias adyacentes con frecuencia alta.
func hasMatchingLog(medicationID string, scheduled time.Time, logs []doselogs.DoseLog) bool {
	from := scheduled.Add(-earlyMatchWindow)
	to := scheduled.Add(lateGraceWindow)

	for _, l := range logs {
		if l.MedicationID != medicationID {
			continue
		}
		if l.TimestampTaken.Before(from) || l.TimestampTaken.After(to) {
			continue
		}
		return true
	}
	return false
}

// isDue: now dentro de [horario, horario+4h], extremos inclusive.
// Coexiste con el status (una ocurrencia "due" puede estar taken o missed).
func isDue(scheduled, now time.Time) bool {
	return !now.Before(scheduled) && !now.After(scheduled.Add(lateGraceWindow))
}
