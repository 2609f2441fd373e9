package schedule

import (
	"iter"
	"time"

	"med-adherence/internal/domain/medications"
)

const (
	// Ventana diaria fija [08:00, 20:00). Política determinística, no configurable.
	dayStartHour = 8
	dayWindow    = 12 * time.Hour

	// MaxDailyFrequency es un slot por minuto: con la trunca a minuto entero,
	// frecuencias más densas colapsarían instantes adyacentes.
	MaxDailyFrequency = 720
)

// DailyTimes devuelve la secuencia de horarios del día para una frecuencia dada:
// la ocurrencia i se agenda en 08:00 + i*(12h/N), truncado a minuto entero.
// La secuencia es finita (exactamente N), estrictamente creciente y reiniciable.
// Frecuencia < 1 se trata como 1 (nunca cero ocurrencias); > MaxDailyFrequency
// se recorta a MaxDailyFrequency.
func DailyTimes(frequency int, day time.Time) iter.Seq2[int, time.Time] {
	if frequency < 1 {
		frequency = 1
	}
	if frequency > MaxDailyFrequency {
		frequency = MaxDailyFrequency
	}
	base := time.Date(day.Year(), day.Month(), day.Day(), dayStartHour, 0, 0, 0, day.Location())

	return func(yield func(int, time.Time) bool) {
		for i := 0; i < frequency; i++ {
			offset := time.Duration(i) * dayWindow / time.Duration(frequency)
			offset -= offset % time.Minute
			if !yield(i, base.Add(offset)) {
				return
			}
		}
	}
}

// ActiveOn indica si el medicamento está activo el día dado:
// start_date <= día <= end_date (end_date nil = indefinido).
// Compara a granularidad de día; la hora guardada en las fechas se normaliza
// para no perder el primer ni el último día del rango.
func ActiveOn(m medications.Medication, day time.Time) bool {
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
