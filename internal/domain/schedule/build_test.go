package schedule

import (
	"testing"
	"time"

	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
)

func med(id, name string, freq int, start time.Time) medications.Medication {
	return medications.Medication{
		ID:              id,
		UserID:          "user-1",
		Name:            name,
		Dose:            "500 mg",
		FrequencyPerDay: freq,
		StartDate:       start,
	}
}

func logAt(medID string, taken time.Time) doselogs.DoseLog {
	return doselogs.DoseLog{
		ID:             "log-" + medID + taken.Format("150405"),
		UserID:         "user-1",
		MedicationID:   medID,
		ScheduledTime:  taken,
		TimestampTaken: taken,
	}
}

// -------------------------
// Clasificación
// -------------------------

func TestBuild_Classification_TwiceDaily(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 2, day(2026, 3, 1))

	// 15:00: la dosis de 08:00 venció (08:00+4h=12:00 < now) y la de 14:00
	// está en curso (late) porque now está dentro de su gracia.
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, SingleDay(d))
	if len(doses) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(doses))
	}

	if doses[0].Status != StatusMissed {
		t.Fatalf("08:00 dose: expected missed, got %s", doses[0].Status)
	}
	if doses[1].Status != StatusLate {
		t.Fatalf("14:00 dose: expected late, got %s", doses[1].Status)
	}
	if !doses[1].IsDue {
		t.Fatalf("14:00 dose: expected due at 15:00")
	}
	if doses[0].IsDue {
		t.Fatalf("08:00 dose: not due anymore at 15:00")
	}
}

func TestBuild_Classification_Boundaries(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 1, day(2026, 3, 1))
	scheduled := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want DoseStatus
	}{
		{"antes del horario", scheduled.Add(-time.Hour), StatusPending},
		{"exactamente en el horario", scheduled, StatusPending},
		{"un segundo después", scheduled.Add(time.Second), StatusLate},
		{"justo antes del deadline", scheduled.Add(4*time.Hour - time.Second), StatusLate},
		{"exactamente en el deadline", scheduled.Add(4 * time.Hour), StatusMissed},
		{"después del deadline", scheduled.Add(5 * time.Hour), StatusMissed},
	}

	for _, tc := range cases {
		doses := Build([]medications.Medication{m}, nil, tc.now, SingleDay(d))
		if len(doses) != 1 {
			t.Fatalf("%s: expected 1 dose, got %d", tc.name, len(doses))
		}
		if doses[0].Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, doses[0].Status)
		}
	}
}

func TestBuild_LogMatchWindow_Inclusive(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 1, day(2026, 3, 1))
	scheduled := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC) // todo ya vencido sin log

	cases := []struct {
		name  string
		taken time.Time
		want  DoseStatus
	}{
		{"2h antes (borde inferior)", scheduled.Add(-2 * time.Hour), StatusTaken},
		{"antes del borde inferior", scheduled.Add(-2*time.Hour - time.Second), StatusMissed},
		{"30m después", scheduled.Add(30 * time.Minute), StatusTaken},
		{"4h después (borde superior)", scheduled.Add(4 * time.Hour), StatusTaken},
		{"después del borde superior", scheduled.Add(4*time.Hour + time.Second), StatusMissed},
	}

	for _, tc := range cases {
		logs := []doselogs.DoseLog{logAt("med-1", tc.taken)}
		doses := Build([]medications.Medication{m}, logs, now, SingleDay(d))
		if doses[0].Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, doses[0].Status)
		}
	}
}

func TestBuild_LogOtherMedication_DoesNotMatch(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 1, day(2026, 3, 1))
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	logs := []doselogs.DoseLog{logAt("med-2", time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC))}
	doses := Build([]medications.Medication{m}, logs, now, SingleDay(d))
	if doses[0].Status != StatusMissed {
		t.Fatalf("log de otro medicamento no debe matchear, got %s", doses[0].Status)
	}
}

func TestBuild_LateLog_StillCountsAsTaken(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 1, day(2026, 3, 1))
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	// Log a las 11:00 para la dosis de 08:00: tardío pero dentro de la ventana.
	logs := []doselogs.DoseLog{logAt("med-1", time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC))}
	doses := Build([]medications.Medication{m}, logs, now, SingleDay(d))
	if doses[0].Status != StatusTaken {
		t.Fatalf("expected taken for late-but-matching log, got %s", doses[0].Status)
	}
}

// -------------------------
// Modos
// -------------------------

func TestBuild_SingleDay_IncludesEverything(t *testing.T) {
	d := day(2026, 3, 10)
	m := med("med-1", "Ibuprofeno", 3, day(2026, 3, 1))
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, SingleDay(d))
	if len(doses) != 3 {
		t.Fatalf("single-day debe incluir las 3 ocurrencias, got %d", len(doses))
	}
}

func TestBuild_MultiDay_DropsElapsedUnlogged(t *testing.T) {
	m := med("med-1", "Ibuprofeno", 2, day(2026, 3, 1))

	// 13:00: la dosis de 08:00 venció (no due); la de 14:00 es futura.
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	start := day(2026, 3, 10)

	doses := Build([]medications.Medication{m}, nil, now, MultiDay(start, 2))

	// Día 1: solo 14:00. Día 2: ambas.
	if len(doses) != 3 {
		t.Fatalf("expected 3 doses (1 hoy + 2 mañana), got %d", len(doses))
	}
	if got := doses[0].ScheduledTime.Format("2006-01-02 15:04"); got != "2026-03-10 14:00" {
		t.Fatalf("first dose: got %s", got)
	}
	if !doses[0].IsToday || doses[0].IsTomorrow {
		t.Fatalf("first dose: expected is_today")
	}
	if !doses[1].IsTomorrow || !doses[2].IsTomorrow {
		t.Fatalf("remaining doses: expected is_tomorrow")
	}
}

func TestBuild_MultiDay_KeepsDueOccurrence(t *testing.T) {
	m := med("med-1", "Ibuprofeno", 2, day(2026, 3, 1))

	// 09:00: la dosis de 08:00 ya pasó pero sigue due (dentro de +4h).
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, MultiDay(day(2026, 3, 10), 1))
	if len(doses) != 2 {
		t.Fatalf("expected 2 doses (due + futura), got %d", len(doses))
	}
	if !doses[0].IsDue || doses[0].Status != StatusLate {
		t.Fatalf("08:00 dose: expected due+late, got due=%v status=%s", doses[0].IsDue, doses[0].Status)
	}
}

func TestBuild_MultiDay_MedicationStartsMidWindow(t *testing.T) {
	m := med("med-1", "Ibuprofeno", 1, day(2026, 3, 12))
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, MultiDay(day(2026, 3, 10), 7))
	if len(doses) != 5 {
		t.Fatalf("expected 5 doses (12 al 16), got %d", len(doses))
	}
	if got := doses[0].ScheduledTime.Format("2006-01-02"); got != "2026-03-12" {
		t.Fatalf("first dose day: got %s", got)
	}
	if !doses[0].IsUpcoming {
		t.Fatalf("first dose: expected is_upcoming (pasado mañana)")
	}
}

func TestBuild_EndedYesterday_Excluded(t *testing.T) {
	end := day(2026, 3, 9)
	m := med("med-1", "Ibuprofeno", 2, day(2026, 3, 1))
	m.EndDate = &end

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, SingleDay(day(2026, 3, 10)))
	if len(doses) != 0 {
		t.Fatalf("medicamento terminado ayer no debe aparecer hoy, got %d", len(doses))
	}
}

// -------------------------
// Orden y determinismo
// -------------------------

func TestBuild_TotalOrdering(t *testing.T) {
	a := med("med-b", "Paracetamol", 2, day(2026, 3, 1))
	b := med("med-a", "Amoxicilina", 2, day(2026, 3, 1))
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{a, b}, nil, now, SingleDay(day(2026, 3, 10)))
	if len(doses) != 4 {
		t.Fatalf("expected 4 doses, got %d", len(doses))
	}

	// Mismo horario => orden alfabético por nombre.
	if doses[0].Medication.Name != "Amoxicilina" || doses[1].Medication.Name != "Paracetamol" {
		t.Fatalf("expected name tiebreak at 08:00: %s, %s", doses[0].Medication.Name, doses[1].Medication.Name)
	}

	for i := 1; i < len(doses); i++ {
		if doses[i].ScheduledTime.Before(doses[i-1].ScheduledTime) {
			t.Fatalf("output no ordenado por horario en %d", i)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	m := med("med-1", "Ibuprofeno", 3, day(2026, 3, 1))
	logs := []doselogs.DoseLog{logAt("med-1", time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC))}
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	first := Build([]medications.Medication{m}, logs, now, SingleDay(day(2026, 3, 10)))
	second := Build([]medications.Medication{m}, logs, now, SingleDay(day(2026, 3, 10)))

	if len(first) != len(second) {
		t.Fatalf("same inputs produced different lengths")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same inputs diverged at %d", i)
		}
	}
}

func TestBuild_DoseNumbersOneBased(t *testing.T) {
	m := med("med-1", "Ibuprofeno", 3, day(2026, 3, 1))
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	doses := Build([]medications.Medication{m}, nil, now, SingleDay(day(2026, 3, 10)))
	for i, d := range doses {
		if d.DoseNumber != i+1 {
			t.Fatalf("expected dose_number %d, got %d", i+1, d.DoseNumber)
		}
	}
}
