package adherence

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
	"med-adherence/internal/domain/schedule"
)

var ErrInvalidInput = errors.New("invalid input")

const dateLayout = "2006-01-02"

// Service calcula la adherencia reproduciendo la agenda con el core de
// schedule y contando ocurrencias resueltas. Una ocurrencia cuenta en el
// denominador cuando ya quedó resuelta (taken o missed); las pending/late
// todavía pueden registrarse y no suman ni restan.
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

// GetSummary calcula la adherencia del usuario en [start, end], ambos
// extremos inclusive, a granularidad de día.
func (s *Service) GetSummary(ctx context.Context, userID string, start, end time.Time) (Summary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Summary{}, ErrInvalidInput
	}

	startDay := startOfDay(start)
	endDay := startOfDay(end)
	if endDay.Before(startDay) {
		return Summary{}, ErrInvalidInput
	}

	days := int(endDay.Sub(startDay).Hours()/24) + 1

	meds, err := s.meds.ListByUser(ctx, userID, medications.ListFilter{})
	if err != nil {
		return Summary{}, err
	}

	// Logs por timestamp_taken cubriendo la ventana de atribución de todas
	// las ocurrencias del rango.
	from := startDay.Add(-2 * time.Hour)
	to := endDay.AddDate(0, 0, 1).Add(4 * time.Hour)
	logs, err := s.logs.ListByUser(ctx, userID, doselogs.ListFilter{
		TakenFrom: &from,
		TakenTo:   &to,
	})
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	doses := schedule.Build(meds, logs, now, schedule.Window{
		Mode:  schedule.ModeSingleDay, // incluye todo, la agregación decide
		Start: startDay,
		Days:  days,
	})

	var takenTotal, missedTotal int
	missedByMed := map[string]int{}
	medNames := map[string]string{}

	type dayCount struct{ taken, missed int }
	perDay := map[string]*dayCount{}

	for _, d := range doses {
		day := d.ScheduledTime.Format(dateLayout)
		dc := perDay[day]
		if dc == nil {
			dc = &dayCount{}
			perDay[day] = dc
		}

		switch d.Status {
		case schedule.StatusTaken:
			takenTotal++
			dc.taken++
		case schedule.StatusMissed:
			missedTotal++
			dc.missed++
			missedByMed[d.Medication.ID]++
			medNames[d.Medication.ID] = d.Medication.Name
		}
	}

	out := Summary{
		AdherencePercentage: percentage(takenTotal, takenTotal+missedTotal),
		MissedMedications:   make([]MissedMedication, 0, len(missedByMed)),
		DayData:             make([]DayAdherence, 0, days),
	}

	for id, n := range missedByMed {
		out.MissedMedications = append(out.MissedMedications, MissedMedication{
			ID:          id,
			Name:        medNames[id],
			MissedCount: n,
		})
	}
	// Más dosis perdidas primero; desempate por nombre para salida estable.
	sort.Slice(out.MissedMedications, func(i, j int) bool {
		a, b := out.MissedMedications[i], out.MissedMedications[j]
		if a.MissedCount != b.MissedCount {
			return a.MissedCount > b.MissedCount
		}
		return a.Name < b.Name
	})

	// Serie diaria solo hasta hoy: los días futuros no tienen nada resuelto.
	today := startOfDay(now)
	for off := 0; off < days; off++ {
		day := startDay.AddDate(0, 0, off)
		if day.After(today) {
			break
		}
		key := day.Format(dateLayout)
		dc := perDay[key]
		if dc == nil {
			dc = &dayCount{}
		}
		out.DayData = append(out.DayData, DayAdherence{
			Day:                 key,
			AdherencePercentage: percentage(dc.taken, dc.taken+dc.missed),
		})
	}

	return out, nil
}

func percentage(taken, total int) int {
	if total == 0 {
		return 0
	}
	// Redondeo al entero más cercano, como mostraba la UI original.
	return (taken*100 + total/2) / total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
