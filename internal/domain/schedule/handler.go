package schedule

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/schedule", func(sr chi.Router) {
		sr.Get("/today", todayScheduleHandler(svc))
		sr.Get("/reminders", remindersHandler(svc))
	})
}

// scheduledDoseResponse representa una ocurrencia derivada de la agenda.
type scheduledDoseResponse struct {
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dose           string    `json:"dose"`
	DoseNumber     int       `json:"dose_number"`
	ScheduledTime  time.Time `json:"scheduled_time"`

	Status DoseStatus `json:"status" enums:"pending,taken,late,missed"`

	IsToday    bool `json:"is_today"`
	IsTomorrow bool `json:"is_tomorrow"`
	IsUpcoming bool `json:"is_upcoming"`
	IsDue      bool `json:"is_due"`
}

// todayScheduleHandler godoc
// @Summary Agenda de hoy
// @Description Devuelve todas las ocurrencias de hoy del usuario, clasificadas (pending/late/missed/taken), ordenadas por horario. Es la fuente de la pantalla de registro de tomas.
// @Tags schedule
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} scheduledDoseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /schedule/today [get]
func todayScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		doses, err := svc.Today(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(doses))
	}
}

// remindersHandler godoc
// @Summary Recordatorios
// @Description Ventana de los próximos días (default 7) con las ocurrencias futuras o actualmente due, más los flags is_today/is_tomorrow/is_upcoming/is_due. Las ocurrencias vencidas sin registrar no aparecen en esta vista.
// @Tags schedule
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param days query int false "Cantidad de días de la ventana (1-31, default 7)"
// @Success 200 {array} scheduledDoseResponse
// @Failure 400 {string} string "days inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /schedule/reminders [get]
func remindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		days := 7
		if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 31 {
				http.Error(w, "days must be 1-31", http.StatusBadRequest)
				return
			}
			days = n
		}

		doses, err := svc.Reminders(r.Context(), claims.UserID, days)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(doses))
	}
}

func toResponses(doses []ScheduledDose) []scheduledDoseResponse {
	out := make([]scheduledDoseResponse, 0, len(doses))
	for _, d := range doses {
		out = append(out, scheduledDoseResponse{
			MedicationID:   d.Medication.ID,
			MedicationName: d.Medication.Name,
			Dose:           d.Medication.Dose,
			DoseNumber:     d.DoseNumber,
			ScheduledTime:  d.ScheduledTime,
			Status:         d.Status,
			IsToday:        d.IsToday,
			IsTomorrow:     d.IsTomorrow,
			IsUpcoming:     d.IsUpcoming,
			IsDue:          d.IsDue,
		})
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
