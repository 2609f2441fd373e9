package adherence

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/adherence/summary", summaryHandler(svc))
}

// summaryResponse es el resumen de adherencia del período.
type summaryResponse struct {
	AdherencePercentage int                        `json:"adherence_percentage"`
	MissedMedications   []missedMedicationResponse `json:"missed_medications"`
	DayData             []dayAdherenceResponse     `json:"day_data"`
}

type missedMedicationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MissedCount int    `json:"missed_count"`
}

type dayAdherenceResponse struct {
	Day                 string `json:"day"`
	AdherencePercentage int    `json:"adherence_percentage"`
}

// summaryHandler godoc
// @Summary Resumen de adherencia
// @Description Porcentaje de adherencia, medicamentos con dosis perdidas y serie diaria para [start, end]. Sin parámetros: últimos 7 días. Fechas en YYYY-MM-DD.
// @Tags adherence
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param start query string false "Inicio del período YYYY-MM-DD (default hoy-7d)"
// @Param end query string false "Fin del período YYYY-MM-DD (default hoy)"
// @Success 200 {object} summaryResponse
// @Failure 400 {string} string "fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /adherence/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		now := svc.now()
		start := now.AddDate(0, 0, -7)
		end := now

		if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "start must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = d
		}
		if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "end must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = d
		}

		sum, err := svc.GetSummary(r.Context(), claims.UserID, start, end)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "invalid period", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSummaryResponse(sum))
	}
}

func toSummaryResponse(s Summary) summaryResponse {
	out := summaryResponse{
		AdherencePercentage: s.AdherencePercentage,
		MissedMedications:   make([]missedMedicationResponse, 0, len(s.MissedMedications)),
		DayData:             make([]dayAdherenceResponse, 0, len(s.DayData)),
	}
	for _, m := range s.MissedMedications {
		out.MissedMedications = append(out.MissedMedications, missedMedicationResponse{
			ID:          m.ID,
			Name:        m.Name,
			MissedCount: m.MissedCount,
		})
	}
	for _, d := range s.DayData {
		out.DayData = append(out.DayData, dayAdherenceResponse{
			Day:                 d.Day,
			AdherencePercentage: d.AdherencePercentage,
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
