package reports

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/reports/logs.csv", exportLogsCSVHandler(svc))
}

// exportLogsCSVHandler godoc
// @Summary Exportar tomas a CSV
// @Description Descarga las tomas registradas con scheduled_time en [start, end] como CSV (columnas: Medication, Scheduled Time, Taken Time, On Time, Reward Earned). Sin parámetros: últimos 7 días.
// @Tags reports
// @Produce text/csv
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param start query string false "Inicio del período YYYY-MM-DD (default hoy-7d)"
// @Param end query string false "Fin del período YYYY-MM-DD (default hoy)"
// @Success 200 {string} string "archivo CSV"
// @Failure 400 {string} string "fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /reports/logs.csv [get]
func exportLogsCSVHandler(svc *Service) http.HandlerFunc {
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
			// Fin inclusivo hasta el último instante del día.
			end = d.AddDate(0, 0, 1).Add(-time.Second)
		}

		if end.Before(start) {
			http.Error(w, "invalid period", http.StatusBadRequest)
			return
		}

		filename := fmt.Sprintf("medication-logs-%s-to-%s.csv",
			start.Format(dateLayout), end.Format(dateLayout))

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := svc.WriteCSV(r.Context(), w, claims.UserID, start, end); err != nil {
			// Headers ya enviados si algo se escribió; mejor esfuerzo.
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
}
