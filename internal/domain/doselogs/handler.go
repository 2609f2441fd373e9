package doselogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/domain/medications"
	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/doses", func(dr chi.Router) {
		dr.Post("/log", logDoseHandler(svc, medsSvc))
		dr.Get("/", listDosesHandler(svc))
	})
}

// logDoseRequest registra una toma contra una ocurrencia agendada.
type logDoseRequest struct {
	MedicationID  string `json:"medication_id"`
	ScheduledTime string `json:"scheduled_time"` // RFC3339
}

// doseLogResponse representa una toma registrada.
type doseLogResponse struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medication_id"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	TimestampTaken time.Time `json:"timestamp_taken"`
	TakenOnTime    bool      `json:"taken_on_time"`
	RewardEarned   bool      `json:"reward_earned"`
}

// logDoseHandler godoc
// @Summary Registrar toma
// @Description Registra que el usuario tomó la dosis agendada en `scheduled_time`. El instante real de la toma lo pone el servidor. Un segundo registro dentro de la ventana de la misma ocurrencia responde 409.
// @Tags doses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body logDoseRequest true "Ocurrencia a registrar; scheduled_time en RFC3339"
// @Success 201 {object} doseLogResponse
// @Failure 400 {string} string "invalid json / scheduled_time inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Failure 409 {string} string "dose already logged"
// @Router /doses/log [post]
func logDoseHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req logDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledTime))
		if err != nil {
			http.Error(w, "scheduled_time must be RFC3339", http.StatusBadRequest)
			return
		}

		// 404 también para medicamentos de otro usuario, para no filtrar existencia.
		m, err := medsSvc.GetByID(r.Context(), strings.TrimSpace(req.MedicationID))
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		l, err := svc.Record(r.Context(), claims.UserID, RecordInput{
			MedicationID:  req.MedicationID,
			ScheduledTime: t,
		})
		if err != nil {
			if errors.Is(err, ErrDuplicate) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toDoseLogResponse(l))
	}
}

// listDosesHandler godoc
// @Summary Listar tomas
// @Description Lista las tomas registradas del usuario, ascendente por scheduled_time. `from`/`to` (RFC3339) filtran por scheduled_time.
// @Tags doses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medication_id query string false "Filtrar por medicamento"
// @Param from query string false "scheduled_time mínimo (RFC3339)"
// @Param to query string false "scheduled_time máximo (RFC3339)"
// @Success 200 {array} doseLogResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /doses [get]
func listDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toDoseLogResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{
		MedicationID: strings.TrimSpace(r.URL.Query().Get("medication_id")),
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func toDoseLogResponse(l DoseLog) doseLogResponse {
	return doseLogResponse{
		ID:             l.ID,
		MedicationID:   l.MedicationID,
		ScheduledTime:  l.ScheduledTime,
		TimestampTaken: l.TimestampTaken,
		TakenOnTime:    l.TakenOnTime,
		RewardEarned:   l.RewardEarned,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
