package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Patch("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})
}

// createMedicationRequest es el cuerpo para registrar un medicamento del régimen.
type createMedicationRequest struct {
	Name            string  `json:"name"`
	Dose            string  `json:"dose"`
	FrequencyPerDay int     `json:"frequency_per_day"`
	StartDate       string  `json:"start_date"`         // YYYY-MM-DD
	EndDate         *string `json:"end_date,omitempty"` // YYYY-MM-DD, null = indefinido
	CategoryID      *string `json:"category_id,omitempty"`
}

type updateMedicationRequest struct {
	Name            *string `json:"name"`
	Dose            *string `json:"dose"`
	FrequencyPerDay *int    `json:"frequency_per_day"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	ClearEndDate    bool    `json:"clear_end_date"`
	CategoryID      *string `json:"category_id"`
	ClearCategory   bool    `json:"clear_category"`
}

// medicationResponse representa un medicamento devuelto por la API.
type medicationResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Dose            string    `json:"dose"`
	FrequencyPerDay int       `json:"frequency_per_day"`
	StartDate       string    `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	CategoryID      *string   `json:"category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento del régimen del usuario autenticado. Fechas en formato YYYY-MM-DD; end_date ausente o null significa indefinido. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fechas inválidas / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		// Una fecha malformada nunca se trata como "activo para siempre":
		// se corta acá con 400.
		end, err := parseOptionalDate(req.EndDate)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:            req.Name,
			Dose:            req.Dose,
			FrequencyPerDay: req.FrequencyPerDay,
			StartDate:       start,
			EndDate:         end,
			CategoryID:      req.CategoryID,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista los medicamentos del usuario, ordenados por nombre. `active_on` filtra los activos en esa fecha (lo usan las pantallas de registro de tomas y recordatorios).
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param active_on query string false "Día YYYY-MM-DD; solo medicamentos activos ese día"
// @Param category_id query string false "Filtrar por categoría"
// @Success 200 {array} medicationResponse
// @Failure 400 {string} string "active_on inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter := ListFilter{
			CategoryID: strings.TrimSpace(r.URL.Query().Get("category_id")),
		}
		if v := strings.TrimSpace(r.URL.Query().Get("active_on")); v != "" {
			d, err := time.Parse(dateLayout, v)
			if err != nil {
				http.Error(w, "active_on must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			filter.ActiveOn = &d
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil || m.UserID != claims.UserID {
			// Datos de otro usuario: 404, no 403, para no filtrar existencia.
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Actualizar medicamento
// @Description Actualización parcial. Campos ausentes no cambian; `clear_end_date` vuelve el medicamento a indefinido y `clear_category` lo saca de su categoría.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a actualizar"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fechas inválidas / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [patch]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), medID)
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:            req.Name,
			Dose:            req.Dose,
			FrequencyPerDay: req.FrequencyPerDay,
			ClearEndDate:    req.ClearEndDate,
			CategoryID:      req.CategoryID,
			ClearCategory:   req.ClearCategory,
		}
		if req.StartDate != nil {
			d, err := time.Parse(dateLayout, strings.TrimSpace(*req.StartDate))
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &d
		}
		if req.EndDate != nil {
			d, err := time.Parse(dateLayout, strings.TrimSpace(*req.EndDate))
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.EndDate = &d
		}

		updated, err := svc.Update(r.Context(), medID, in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

// deleteMedicationHandler godoc
// @Summary Eliminar medicamento
// @Tags medications
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 204 {string} string "sin cuerpo"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), medID)
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), medID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func parseOptionalDate(p *string) (*time.Time, error) {
	if p == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toMedicationResponse(m Medication) medicationResponse {
	resp := medicationResponse{
		ID:              m.ID,
		Name:            m.Name,
		Dose:            m.Dose,
		FrequencyPerDay: m.FrequencyPerDay,
		StartDate:       m.StartDate.Format(dateLayout),
		CategoryID:      m.CategoryID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.EndDate != nil {
		v := m.EndDate.Format(dateLayout)
		resp.EndDate = &v
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
