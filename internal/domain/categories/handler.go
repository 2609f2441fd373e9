package categories

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/domain/medications"
	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/categories", func(cr chi.Router) {
		cr.Post("/", createCategoryHandler(svc))
		cr.Get("/", listCategoriesHandler(svc))
		cr.Delete("/{categoryID}", deleteCategoryHandler(svc, medsSvc))
	})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// categoryResponse representa una categoría de medicamentos del usuario.
type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createCategoryHandler godoc
// @Summary Crear categoría
// @Description Crea una categoría de medicamentos para el usuario autenticado.
// @Tags categories
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createCategoryRequest true "Nombre de la categoría"
// @Success 201 {object} categoryResponse
// @Failure 400 {string} string "invalid json / nombre vacío"
// @Failure 401 {string} string "unauthorized"
// @Router /categories [post]
func createCategoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), claims.UserID, req.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCategoryResponse(c))
	}
}

// listCategoriesHandler godoc
// @Summary Listar categorías
// @Tags categories
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} categoryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /categories [get]
func listCategoriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]categoryResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCategoryResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteCategoryHandler godoc
// @Summary Eliminar categoría
// @Description Elimina una categoría del usuario. Si algún medicamento la referencia, responde 409 (igual que el producto original, que bloqueaba el borrado de categorías en uso).
// @Tags categories
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param categoryID path string true "ID de la categoría"
// @Success 204 {string} string "sin cuerpo"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "category not found"
// @Failure 409 {string} string "category in use"
// @Router /categories/{categoryID} [delete]
func deleteCategoryHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		catID := chi.URLParam(r, "categoryID")
		c, err := svc.GetByID(r.Context(), catID)
		if err != nil || c.UserID != claims.UserID {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		n, err := medsSvc.CountByCategory(r.Context(), claims.UserID, catID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if n > 0 {
			http.Error(w, "category in use", http.StatusConflict)
			return
		}

		if err := svc.Delete(r.Context(), catID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toCategoryResponse(c Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
