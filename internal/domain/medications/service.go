package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// maxFrequencyPerDay es el tope del agendador (un slot por minuto en su
// ventana de 12h); más tomas por día de las que puede agendar no tienen sentido.
const maxFrequencyPerDay = 720

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name            string
	Dose            string
	FrequencyPerDay int
	StartDate       time.Time
	EndDate         *time.Time
	CategoryID      *string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(userID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Dose) == "" {
		return Medication{}, ErrInvalidInput
	}
	// En el borde del API la frecuencia se rechaza; el core de schedule además
	// clampea por si llega data vieja con otro origen.
	if in.FrequencyPerDay < 1 || in.FrequencyPerDay > maxFrequencyPerDay {
		return Medication{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Medication{}, ErrInvalidInput
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            strings.TrimSpace(in.Name),
		Dose:            strings.TrimSpace(in.Dose),
		FrequencyPerDay: in.FrequencyPerDay,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		CategoryID:      normalizeID(in.CategoryID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, filter)
}

// UpdateInput: campos nil = sin cambio. ClearEndDate permite volver un
// medicamento a "indefinido" (no expresable con *time.Time nil = sin cambio).
type UpdateInput struct {
	Name            *string
	Dose            *string
	FrequencyPerDay *int
	StartDate       *time.Time
	EndDate         *time.Time
	ClearEndDate    bool
	CategoryID      *string
	ClearCategory   bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dose != nil {
		if strings.TrimSpace(*in.Dose) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Dose = strings.TrimSpace(*in.Dose)
	}
	if in.FrequencyPerDay != nil {
		if *in.FrequencyPerDay < 1 || *in.FrequencyPerDay > maxFrequencyPerDay {
			return Medication{}, ErrInvalidInput
		}
		m.FrequencyPerDay = *in.FrequencyPerDay
	}
	if in.StartDate != nil {
		m.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		m.EndDate = nil
	} else if in.EndDate != nil {
		m.EndDate = in.EndDate
	}
	if in.ClearCategory {
		m.CategoryID = nil
	} else if in.CategoryID != nil {
		m.CategoryID = normalizeID(in.CategoryID)
	}

	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return Medication{}, ErrInvalidInput
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// CountByCategory lo consume el handler de categories para validar borrados.
// Expuesto acá para evitar ciclos de imports entre módulos.
func (s *Service) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	userID = strings.TrimSpace(userID)
	categoryID = strings.TrimSpace(categoryID)
	if userID == "" || categoryID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.CountByCategory(ctx, userID, categoryID)
}

func normalizeID(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
