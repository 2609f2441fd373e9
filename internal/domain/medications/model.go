package medications

import "time"

// Medication representa un medicamento del régimen de un usuario.
type Medication struct {
	ID     string
	UserID string

	Name string
	Dose string // texto libre: "500 mg", "2 tabletas"

	// FrequencyPerDay es la cantidad de tomas por día (>= 1).
	FrequencyPerDay int

	// Rango de actividad a granularidad de día calendario, ambos extremos
	// inclusive. EndDate nil = indefinido.
	StartDate time.Time
	EndDate   *time.Time

	CategoryID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
