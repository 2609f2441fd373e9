package categories

import "time"

// Category agrupa medicamentos del usuario ("Crónicos", "Vitaminas", etc.).
// El core de schedule no la usa; es puramente organizativa.
type Category struct {
	ID     string
	UserID string

	Name string

	CreatedAt time.Time
	UpdatedAt time.Time
}
