package adherence

// Summary replica el contrato del get_adherence_summary original:
// porcentaje global, desglose de medicamentos con dosis perdidas y serie diaria.
type Summary struct {
	AdherencePercentage int
	MissedMedications   []MissedMedication
	DayData             []DayAdherence
}

type MissedMedication struct {
	ID          string
	Name        string
	MissedCount int
}

type DayAdherence struct {
	Day                 string // YYYY-MM-DD
	AdherencePercentage int
}
