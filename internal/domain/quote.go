package domain

import "time"

// Category es el grupo de activos al que pertenece un commodity en la tabla
// de Trading Economics. La categoría de un nombre es inmutable dentro de un run.
type Category int

const (
	CategoryEnergy Category = iota
	CategoryMetals
	CategoryAgriculture
	CategoryLivestock
	CategoryIndustrial
)

// Categories lista todas las categorías en el orden de la tabla fuente.
var Categories = []Category{
	CategoryEnergy,
	CategoryMetals,
	CategoryAgriculture,
	CategoryLivestock,
	CategoryIndustrial,
}

func (c Category) String() string {
	switch c {
	case CategoryEnergy:
		return "Energy"
	case CategoryMetals:
		return "Metals"
	case CategoryAgriculture:
		return "Agriculture"
	case CategoryLivestock:
		return "Livestock"
	case CategoryIndustrial:
		return "Industrial"
	default:
		return "Unknown"
	}
}

// ParseCategory mapea el texto de un header de la tabla a una Category.
// Devuelve ok=false para headers que no son categoría (o categorías nuevas
// que aún no soportamos).
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "Energy":
		return CategoryEnergy, true
	case "Metals":
		return CategoryMetals, true
	case "Agricultural", "Agriculture":
		return CategoryAgriculture, true
	case "Livestock":
		return CategoryLivestock, true
	case "Industrial":
		return CategoryIndustrial, true
	default:
		return 0, false
	}
}

// Timeframe es una ventana de cambio porcentual de la tabla fuente.
type Timeframe int

const (
	TimeframeDaily Timeframe = iota
	TimeframeWeekly
	TimeframeMonthly
	TimeframeYearly
	Timeframe3Year
)

// RankingTimeframes son las ventanas sobre las que se calculan rankings
// cross-seccionales (las ventanas largas son solo confirmación de momentum).
var RankingTimeframes = []Timeframe{TimeframeDaily, TimeframeWeekly, TimeframeMonthly}

func (t Timeframe) String() string {
	switch t {
	case TimeframeDaily:
		return "Daily"
	case TimeframeWeekly:
		return "Weekly"
	case TimeframeMonthly:
		return "Monthly"
	case TimeframeYearly:
		return "Yearly"
	case Timeframe3Year:
		return "3Y"
	default:
		return "?"
	}
}

// Short devuelve la inicial usada en columnas compactas (D/W/M/Y/3Y).
func (t Timeframe) Short() string {
	switch t {
	case TimeframeDaily:
		return "D"
	case TimeframeWeekly:
		return "W"
	case TimeframeMonthly:
		return "M"
	case TimeframeYearly:
		return "Y"
	case Timeframe3Year:
		return "3Y"
	default:
		return "?"
	}
}

// QuoteRecord es una fila de la tabla de commodities para un día.
// Los porcentajes son punteros: la fuente omite celdas (p.ej. sin histórico
// de 3 años) y "sin dato" NO es lo mismo que 0%.
type QuoteRecord struct {
	Category Category
	Name     string // único dentro de la categoría para un día
	Unit     string // "USD/Bbl", "USD/t.oz", ...
	Price    float64
	Change   float64 // cambio absoluto del día

	PctDaily   *float64
	PctWeekly  *float64
	PctMonthly *float64
	PctYearly  *float64
	Pct3Year   *float64

	Date time.Time // día calendario del batch
}

// Pct devuelve el porcentaje de la ventana dada, o nil si no está cotizado.
func (q QuoteRecord) Pct(tf Timeframe) *float64 {
	switch tf {
	case TimeframeDaily:
		return q.PctDaily
	case TimeframeWeekly:
		return q.PctWeekly
	case TimeframeMonthly:
		return q.PctMonthly
	case TimeframeYearly:
		return q.PctYearly
	case Timeframe3Year:
		return q.Pct3Year
	default:
		return nil
	}
}

// Ptr es un helper para construir porcentajes opcionales en tests y fixtures.
func Ptr(v float64) *float64 {
	return &v
}
