package domain

import (
	"sort"
	"time"
)

// DefaultMomentumMinPct es el umbral mínimo (en %) del porcentaje primario
// para calificar como oportunidad de inversión.
const DefaultMomentumMinPct = 1.0

// Horizon es el horizonte temporal de una oportunidad de inversión.
type Horizon int

const (
	HorizonShortTerm Horizon = iota
	HorizonMidTerm
	HorizonLongTerm
)

// Horizons lista los buckets en orden corto → largo.
var Horizons = []Horizon{HorizonShortTerm, HorizonMidTerm, HorizonLongTerm}

func (h Horizon) String() string {
	switch h {
	case HorizonShortTerm:
		return "Short-term"
	case HorizonMidTerm:
		return "Mid-term"
	case HorizonLongTerm:
		return "Long-term"
	default:
		return "?"
	}
}

// InvestmentOpportunity es un commodity clasificado en un bucket de horizonte
// por confirmación de momentum entre dos ventanas adyacentes.
type InvestmentOpportunity struct {
	Name     string
	Category Category
	Date     time.Time
	Horizon  Horizon
	Ranking  int // 1-based dentro del bucket, por porcentaje primario desc

	// SupportingHorizons documenta qué par de ventanas confirmó la
	// clasificación ("Daily/Weekly", ...).
	SupportingHorizons []string

	PctPrimary float64 // porcentaje de la ventana corta del par
	PctConfirm float64 // porcentaje de la ventana larga del par
}

// momentumRule define un bucket: el par de ventanas (corta, larga) que debe
// coincidir en signo, con |corta| >= minPct.
type momentumRule struct {
	horizon Horizon
	primary Timeframe
	confirm Timeframe
}

var momentumRules = []momentumRule{
	{HorizonShortTerm, TimeframeDaily, TimeframeWeekly},
	{HorizonMidTerm, TimeframeWeekly, TimeframeMonthly},
	{HorizonLongTerm, TimeframeMonthly, TimeframeYearly},
}

// Classify agrupa los records en buckets Short/Mid/Long-term. Un movimiento
// cuenta solo si la ventana adyacente lo corrobora: ambos porcentajes
// presentes, mismo signo estricto (0 no tiene dirección) y |primario| >=
// minPct. Los buckets son clasificaciones independientes: el mismo commodity
// puede aparecer en varios. Empates dentro del bucket: nombre asc.
func Classify(records []QuoteRecord, date time.Time, minPct float64) []InvestmentOpportunity {
	if minPct <= 0 {
		minPct = DefaultMomentumMinPct
	}

	var out []InvestmentOpportunity
	for _, rule := range momentumRules {
		var bucket []InvestmentOpportunity
		for _, q := range records {
			primary, confirm := q.Pct(rule.primary), q.Pct(rule.confirm)
			if primary == nil || confirm == nil {
				continue
			}
			if !sameSign(*primary, *confirm) {
				continue
			}
			if abs(*primary) < minPct {
				continue
			}
			bucket = append(bucket, InvestmentOpportunity{
				Name:     q.Name,
				Category: q.Category,
				Date:     date,
				Horizon:  rule.horizon,
				SupportingHorizons: []string{
					rule.primary.String() + "/" + rule.confirm.String(),
				},
				PctPrimary: *primary,
				PctConfirm: *confirm,
			})
		}

		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].PctPrimary != bucket[j].PctPrimary {
				return bucket[i].PctPrimary > bucket[j].PctPrimary
			}
			return bucket[i].Name < bucket[j].Name
		})
		for i := range bucket {
			bucket[i].Ranking = i + 1
		}
		out = append(out, bucket...)
	}
	return out
}

// sameSign exige dirección estricta: ambos positivos o ambos negativos.
func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
