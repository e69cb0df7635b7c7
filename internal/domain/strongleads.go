package domain

import (
	"sort"
	"time"
)

// DefaultStrongLeadTopK es el umbral de rank por defecto para calificar
// como strong lead dentro de una ventana.
const DefaultStrongLeadTopK = 3

// StrongLead es un commodity que aparece en el top-K de su categoría en al
// menos dos ventanas a la vez (Daily/Weekly/Monthly).
type StrongLead struct {
	Name     string
	Category Category
	Date     time.Time

	Ranking         int  // posición en el ranking agregado del día
	PreviousRanking *int // ranking del snapshot anterior; nil si ayer no era lead
	RankingChange   *int // PreviousRanking - Ranking (positivo = subió); nil si no hay previo

	Timeframes []Timeframe // ventanas donde calificó, en orden D/W/M

	// Contexto de la fila para reportes y persistencia.
	Price      float64
	PctDaily   *float64
	PctWeekly  *float64
	PctMonthly *float64
}

// TimeframeLabel devuelve las ventanas calificadas en formato compacto "D,W".
func (s StrongLead) TimeframeLabel() string {
	label := ""
	for i, tf := range s.Timeframes {
		if i > 0 {
			label += ","
		}
		label += tf.Short()
	}
	return label
}

// DetectStrongLeads busca commodities en el top-k de ≥2 ventanas y los ordena
// en un ranking agregado: más ventanas primero, a igualdad menor suma de
// ranks por ventana, y a igualdad nombre asc. previous mapea nombre →
// ranking del snapshot anterior; un lead que ayer no estaba entra con
// PreviousRanking y RankingChange nil (sin baseline sintético). Un lead que
// desaparece simplemente no emite fila.
func DetectStrongLeads(records []QuoteRecord, previous map[string]int, date time.Time, k int) []StrongLead {
	if k <= 0 {
		k = DefaultStrongLeadTopK
	}

	type candidate struct {
		timeframes []Timeframe
		rankSum    int
	}
	candidates := make(map[string]*candidate)

	for _, tf := range RankingTimeframes {
		for _, e := range TopN(records, tf, k) {
			c, ok := candidates[e.Name]
			if !ok {
				c = &candidate{}
				candidates[e.Name] = c
			}
			c.timeframes = append(c.timeframes, tf)
			c.rankSum += e.Rank
		}
	}

	byName := make(map[string]QuoteRecord, len(records))
	for _, q := range records {
		byName[q.Name] = q
	}

	var leads []StrongLead
	for name, c := range candidates {
		if len(c.timeframes) < 2 {
			continue
		}
		q := byName[name]
		leads = append(leads, StrongLead{
			Name:       name,
			Category:   q.Category,
			Date:       date,
			Timeframes: c.timeframes,
			Price:      q.Price,
			PctDaily:   q.PctDaily,
			PctWeekly:  q.PctWeekly,
			PctMonthly: q.PctMonthly,
		})
	}

	rankSums := make(map[string]int, len(candidates))
	for name, c := range candidates {
		rankSums[name] = c.rankSum
	}

	sort.Slice(leads, func(i, j int) bool {
		li, lj := leads[i], leads[j]
		if len(li.Timeframes) != len(lj.Timeframes) {
			return len(li.Timeframes) > len(lj.Timeframes)
		}
		if rankSums[li.Name] != rankSums[lj.Name] {
			return rankSums[li.Name] < rankSums[lj.Name]
		}
		return li.Name < lj.Name
	})

	for i := range leads {
		leads[i].Ranking = i + 1
		if prev, ok := previous[leads[i].Name]; ok {
			p := prev
			change := p - leads[i].Ranking
			leads[i].PreviousRanking = &p
			leads[i].RankingChange = &change
		}
	}
	return leads
}
