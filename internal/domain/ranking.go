package domain

import "sort"

// RankedEntry es la posición de un commodity dentro del ranking de su
// categoría para una ventana concreta.
type RankedEntry struct {
	Name      string
	Category  Category
	Timeframe Timeframe
	Rank      int     // 1-based, contiguo dentro de la categoría
	Pct       float64 // valor porcentual que produjo el rank
}

// Rank calcula el ranking cross-seccional para una ventana: los records se
// agrupan por categoría y cada grupo se ordena por porcentaje descendente.
// Los records sin dato para la ventana quedan fuera (no cuentan como 0%).
// Empates: porcentaje desc, luego nombre asc — el output es determinista
// ante cualquier permutación del input. No muta el input.
func Rank(records []QuoteRecord, tf Timeframe) []RankedEntry {
	byCategory := make(map[Category][]RankedEntry)
	for _, q := range records {
		pct := q.Pct(tf)
		if pct == nil {
			continue
		}
		byCategory[q.Category] = append(byCategory[q.Category], RankedEntry{
			Name:      q.Name,
			Category:  q.Category,
			Timeframe: tf,
			Pct:       *pct,
		})
	}

	var out []RankedEntry
	for _, cat := range Categories {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].Pct != group[j].Pct {
				return group[i].Pct > group[j].Pct
			}
			return group[i].Name < group[j].Name
		})
		for i := range group {
			group[i].Rank = i + 1
		}
		out = append(out, group...)
	}
	return out
}

// TopN devuelve los primeros n del ranking de cada categoría.
func TopN(records []QuoteRecord, tf Timeframe, n int) []RankedEntry {
	ranked := Rank(records, tf)
	var out []RankedEntry
	for _, e := range ranked {
		if e.Rank <= n {
			out = append(out, e)
		}
	}
	return out
}
