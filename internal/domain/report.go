package domain

import (
	"sort"
	"time"
)

// DailyReport agrupa los tres reportes derivados de un día más el batch que
// los produjo. Es lo que el reporter de consola imprime.
type DailyReport struct {
	Date          time.Time
	Records       []QuoteRecord
	Rankings      map[Timeframe][]RankedEntry
	StrongLeads   []StrongLead
	Opportunities []InvestmentOpportunity
}

// TopMovers devuelve los strong leads con cambio de ranking distinto de 0,
// ordenados por |cambio| descendente, hasta n filas.
func (r DailyReport) TopMovers(n int) []StrongLead {
	var movers []StrongLead
	for _, l := range r.StrongLeads {
		if l.RankingChange != nil && *l.RankingChange != 0 {
			movers = append(movers, l)
		}
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return absInt(*movers[i].RankingChange) > absInt(*movers[j].RankingChange)
	})
	if len(movers) > n {
		movers = movers[:n]
	}
	return movers
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
