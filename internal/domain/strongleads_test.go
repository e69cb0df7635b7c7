package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStrongLeads_RequiresTwoTimeframes(t *testing.T) {
	records := []QuoteRecord{
		// Lithium: top en Daily y Weekly → lead
		makeQuote(CategoryMetals, "Lithium", Ptr(5.0), Ptr(4.0), Ptr(-0.5)),
		// Gold: top solo en Monthly → no lead
		makeQuote(CategoryMetals, "Gold", Ptr(-1.0), Ptr(-2.0), Ptr(6.0)),
		// Relleno para que Gold no entre en top-1 de Daily/Weekly
		makeQuote(CategoryMetals, "Silver", Ptr(2.0), Ptr(1.0), Ptr(1.0)),
	}

	leads := DetectStrongLeads(records, nil, testDate, 1)
	require.Len(t, leads, 1)
	assert.Equal(t, "Lithium", leads[0].Name)
	assert.Equal(t, []Timeframe{TimeframeDaily, TimeframeWeekly}, leads[0].Timeframes)
	assert.Equal(t, "D,W", leads[0].TimeframeLabel())
}

func TestDetectStrongLeads_AggregateOrdering(t *testing.T) {
	records := []QuoteRecord{
		// Tres ventanas → primero aunque sus ranks sean peores
		makeQuote(CategoryEnergy, "Natural Gas", Ptr(2.0), Ptr(2.0), Ptr(2.0)),
		// Dos ventanas, rank 1+1
		makeQuote(CategoryEnergy, "Crude Oil", Ptr(3.0), Ptr(3.0), nil),
		// Dos ventanas, rank 3+3 (peor suma)
		makeQuote(CategoryEnergy, "Coal", Ptr(1.0), Ptr(1.0), nil),
	}

	leads := DetectStrongLeads(records, nil, testDate, 3)
	require.Len(t, leads, 3)
	assert.Equal(t, "Natural Gas", leads[0].Name)
	assert.Equal(t, "Crude Oil", leads[1].Name)
	assert.Equal(t, "Coal", leads[2].Name)
	for i, l := range leads {
		assert.Equal(t, i+1, l.Ranking)
	}
}

func TestDetectStrongLeads_TieBreakByName(t *testing.T) {
	// Mismo número de ventanas y misma suma de ranks
	records := []QuoteRecord{
		makeQuote(CategoryMetals, "Zinc", Ptr(4.0), Ptr(1.0), nil),
		makeQuote(CategoryMetals, "Copper", Ptr(1.0), Ptr(4.0), nil),
	}

	leads := DetectStrongLeads(records, nil, testDate, 2)
	require.Len(t, leads, 2)
	assert.Equal(t, "Copper", leads[0].Name)
	assert.Equal(t, "Zinc", leads[1].Name)
}

func TestDetectStrongLeads_RankingChange(t *testing.T) {
	records := []QuoteRecord{
		makeQuote(CategoryMetals, "Gold", Ptr(5.0), Ptr(5.0), Ptr(5.0)),
		makeQuote(CategoryMetals, "Silver", Ptr(4.0), Ptr(4.0), Ptr(4.0)),
		makeQuote(CategoryMetals, "Copper", Ptr(3.0), Ptr(3.0), Ptr(3.0)),
		makeQuote(CategoryMetals, "Zinc", Ptr(2.5), Ptr(2.5), Ptr(2.5)),
		makeQuote(CategoryMetals, "Lithium", Ptr(2.0), Ptr(2.0), Ptr(2.0)),
	}
	// Ayer Lithium era 2º; hoy cae al 5º → delta 2-5 = -3
	previous := map[string]int{"Lithium": 2, "Gold": 3}

	leads := DetectStrongLeads(records, previous, testDate, 5)
	require.Len(t, leads, 5)

	byName := map[string]StrongLead{}
	for _, l := range leads {
		byName[l.Name] = l
	}

	lithium := byName["Lithium"]
	assert.Equal(t, 5, lithium.Ranking)
	require.NotNil(t, lithium.PreviousRanking)
	assert.Equal(t, 2, *lithium.PreviousRanking)
	require.NotNil(t, lithium.RankingChange)
	assert.Equal(t, -3, *lithium.RankingChange)

	gold := byName["Gold"]
	assert.Equal(t, 1, gold.Ranking)
	require.NotNil(t, gold.RankingChange)
	assert.Equal(t, 2, *gold.RankingChange) // subió del 3 al 1

	// Sin snapshot previo: ambos campos nil, no un 0 sintético
	silver := byName["Silver"]
	assert.Nil(t, silver.PreviousRanking)
	assert.Nil(t, silver.RankingChange)
}

func TestDetectStrongLeads_EmptyPrevious(t *testing.T) {
	records := []QuoteRecord{
		makeQuote(CategoryEnergy, "Crude Oil", Ptr(2.0), Ptr(2.0), nil),
	}

	leads := DetectStrongLeads(records, nil, testDate, 3)
	require.Len(t, leads, 1)
	assert.Nil(t, leads[0].PreviousRanking)
	assert.Nil(t, leads[0].RankingChange)
}
