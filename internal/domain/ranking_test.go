package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)

func makeQuote(cat Category, name string, daily, weekly, monthly *float64) QuoteRecord {
	return QuoteRecord{
		Category:   cat,
		Name:       name,
		Unit:       "USD/t",
		Price:      100,
		PctDaily:   daily,
		PctWeekly:  weekly,
		PctMonthly: monthly,
		Date:       testDate,
	}
}

func TestRank_PerCategoryContiguous(t *testing.T) {
	records := []QuoteRecord{
		makeQuote(CategoryEnergy, "Crude Oil", Ptr(1.0), nil, nil),
		makeQuote(CategoryEnergy, "Natural Gas", Ptr(3.5), nil, nil),
		makeQuote(CategoryEnergy, "Coal", Ptr(-0.2), nil, nil),
		makeQuote(CategoryMetals, "Gold", Ptr(2.0), nil, nil),
		makeQuote(CategoryMetals, "Silver", Ptr(0.5), nil, nil),
	}

	ranked := Rank(records, TimeframeDaily)
	require.Len(t, ranked, 5)

	// Cada categoría arranca en 1 y es contigua
	byCategory := map[Category][]RankedEntry{}
	for _, e := range ranked {
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}
	for cat, group := range byCategory {
		for i, e := range group {
			assert.Equal(t, i+1, e.Rank, "category %s", cat)
		}
	}

	// Energy ordenado por pct desc
	assert.Equal(t, "Natural Gas", byCategory[CategoryEnergy][0].Name)
	assert.Equal(t, "Crude Oil", byCategory[CategoryEnergy][1].Name)
	assert.Equal(t, "Coal", byCategory[CategoryEnergy][2].Name)
}

func TestRank_NilPctExcluded(t *testing.T) {
	records := []QuoteRecord{
		makeQuote(CategoryMetals, "Gold", Ptr(2.0), nil, nil),
		makeQuote(CategoryMetals, "Lithium", nil, Ptr(4.0), nil), // sin daily
	}

	daily := Rank(records, TimeframeDaily)
	require.Len(t, daily, 1)
	assert.Equal(t, "Gold", daily[0].Name)

	// nil no es 0: Lithium no aparece en absoluto, ni al final
	for _, e := range daily {
		assert.NotEqual(t, "Lithium", e.Name)
	}

	weekly := Rank(records, TimeframeWeekly)
	require.Len(t, weekly, 1)
	assert.Equal(t, "Lithium", weekly[0].Name)
}

func TestRank_TieBreakDeterministic(t *testing.T) {
	a := makeQuote(CategoryMetals, "Copper", Ptr(1.5), nil, nil)
	b := makeQuote(CategoryMetals, "Aluminum", Ptr(1.5), nil, nil)
	c := makeQuote(CategoryMetals, "Zinc", Ptr(1.5), nil, nil)

	// Mismo pct: orden alfabético asc, da igual el orden del input
	perms := [][]QuoteRecord{
		{a, b, c}, {c, b, a}, {b, a, c}, {c, a, b},
	}
	for _, perm := range perms {
		ranked := Rank(perm, TimeframeDaily)
		require.Len(t, ranked, 3)
		assert.Equal(t, "Aluminum", ranked[0].Name)
		assert.Equal(t, "Copper", ranked[1].Name)
		assert.Equal(t, "Zinc", ranked[2].Name)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	records := []QuoteRecord{
		makeQuote(CategoryEnergy, "Coal", Ptr(-0.2), nil, nil),
		makeQuote(CategoryEnergy, "Crude Oil", Ptr(1.0), nil, nil),
	}

	Rank(records, TimeframeDaily)
	assert.Equal(t, "Coal", records[0].Name)
	assert.Equal(t, "Crude Oil", records[1].Name)
}

func TestTopN_LimitsPerCategory(t *testing.T) {
	var records []QuoteRecord
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		records = append(records, makeQuote(CategoryEnergy, name, Ptr(float64(10-i)), nil, nil))
	}
	records = append(records, makeQuote(CategoryMetals, "Gold", Ptr(1.0), nil, nil))

	top := TopN(records, TimeframeDaily, 5)

	energy := 0
	for _, e := range top {
		if e.Category == CategoryEnergy {
			energy++
			assert.LessOrEqual(t, e.Rank, 5)
		}
	}
	assert.Equal(t, 5, energy)

	// Metals solo tiene 1 record: el top-5 devuelve esa única entrada
	metals := 0
	for _, e := range top {
		if e.Category == CategoryMetals {
			metals++
		}
	}
	assert.Equal(t, 1, metals)
}
