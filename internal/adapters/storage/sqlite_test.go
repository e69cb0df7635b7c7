package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/comexbot/internal/adapters/storage"
	"github.com/alejandrodnm/comexbot/internal/domain"
)

var testDate = time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeLead(name string, ranking int, prev *int) domain.StrongLead {
	l := domain.StrongLead{
		Name:       name,
		Category:   domain.CategoryMetals,
		Date:       testDate,
		Ranking:    ranking,
		Timeframes: []domain.Timeframe{domain.TimeframeDaily, domain.TimeframeWeekly},
		Price:      2650.5,
		PctDaily:   domain.Ptr(2.1),
		PctWeekly:  domain.Ptr(3.4),
	}
	if prev != nil {
		l.PreviousRanking = prev
		change := *prev - ranking
		l.RankingChange = &change
	}
	return l
}

func TestStrongLeads_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	prev := 2
	leads := []domain.StrongLead{
		makeLead("Gold", 1, &prev),
		makeLead("Lithium", 2, nil), // sin snapshot previo
	}
	require.NoError(t, s.SaveStrongLeads(ctx, testDate, leads))

	got, err := s.StrongLeads(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 2)

	gold := got[0]
	assert.Equal(t, "Gold", gold.Name)
	assert.Equal(t, 1, gold.Ranking)
	assert.Equal(t, domain.CategoryMetals, gold.Category)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeDaily, domain.TimeframeWeekly}, gold.Timeframes)
	require.NotNil(t, gold.PreviousRanking)
	assert.Equal(t, 2, *gold.PreviousRanking)
	require.NotNil(t, gold.RankingChange)
	assert.Equal(t, 1, *gold.RankingChange)
	require.NotNil(t, gold.PctDaily)
	assert.InDelta(t, 2.1, *gold.PctDaily, 1e-9)

	// Los nil sobreviven el round-trip como NULL, no como 0
	lithium := got[1]
	assert.Nil(t, lithium.PreviousRanking)
	assert.Nil(t, lithium.RankingChange)
	assert.Nil(t, lithium.PctMonthly)
}

func TestStrongLeads_MissingDateIsEmpty(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.StrongLeads(context.Background(), testDate)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveStrongLeads_ReplacesForDate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := []domain.StrongLead{
		makeLead("Gold", 1, nil),
		makeLead("Silver", 2, nil),
		makeLead("Copper", 3, nil),
	}
	require.NoError(t, s.SaveStrongLeads(ctx, testDate, first))

	// Re-run del mismo día con otro resultado: reemplaza, no acumula
	second := []domain.StrongLead{makeLead("Lithium", 1, nil)}
	require.NoError(t, s.SaveStrongLeads(ctx, testDate, second))

	got, err := s.StrongLeads(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lithium", got[0].Name)
}

func TestPreviousStrongLeadDate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, ok, err := s.PreviousStrongLeadDate(ctx, testDate)
	require.NoError(t, err)
	assert.False(t, ok, "sin snapshots no hay fecha previa")

	day1 := testDate
	day2 := testDate.AddDate(0, 0, 1)
	require.NoError(t, s.SaveStrongLeads(ctx, day1, []domain.StrongLead{makeLead("Gold", 1, nil)}))
	require.NoError(t, s.SaveStrongLeads(ctx, day2, []domain.StrongLead{makeLead("Gold", 1, nil)}))

	// Estrictamente anterior: el propio día no cuenta
	prev, ok, err := s.PreviousStrongLeadDate(ctx, day1)
	require.NoError(t, err)
	assert.False(t, ok)

	prev, ok, err = s.PreviousStrongLeadDate(ctx, day2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day1, prev)

	// Hueco de varios días: devuelve el último disponible
	prev, ok, err = s.PreviousStrongLeadDate(ctx, testDate.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day2, prev)
}

func TestSaveQuotes_ReplacesForDate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	records := []domain.QuoteRecord{
		{
			Category:  domain.CategoryEnergy,
			Name:      "Crude Oil",
			Unit:      "USD/Bbl",
			Price:     71.2,
			Change:    0.5,
			PctDaily:  domain.Ptr(0.8),
			PctWeekly: nil,
			Date:      testDate,
		},
	}
	require.NoError(t, s.SaveQuotes(ctx, testDate, records))
	// Re-run del mismo día: replace-for-date, sin conflicto de PK
	require.NoError(t, s.SaveQuotes(ctx, testDate, records))
	require.NoError(t, s.SaveQuotes(ctx, testDate.AddDate(0, 0, 1), records))
}

func TestSaveRankingsAndOpportunities(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	entries := []domain.RankedEntry{
		{Timeframe: domain.TimeframeDaily, Category: domain.CategoryMetals, Name: "Gold", Rank: 1, Pct: 2.0},
		{Timeframe: domain.TimeframeWeekly, Category: domain.CategoryMetals, Name: "Gold", Rank: 1, Pct: 3.0},
	}
	require.NoError(t, s.SaveRankings(ctx, testDate, entries))
	require.NoError(t, s.SaveRankings(ctx, testDate, entries)) // replace, sin conflicto de PK

	opps := []domain.InvestmentOpportunity{
		{
			Name:               "Gold",
			Category:           domain.CategoryMetals,
			Date:               testDate,
			Horizon:            domain.HorizonShortTerm,
			Ranking:            1,
			SupportingHorizons: []string{"Daily/Weekly"},
			PctPrimary:         2.0,
			PctConfirm:         3.0,
		},
	}
	require.NoError(t, s.SaveOpportunities(ctx, testDate, opps))
	require.NoError(t, s.SaveOpportunities(ctx, testDate, opps))
}
