package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func report(symbol, date string, analysts ...string) *Report {
	return &Report{ID: "X_20240101_000000", Symbol: symbol, AnalysisDate: date, Analysts: analysts}
}

func TestFilterZeroValueMatchesEverything(t *testing.T) {
	assert.True(t, Filter{}.Matches(report("AAPL", "2024-01-01")))
	assert.True(t, Filter{}.Matches(report("", "")))
}

func TestFilterSymbolCaseInsensitive(t *testing.T) {
	f := Filter{Symbol: "aapl"}
	assert.True(t, f.Matches(report("AAPL", "2024-01-01")))
	assert.False(t, f.Matches(report("TSLA", "2024-01-01")))
}

func TestFilterAnalystMembership(t *testing.T) {
	f := Filter{Analyst: "market"}
	assert.True(t, f.Matches(report("AAPL", "2024-01-01", "market", "news")))
	assert.False(t, f.Matches(report("AAPL", "2024-01-01", "news")))
	assert.False(t, f.Matches(report("AAPL", "2024-01-01")))
}

func TestFilterDateRange(t *testing.T) {
	f := Filter{StartDate: "2024-01-01", EndDate: "2024-01-31"}
	assert.True(t, f.Matches(report("AAPL", "2024-01-01")))
	assert.True(t, f.Matches(report("AAPL", "2024-01-31")))
	assert.False(t, f.Matches(report("AAPL", "2023-12-31")))
	assert.False(t, f.Matches(report("AAPL", "2024-02-01")))
}

func TestFilterConjunction(t *testing.T) {
	f := Filter{Symbol: "AAPL", Analyst: "market", StartDate: "2024-01-01"}
	assert.True(t, f.Matches(report("aapl", "2024-01-15", "market")))
	assert.False(t, f.Matches(report("aapl", "2024-01-15", "news")))
	assert.False(t, f.Matches(report("tsla", "2024-01-15", "market")))
}
