package reports

import "strings"

// Filter is a conjunction of optional clauses shared by every backend.
// Zero value means "no constraint".
type Filter struct {
	Symbol    string // exact match, case-insensitive
	Analyst   string // membership test on Analysts
	StartDate string // inclusive, YYYY-MM-DD on AnalysisDate
	EndDate   string // inclusive, YYYY-MM-DD on AnalysisDate
}

// Matches is the reference filter semantics. The file backend applies it
// directly; the document backend translates it into a query with the same
// meaning.
func (f Filter) Matches(r *Report) bool {
	if f.Symbol != "" && !strings.EqualFold(f.Symbol, r.Symbol) {
		return false
	}
	if f.Analyst != "" {
		found := false
		for _, a := range r.Analysts {
			if a == f.Analyst {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	// YYYY-MM-DD compares correctly as strings
	if f.StartDate != "" && r.AnalysisDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && r.AnalysisDate > f.EndDate {
		return false
	}
	return true
}
