// Package varates resolves a VA disability rating into a monthly benefit
// amount for the assessment runtime's "va_income_lookup" derived field
// (§6 "VA disability rate table").
package varates

import (
	"encoding/json"
	"os"
	"sort"
)

// Bracket is one rating threshold and the monthly amounts it pays, with and
// without dependents. Ratings are matched to the highest bracket whose
// MinRating is <= the reported rating.
type Bracket struct {
	MinRating           int     `json:"min_rating"`
	MonthlyAlone        float64 `json:"monthly_alone"`
	MonthlyWithDependents float64 `json:"monthly_with_dependents"`
}

// Table is an ordered set of rating brackets.
type Table struct {
	Brackets []Bracket `json:"brackets"`
}

// Lookup implements assessment.VARateTable: the highest bracket at or below
// ratingPercent, or (0, false) if ratingPercent is below every bracket (in
// particular, 0 or negative — not a veteran, or not rated).
func (t Table) Lookup(ratingPercent int, hasDependents bool) (float64, bool) {
	if ratingPercent <= 0 || len(t.Brackets) == 0 {
		return 0, false
	}

	sorted := append([]Bracket(nil), t.Brackets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinRating < sorted[j].MinRating })

	var best *Bracket
	for i := range sorted {
		if sorted[i].MinRating <= ratingPercent {
			best = &sorted[i]
		}
	}
	if best == nil {
		return 0, false
	}
	if hasDependents {
		return best.MonthlyWithDependents, true
	}
	return best.MonthlyAlone, true
}

// Load reads a Table from a JSON file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// DefaultTable is the bundled VA Aid & Attendance / disability compensation
// schedule used by the demo modules (2024 VA compensation rate table,
// 10%-100% brackets, simplified to the brackets the bundled
// modules can produce).
func DefaultTable() Table {
	return Table{Brackets: []Bracket{
		{MinRating: 10, MonthlyAlone: 175.51, MonthlyWithDependents: 175.51},
		{MinRating: 30, MonthlyAlone: 587.75, MonthlyWithDependents: 712.75},
		{MinRating: 50, MonthlyAlone: 1102.04, MonthlyWithDependents: 1274.04},
		{MinRating: 70, MonthlyAlone: 1759.19, MonthlyWithDependents: 1908.95},
		{MinRating: 100, MonthlyAlone: 3737.85, MonthlyWithDependents: 3946.25},
	}}
}
