// Package region is the Regional Precedence Resolver (§4.7): a
// ZIP → ZIP3 → State → National cascade producing a single multiplier and
// region label. Each precision level holds one entry per key; there is no
// separate WA-specific layer, so a WA entry is simply the entry for its key
// and nothing shadows anything at the same level.
package region

import (
	"encoding/json"
	"os"
	"strings"
)

// Precision reports which cascade level produced a resolution.
type Precision string

const (
	PrecisionZIP      Precision = "zip"
	PrecisionZIP3     Precision = "zip3"
	PrecisionState    Precision = "state"
	PrecisionNational Precision = "national"
)

// Entry is one regional-multiplier row.
type Entry struct {
	Multiplier float64 `json:"multiplier"`
	Name       string  `json:"name"`
}

// Table is the configuration-driven regional cost table (§6 "Regional cost
// table": sections by_zip, by_zip3, by_state; there are no WA-specific
// override sections).
type Table struct {
	ByZIP   map[string]Entry `json:"by_zip"`
	ByZIP3  map[string]Entry `json:"by_zip3"`
	ByState map[string]Entry `json:"by_state"`
}

// LoadTable reads a Table from a JSON file (the operator-editable regional
// cost table referenced by config's modules.regional_file).
func LoadTable(path string) (Table, error) {
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

// NationalDefault is returned when nothing in the cascade matches.
var NationalDefault = Entry{Multiplier: 1.0, Name: "National Average"}

// Resolution is what resolve(zip_code?, state?) produces (§4.7 contract).
type Resolution struct {
	Multiplier float64
	RegionName string
	Precision  Precision
}

// Resolve runs the ZIP → ZIP3 → State → National cascade. Unknown inputs
// silently fall through to national (§4.7).
func (t Table) Resolve(zipCode, state string) Resolution {
	zipCode = strings.TrimSpace(zipCode)
	state = strings.ToUpper(strings.TrimSpace(state))

	if zipCode != "" {
		if e, ok := t.ByZIP[zipCode]; ok {
			return Resolution{Multiplier: e.Multiplier, RegionName: e.Name, Precision: PrecisionZIP}
		}
		if len(zipCode) >= 3 {
			zip3 := zipCode[:3]
			if e, ok := t.ByZIP3[zip3]; ok {
				return Resolution{Multiplier: e.Multiplier, RegionName: e.Name, Precision: PrecisionZIP3}
			}
		}
	}
	if state != "" {
		if e, ok := t.ByState[state]; ok {
			return Resolution{Multiplier: e.Multiplier, RegionName: e.Name, Precision: PrecisionState}
		}
	}
	return Resolution{Multiplier: NationalDefault.Multiplier, RegionName: NationalDefault.Name, Precision: PrecisionNational}
}

// DefaultTable returns a small bundled table covering the Seattle-area
// scenarios in spec.md §8 (S1, S6): a WA-specific ZIP entry, a WA ZIP3
// entry, and a CA state entry, alongside the implicit national default.
func DefaultTable() Table {
	return Table{
		ByZIP: map[string]Entry{
			"98101": {Multiplier: 1.15, Name: "Seattle, WA"},
		},
		ByZIP3: map[string]Entry{
			"981": {Multiplier: 1.10, Name: "Seattle Metro, WA"},
		},
		ByState: map[string]Entry{
			"WA": {Multiplier: 1.08, Name: "Washington State"},
			"CA": {Multiplier: 1.12, Name: "California"},
		},
	}
}
