package parser

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed cities.json
var citiesRaw []byte

// City is one row of the operator-code reference table.
type City struct {
	Cidade   string `json:"CIDADE"`
	UF       string `json:"UF"`
	Regional string `json:"REGIONAL"`
	Base     string `json:"BASE"`
}

// CityTable maps a trimmed COD_OPERADORA to its city enrichment. Loaded once
// from the bundled reference file at startup.
type CityTable map[string]City

// LoadCityTable decodes the bundled reference file.
func LoadCityTable() (CityTable, error) {
	var table map[string]City
	if err := json.Unmarshal(citiesRaw, &table); err != nil {
		return nil, fmt.Errorf("failed to decode city table: %w", err)
	}
	normalized := make(CityTable, len(table))
	for code, city := range table {
		normalized[strings.TrimSpace(code)] = city
	}
	return normalized, nil
}

// Lookup returns the enrichment for an operator code. Unknown codes return
// false; rows are then inserted without city fields rather than rejected.
func (t CityTable) Lookup(codOperadora string) (City, bool) {
	city, ok := t[strings.TrimSpace(codOperadora)]
	return city, ok
}
