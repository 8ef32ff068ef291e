package registry

import (
	"fmt"
	"sort"

	"github.com/de-tools/port-atlas/pkg/models/domain"
)

// builtin maps every known report file name to its table suffix. Keys are exact,
// including irregular spacing, and some files share a suffix across ports.
var builtin = map[string]string{
	"TABLE 2.01A NO GRT OF VESSELS THAT ENTERED- OCEAN GOING VESSELS -  APAPA.xlsx":      "vessel_traffic_201a",
	"TABLE 2.03A NATIONALITY OF VESSELS THAT ENTERED- OCEAN GOING  APAPA.xlsx":           "nationality_203a",
	"TABLE 2.11A CARGO THROUGHPUT- TYPE OF CARGO (EXCL CRUDE OIL TERMINALS)- APAPA.xlsx": "throughput_type_211a",
	"TABLE 2.11B CARGO THROUGHPUT- TYPE OF TRADE (EXCL CRUDE OIL)- APAPA.xlsx":           "throughput_trade_211b",
	"TABLES 2.16, 2.17 & 2.18 CONTAINER TRAFFIC STATISTICS APAPA.xlsx":                   "container_traffic_216",
	"TABLE 2.20 COMMODITY ANALYSIS OF FOREIGN & DOMESTIC CARGO DISCHARGED APAPA.xlsx":    "commodity_discharged_220",
	"TABLE 2.24 NO AND TONNAGE OF UNCRATED VEHICLES DISCHARGED APAPA.xlsx":               "vehicles_discharged_224",
	"TABLE 2.32 INWARD CARGO FLOW BY TYPE OF PACKAGING APAPA.xlsx":                       "packaging_inward_232",
	"TABLE 2.33 OUTWARD CARGO FLOW BY TYPE OF PACKAGING APAPA.xlsx":                      "packaging_outward_233",
	"TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED APAPA.xlsx":                           "turn_round_302",

	"TABLE 2.01A NO GRT OF VESSELS THAT ENTERED- OCEAN GOING VESSELS- DELTA.xlsx":        "vessel_traffic_201a",
	"TABLE 2.11B CARGO THROUGHPUT- TYPE OF TRADE (EXCL CRUDE OIL)- WARRI.xlsx":           "throughput_trade_211b",
	"TABLE 2.20 COMMODITY ANALYSIS OF FOREIGN & DOMESTIC CARGO DISCHARGED WARRI.xlsx":    "commodity_discharged_220",
	"TABLE 2.32 INWARD CARGO FLOW BY TYPE OF PACKAGING WARRI.xlsx":                       "packaging_inward_232",
	"TABLE 2.11A CARGO THROUGHPUT- TYPE OF CARGO (EXCL CRUDE OIL TERMINALS)- WARRI.xlsx": "cargo_type_211a",
	"TABLE 3.02 TURN-ROUND TIME OF SHIPS COMPLETED WARRI.xlsx":                           "turn_round_302",
	"TABLE 3.03 BERTH OCCUPANCY RATE WARRI.xlsx":                                         "berth_occupancy_303",

	"TABLE 2.01A NO GRT OF VESSELS THAT ENTERED- OCEAN GOING VESSELS RIVERS.xlsx":                "vessel_traffic_201a",
	"TABLE 2.11B CARGO THROUGHPUT- TYPE OF TRADE (EXCL CRUDE OIL)-2022 PORT HARCOURT.xlsx": "throughput_trade_211b",
	"TABLE 2.32 INWARD CARGO FLOW BY TYPE OF PACKAGING PORT HARCOURT.xlsx":                 "packaging_inward_232",
}

// Registry resolves report file names to table suffixes. It is immutable after construction.
type Registry struct {
	entries map[string]string
}

// New returns the built-in registry extended with extra mappings. Extra entries
// override built-in ones with the same file name.
func New(extra ...domain.ReportCategory) *Registry {
	entries := make(map[string]string, len(builtin)+len(extra))
	for file, suffix := range builtin {
		entries[file] = suffix
	}
	for _, e := range extra {
		entries[e.FileName] = e.Suffix
	}
	return &Registry{entries: entries}
}

// Lookup matches filename exactly; case and whitespace differences do not match.
func (r *Registry) Lookup(filename string) (string, error) {
	suffix, ok := r.entries[filename]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrReportNotFound, filename)
	}
	return suffix, nil
}

// Categories returns all mappings ordered by file name.
func (r *Registry) Categories() []domain.ReportCategory {
	categories := make([]domain.ReportCategory, 0, len(r.entries))
	for file, suffix := range r.entries {
		categories = append(categories, domain.ReportCategory{FileName: file, Suffix: suffix})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].FileName < categories[j].FileName
	})
	return categories
}
