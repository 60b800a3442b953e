// Package fundamental provides the per-company catalog and the
// anti-gorengan quality filter that gates the scanned universe.
package fundamental

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/AdamHarish25/SentinelTrade/pkg/model"
)

//go:embed data/companies.json data/financial_ratios.json data/company_summaries.json
var dataFS embed.FS

// Raw reference tables, keyed by emiten code without exchange suffix.

type rawCompany struct {
	Code string `json:"KodeEmiten"`
	Name string `json:"NamaEmiten"`
}

type rawRatio struct {
	Code      string  `json:"KodeEmiten"`
	DER       float64 `json:"der"`
	ROE       float64 `json:"roe"`
	PER       float64 `json:"per"`
	MarketCap float64 `json:"marketCap"`
}

type rawSummary struct {
	Code      string `json:"KodeEmiten"`
	Sector    string `json:"Sektor"`
	SubSector string `json:"SubSektor"`
}

const trillion = 1e12

// bluechipCapIDR is the market cap floor for the bluechip-only gate.
const bluechipCapIDR = 50 * trillion

// FilterParams configures the quality gate. The three core gates always
// apply; the rest are optional extra predicates.
type FilterParams struct {
	MinMarketCapT float64 // trillions of IDR
	MaxDER        float64
	MinROE        float64 // percent
	MinPER        float64 // 0 = no bound
	MaxPER        float64 // 0 = no bound
	Sectors       []string
	Conglomerates []string
	BluechipOnly  bool
}

// DefaultFilter is the standard anti-gorengan gate: 2T market cap,
// DER below 2.0, positive ROE.
func DefaultFilter() FilterParams {
	return FilterParams{
		MinMarketCapT: 2,
		MaxDER:        2.0,
		MinROE:        0,
	}
}

// Metrics reports catalog coverage for audit display.
type Metrics struct {
	Total  int `json:"total"`
	Passed int `json:"passed"` // companies passing the default filter
}

// Catalog joins the three reference tables into the per-company view.
// Source tables are read-only; the joined view is recomputed per access.
type Catalog struct {
	companies []rawCompany
	ratios    map[string]rawRatio
	summaries map[string]rawSummary
}

// NewCatalog parses the embedded reference tables.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		ratios:    make(map[string]rawRatio),
		summaries: make(map[string]rawSummary),
	}

	if err := loadTable(&c.companies, "data/companies.json"); err != nil {
		return nil, err
	}

	var ratios []rawRatio
	if err := loadTable(&ratios, "data/financial_ratios.json"); err != nil {
		return nil, err
	}
	for _, r := range ratios {
		c.ratios[r.Code] = r
	}

	var summaries []rawSummary
	if err := loadTable(&summaries, "data/company_summaries.json"); err != nil {
		return nil, err
	}
	for _, s := range summaries {
		c.summaries[s.Code] = s
	}

	return c, nil
}

func loadTable(dst any, name string) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// All returns the joined per-company view. Roster entries with no
// matching ratio row are dropped (delisted or data unavailable).
func (c *Catalog) All() []model.CompanyProfile {
	profiles := make([]model.CompanyProfile, 0, len(c.companies))

	for _, comp := range c.companies {
		ratio, ok := c.ratios[comp.Code]
		if !ok {
			continue
		}

		sector, subSector := "Others", "Others"
		if summary, ok := c.summaries[comp.Code]; ok {
			sector, subSector = summary.Sector, summary.SubSector
		}

		profiles = append(profiles, model.CompanyProfile{
			Symbol:       comp.Code + ".JK",
			Name:         comp.Name,
			Sector:       sector,
			SubSector:    subSector,
			MarketCap:    ratio.MarketCap,
			DER:          ratio.DER,
			ROE:          ratio.ROE,
			PER:          ratio.PER,
			Conglomerate: conglomerateTags[comp.Code],
		})
	}

	return profiles
}

// passes evaluates the filter as a pure conjunction of independent
// predicates, order-independent by construction.
func passes(company model.CompanyProfile, filter FilterParams) bool {
	// Liquidity and size gate
	if company.MarketCap < filter.MinMarketCapT*trillion {
		return false
	}

	// Financial health gates: solvency then profitability
	if company.DER >= filter.MaxDER {
		return false
	}
	if company.ROE <= filter.MinROE {
		return false
	}

	if filter.MinPER > 0 && company.PER < filter.MinPER {
		return false
	}
	if filter.MaxPER > 0 && company.PER > filter.MaxPER {
		return false
	}

	if len(filter.Sectors) > 0 && !slices.Contains(filter.Sectors, company.Sector) {
		return false
	}

	if len(filter.Conglomerates) > 0 {
		if company.Conglomerate == "" || !slices.Contains(filter.Conglomerates, company.Conglomerate) {
			return false
		}
	}

	if filter.BluechipOnly && company.MarketCap < bluechipCapIDR {
		return false
	}

	return true
}

// EligibleTickers returns the .JK-suffixed symbols passing the filter.
func (c *Catalog) EligibleTickers(filter FilterParams) []string {
	var tickers []string
	for _, company := range c.All() {
		if passes(company, filter) {
			tickers = append(tickers, company.Symbol)
		}
	}
	return tickers
}

// GetMetrics reports catalog size and default-filter pass count.
func (c *Catalog) GetMetrics() Metrics {
	return Metrics{
		Total:  len(c.All()),
		Passed: len(c.EligibleTickers(DefaultFilter())),
	}
}

// Lookup finds a company by symbol, accepting either the bare emiten
// code or the .JK-suffixed form.
func (c *Catalog) Lookup(symbol string) (model.CompanyProfile, bool) {
	key := strings.TrimSuffix(symbol, ".JK") + ".JK"
	for _, company := range c.All() {
		if company.Symbol == key {
			return company, true
		}
	}
	return model.CompanyProfile{}, false
}
