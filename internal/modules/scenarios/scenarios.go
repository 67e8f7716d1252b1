// Package scenarios provides the portal's canned comparison scenarios:
// the traditional 60/40 allocation, the risk-parity allocation, and the
// leveraged risk-parity allocation, all built from the same default asset
// assumptions the sliders start at.
//
// The catalog is static and in-memory; scenarios resolve to metrics through
// the risk engine on every request.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/aristath/riskparity/internal/modules/portfolio"
)

// Scenario kinds.
const (
	KindTraditional         = "traditional"
	KindRiskParity          = "risk_parity"
	KindLeveragedRiskParity = "leveraged_risk_parity"
)

// Default asset assumptions (annualized). These are the slider defaults the
// portal ships with.
const (
	defaultStockVolatility = 0.151
	defaultBondVolatility  = 0.046
	defaultCorrelation     = 0.2
	defaultStockSharpe     = 0.55
	defaultBondSharpe      = 0.80
)

// Scenario is a tagged variant: the kind selects the allocation rule, the
// payload shape is the same metrics record for all kinds.
type Scenario struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Leverage    float64 `json:"leverage"`
}

// Resolved pairs a scenario with the inputs it expands to and the metrics the
// engine computed for them.
type Resolved struct {
	Scenario Scenario               `json:"scenario"`
	Assets   []portfolio.AssetClass `json:"assets"`
	Metrics  portfolio.Metrics      `json:"metrics"`
}

// Catalog resolves scenario kinds against the risk engine.
type Catalog struct {
	service   *portfolio.Service
	scenarios map[string]Scenario
}

// NewCatalog creates the static scenario catalog.
func NewCatalog(service *portfolio.Service) *Catalog {
	return &Catalog{
		service: service,
		scenarios: map[string]Scenario{
			KindTraditional: {
				Kind:        KindTraditional,
				Label:       "Traditional 60/40",
				Description: "60% stocks / 40% bonds by capital weight",
				Leverage:    1,
			},
			KindRiskParity: {
				Kind:        KindRiskParity,
				Label:       "Risk Parity",
				Description: "Inverse-volatility weights, equal risk contribution",
				Leverage:    1,
			},
			KindLeveragedRiskParity: {
				Kind:        KindLeveragedRiskParity,
				Label:       "Leveraged Risk Parity",
				Description: "Risk parity levered to match 60/40 volatility",
				Leverage:    0, // derived: matches the traditional portfolio's volatility
			},
		},
	}
}

// List returns all scenarios in a stable order.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Resolve expands a scenario kind into assets, weights, and full metrics.
func (c *Catalog) Resolve(kind string) (Resolved, error) {
	scenario, ok := c.scenarios[kind]
	if !ok {
		return Resolved{}, fmt.Errorf("unknown scenario kind: %q", kind)
	}

	assets := defaultAssets()
	leverage := scenario.Leverage

	switch kind {
	case KindTraditional:
		assets[0].Weight = 0.6
		assets[1].Weight = 0.4

	case KindRiskParity, KindLeveragedRiskParity:
		rp := portfolio.RiskParity(assets)
		for i := range assets {
			assets[i].Weight = rp.Weights[i]
		}
	}

	if kind == KindLeveragedRiskParity {
		l, err := c.volatilityMatchingLeverage(assets)
		if err != nil {
			return Resolved{}, err
		}
		leverage = l
		scenario.Leverage = l
	}

	metrics, err := c.service.Metrics(portfolio.Inputs{
		Assets:       assets,
		Correlations: defaultCorrelations(),
		Leverage:     leverage,
	})
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Scenario: scenario,
		Assets:   assets,
		Metrics:  metrics,
	}, nil
}

// volatilityMatchingLeverage finds the leverage that scales the risk-parity
// portfolio up to the traditional portfolio's volatility. That is the
// portal's headline comparison: same risk, higher risk-adjusted return.
func (c *Catalog) volatilityMatchingLeverage(rpAssets []portfolio.AssetClass) (float64, error) {
	traditional := defaultAssets()
	traditional[0].Weight = 0.6
	traditional[1].Weight = 0.4

	tm, err := c.service.Metrics(portfolio.Inputs{
		Assets:       traditional,
		Correlations: defaultCorrelations(),
		Leverage:     1,
	})
	if err != nil {
		return 0, err
	}

	rm, err := c.service.Metrics(portfolio.Inputs{
		Assets:       rpAssets,
		Correlations: defaultCorrelations(),
		Leverage:     1,
	})
	if err != nil {
		return 0, err
	}
	if rm.Volatility == 0 {
		return 1, nil
	}

	return tm.Volatility / rm.Volatility, nil
}

func defaultAssets() []portfolio.AssetClass {
	return []portfolio.AssetClass{
		{Name: "stocks", Volatility: defaultStockVolatility, Sharpe: defaultStockSharpe},
		{Name: "bonds", Volatility: defaultBondVolatility, Sharpe: defaultBondSharpe},
	}
}

func defaultCorrelations() [][]float64 {
	return [][]float64{
		{1.0, defaultCorrelation},
		{defaultCorrelation, 1.0},
	}
}
