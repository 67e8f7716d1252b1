// Package portfolio implements the portfolio risk engine: variance and
// volatility under a correlation structure, Euler risk decomposition,
// inverse-volatility risk parity weights, and return/Sharpe metrics under
// cash-financed leverage.
//
// Every operation is a pure function over its inputs. Degenerate inputs
// (zero volatility everywhere) produce zero-valued metrics; malformed shapes
// fail fast at the call boundary.
package portfolio

import (
	"fmt"
	"math"
)

const (
	// DefaultRiskFreeRate is the annualized risk-free rate assumed when the
	// caller does not provide one.
	DefaultRiskFreeRate = 0.02

	// CashVolatilityFloor separates cash-like instruments from risky assets.
	// Assets at or below this volatility are excluded from the risk parity
	// allocation set so near-zero vols cannot blow up the inverse-vol sum.
	CashVolatilityFloor = 0.02

	// symmetryTolerance bounds the acceptable asymmetry and diagonal drift in
	// a user-supplied correlation matrix before it is rejected.
	symmetryTolerance = 1e-9
)

// AssetClass describes one allocatable asset.
//
// ExpectedReturn overrides the derived value when set; otherwise the expected
// return is Sharpe*Volatility + riskFreeRate. Weight is a capital share and
// is intentionally unconstrained: negative weights represent a financing leg
// and weights need not sum to 1 while a caller sweeps a frontier.
type AssetClass struct {
	Name           string   `json:"name"`
	Volatility     float64  `json:"volatility"`
	Weight         float64  `json:"weight"`
	Sharpe         float64  `json:"sharpe"`
	ExpectedReturn *float64 `json:"expected_return,omitempty"`
}

// Return resolves the asset's expected annual return at the given risk-free
// rate.
func (a AssetClass) Return(riskFreeRate float64) float64 {
	if a.ExpectedReturn != nil {
		return *a.ExpectedReturn
	}
	return a.Sharpe*a.Volatility + riskFreeRate
}

// Inputs is the full tuple for one metrics computation. It is constructed
// fresh per call from current slider state and never mutated.
type Inputs struct {
	Assets       []AssetClass `json:"assets"`
	Correlations [][]float64  `json:"correlations"`
	Leverage     float64      `json:"leverage"`
	RiskFreeRate *float64     `json:"risk_free_rate,omitempty"`
}

// Metrics is the derived, stateless output of one computation.
//
// RiskContributions are percentages of total portfolio volatility and sum to
// 100 whenever Volatility > 0; the vector is all zeros in the degenerate
// zero-volatility case.
type Metrics struct {
	Variance            float64   `json:"variance"`
	Volatility          float64   `json:"volatility"`
	RiskContributions   []float64 `json:"risk_contributions"`
	ExpectedReturn      float64   `json:"expected_return"`
	SharpeRatio         float64   `json:"sharpe_ratio"`
	LeveragedVolatility float64   `json:"leveraged_volatility"`
	LeveragedReturn     float64   `json:"leveraged_return"`
}

// RiskParityWeights is the inverse-volatility allocation over the risky
// subset. Included marks which assets cleared the cash volatility floor.
type RiskParityWeights struct {
	Weights  []float64 `json:"weights"`
	Included []bool    `json:"included"`
}

// riskFreeRate resolves the configured or default risk-free rate.
func (in Inputs) riskFreeRate() float64 {
	if in.RiskFreeRate != nil {
		return *in.RiskFreeRate
	}
	return DefaultRiskFreeRate
}

// Validate checks the input tuple for contract violations. Shape errors and
// out-of-domain values are rejected here so the engine itself can assume
// well-formed inputs. Weight values are deliberately not validated: negative
// weights and weights summing away from 1 are legitimate financing and
// frontier-sweep scenarios.
func (in Inputs) Validate() error {
	n := len(in.Assets)
	if n == 0 {
		return fmt.Errorf("at least one asset is required")
	}

	for i, asset := range in.Assets {
		if asset.Volatility < 0 {
			return fmt.Errorf("asset %q: volatility must be non-negative, got %g", asset.Name, asset.Volatility)
		}
		if math.IsNaN(asset.Volatility) || math.IsNaN(asset.Weight) {
			return fmt.Errorf("asset %d: volatility and weight must be finite numbers", i)
		}
	}

	if in.Leverage < 0 {
		return fmt.Errorf("leverage must be non-negative, got %g", in.Leverage)
	}

	if len(in.Correlations) != n {
		return fmt.Errorf("correlation matrix has %d rows for %d assets", len(in.Correlations), n)
	}
	for i, row := range in.Correlations {
		if len(row) != n {
			return fmt.Errorf("correlation matrix row %d has %d columns, expected %d", i, len(row), n)
		}
		if math.Abs(row[i]-1) > symmetryTolerance {
			return fmt.Errorf("correlation matrix diagonal [%d][%d] must be 1, got %g", i, i, row[i])
		}
		for j, rho := range row {
			if rho < -1 || rho > 1 {
				return fmt.Errorf("correlation [%d][%d] out of range [-1,1]: %g", i, j, rho)
			}
			if math.Abs(rho-in.Correlations[j][i]) > symmetryTolerance {
				return fmt.Errorf("correlation matrix is not symmetric at [%d][%d]", i, j)
			}
		}
	}

	return nil
}
