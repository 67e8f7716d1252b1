package portfolio

import (
	"github.com/aristath/riskparity/pkg/formulas"
)

// ComputeMetrics computes the full metrics record for one input tuple.
//
// Variance is the standard quadratic form over the covariance matrix implied
// by the volatilities and correlations. Risk contributions follow the Euler
// decomposition of the volatility function and are reported as percentages of
// the total. Leverage scales excess return and volatility by the same factor
// (financed by borrowing the cash leg), so the Sharpe ratio is
// leverage-invariant by construction.
func ComputeMetrics(in Inputs) (Metrics, error) {
	if err := in.Validate(); err != nil {
		return Metrics{}, err
	}

	n := len(in.Assets)
	rf := in.riskFreeRate()

	weights := make([]float64, n)
	vols := make([]float64, n)
	for i, asset := range in.Assets {
		weights[i] = asset.Weight
		vols[i] = asset.Volatility
	}

	sigma := formulas.CovarianceFromCorrelation(vols, in.Correlations)
	variance := formulas.QuadraticForm(weights, sigma)
	if variance < 0 {
		// Floating point cancellation on a degenerate matrix.
		variance = 0
	}
	volatility := formulas.PortfolioVolatility(weights, sigma)

	expectedReturn := 0.0
	for _, asset := range in.Assets {
		expectedReturn += asset.Weight * asset.Return(rf)
	}

	m := Metrics{
		Variance:          variance,
		Volatility:        volatility,
		RiskContributions: riskContributions(weights, formulas.MarginalVariances(weights, sigma), volatility),
		ExpectedReturn:    expectedReturn,
		SharpeRatio:       formulas.SharpeRatio(expectedReturn, rf, volatility),
	}

	m.LeveragedReturn = rf + in.Leverage*(expectedReturn-rf)
	m.LeveragedVolatility = in.Leverage * volatility

	return m, nil
}

// riskContributions converts marginal variance terms into percentage shares
// of total volatility. MCR_i = w_i * (Sigma*w)_i / volatility; the shares sum
// to 100 whenever volatility > 0. A zero-volatility portfolio yields an
// all-zero vector rather than 0/0.
func riskContributions(weights, marginals []float64, volatility float64) []float64 {
	contributions := make([]float64, len(weights))
	if volatility == 0 {
		return contributions
	}

	total := 0.0
	for i := range weights {
		contributions[i] = weights[i] * marginals[i] / volatility
		total += contributions[i]
	}
	if total == 0 {
		return make([]float64, len(weights))
	}

	for i := range contributions {
		contributions[i] = contributions[i] / total * 100
	}
	return contributions
}

// RiskParity solves for weights where each risky asset contributes
// approximately equal risk, using the closed-form inverse-volatility
// heuristic w_i = (1/vol_i) / sum(1/vol_j) over assets above the cash
// volatility floor.
//
// The correlation matrix is intentionally not consulted: inverse-vol weights
// are exact equal-risk-contribution weights only when pairwise correlations
// are equal or zero, and the portal accepts that approximation rather than
// running a numerical root finder.
func RiskParity(assets []AssetClass) RiskParityWeights {
	vols := make([]float64, len(assets))
	included := make([]bool, len(assets))
	for i, asset := range assets {
		vols[i] = asset.Volatility
		included[i] = asset.Volatility > CashVolatilityFloor
	}

	return RiskParityWeights{
		Weights:  formulas.InverseVolatilityWeights(vols, included),
		Included: included,
	}
}
