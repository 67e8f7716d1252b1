// Package formulas provides the numeric primitives shared by the risk engine.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CovarianceFromCorrelation builds the covariance matrix implied by per-asset
// volatilities and a pairwise correlation matrix:
//
//	Cov[i][j] = vol[i] * vol[j] * corr[i][j]
//
// The caller is responsible for shape validation; this function assumes
// len(corr) == len(vols) and square rows.
func CovarianceFromCorrelation(vols []float64, corr [][]float64) *mat.SymDense {
	n := len(vols)
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, vols[i]*vols[j]*corr[i][j])
		}
	}
	return sigma
}

// QuadraticForm computes w' * Sigma * w, the portfolio variance for weight
// vector w under covariance matrix Sigma.
func QuadraticForm(w []float64, sigma *mat.SymDense) float64 {
	wv := mat.NewVecDense(len(w), w)
	var sw mat.VecDense
	sw.MulVec(sigma, wv)
	return mat.Dot(wv, &sw)
}

// MarginalVariances computes (Sigma * w)_i for each asset, the per-asset
// marginal variance terms used by the Euler risk decomposition. The weighted
// terms w_i * (Sigma*w)_i sum to the total portfolio variance.
func MarginalVariances(w []float64, sigma *mat.SymDense) []float64 {
	wv := mat.NewVecDense(len(w), w)
	var sw mat.VecDense
	sw.MulVec(sigma, wv)
	out := make([]float64, len(w))
	for i := range out {
		out[i] = sw.AtVec(i)
	}
	return out
}

// SharpeRatio computes (expectedReturn - riskFreeRate) / volatility.
// Returns 0 when volatility is 0; the ratio is undefined there and callers
// rely on a neutral value instead of an error.
func SharpeRatio(expectedReturn, riskFreeRate, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (expectedReturn - riskFreeRate) / volatility
}

// InverseVolatilityWeights normalizes 1/vol across the included assets.
// Excluded or zero-volatility assets get weight 0. Returns all zeros when no
// asset qualifies.
func InverseVolatilityWeights(vols []float64, included []bool) []float64 {
	weights := make([]float64, len(vols))

	totalInverse := 0.0
	for i, vol := range vols {
		if included[i] && vol > 0 {
			totalInverse += 1.0 / vol
		}
	}
	if totalInverse == 0 {
		return weights
	}

	for i, vol := range vols {
		if included[i] && vol > 0 {
			weights[i] = (1.0 / vol) / totalInverse
		}
	}
	return weights
}

// PortfolioVolatility is sqrt of the quadratic form, guarding tiny negative
// results from floating point cancellation.
func PortfolioVolatility(w []float64, sigma *mat.SymDense) float64 {
	variance := QuadraticForm(w, sigma)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}
