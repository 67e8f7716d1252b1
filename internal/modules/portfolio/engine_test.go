package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceInputs is the portal's default slider state: the 60/40 stock/bond
// portfolio used as the regression baseline.
func referenceInputs() Inputs {
	rf := 0.02
	return Inputs{
		Assets: []AssetClass{
			{Name: "stocks", Volatility: 0.151, Weight: 0.6, Sharpe: 0.55},
			{Name: "bonds", Volatility: 0.046, Weight: 0.4, Sharpe: 0.80},
		},
		Correlations: [][]float64{
			{1.0, 0.2},
			{0.2, 1.0},
		},
		Leverage:     1.0,
		RiskFreeRate: &rf,
	}
}

func TestComputeMetricsReferencePortfolio(t *testing.T) {
	m, err := ComputeMetrics(referenceInputs())
	require.NoError(t, err)

	// Var = 0.36*0.151^2 + 0.16*0.046^2 + 2*0.6*0.4*0.151*0.046*0.2
	assert.InDelta(t, 0.009213736, m.Variance, 1e-9)
	assert.InDelta(t, 0.0959882, m.Volatility, 1e-6)

	// Expected return: 0.6*(0.55*0.151+0.02) + 0.4*(0.80*0.046+0.02)
	assert.InDelta(t, 0.08455, m.ExpectedReturn, 1e-9)
	assert.InDelta(t, (0.08455-0.02)/m.Volatility, m.SharpeRatio, 1e-12)

	// Golden regression value: the stock leg carries ~93% of total risk even
	// at 60% of capital. Exact value from the reference formula.
	require.Len(t, m.RiskContributions, 2)
	assert.InDelta(t, 92.7069, m.RiskContributions[0], 1e-3)
	assert.InDelta(t, 7.2931, m.RiskContributions[1], 1e-3)
}

func TestRiskContributionsSumTo100(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{name: "reference 60/40", in: referenceInputs()},
		{
			name: "three assets, mixed correlations",
			in: Inputs{
				Assets: []AssetClass{
					{Name: "equity", Volatility: 0.18, Weight: 0.5, Sharpe: 0.5},
					{Name: "bonds", Volatility: 0.05, Weight: 0.3, Sharpe: 0.7},
					{Name: "gold", Volatility: 0.16, Weight: 0.2, Sharpe: 0.2},
				},
				Correlations: [][]float64{
					{1.0, 0.2, -0.1},
					{0.2, 1.0, 0.05},
					{-0.1, 0.05, 1.0},
				},
				Leverage: 1.0,
			},
		},
		{
			name: "short financing leg",
			in: Inputs{
				Assets: []AssetClass{
					{Name: "equity", Volatility: 0.15, Weight: 0.8, Sharpe: 0.5},
					{Name: "bonds", Volatility: 0.05, Weight: 0.7, Sharpe: 0.7},
					{Name: "cash", Volatility: 0.001, Weight: -0.5, Sharpe: 0.0},
				},
				Correlations: [][]float64{
					{1.0, 0.2, 0.0},
					{0.2, 1.0, 0.0},
					{0.0, 0.0, 1.0},
				},
				Leverage: 1.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeMetrics(tt.in)
			require.NoError(t, err)
			require.Greater(t, m.Volatility, 0.0)

			total := 0.0
			for _, c := range m.RiskContributions {
				total += c
			}
			assert.InDelta(t, 100.0, total, 1e-6)
		})
	}
}

func TestEqualVolatilityZeroCorrelation(t *testing.T) {
	in := Inputs{
		Assets: []AssetClass{
			{Name: "a", Volatility: 0.1, Weight: 0.5},
			{Name: "b", Volatility: 0.1, Weight: 0.5},
		},
		Correlations: [][]float64{
			{1, 0},
			{0, 1},
		},
		Leverage: 1,
	}

	m, err := ComputeMetrics(in)
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt(0.5*0.5*0.01+0.5*0.5*0.01), m.Volatility, 1e-12)
	assert.InDelta(t, 0.0707, m.Volatility, 1e-4)
	assert.InDelta(t, 50.0, m.RiskContributions[0], 1e-9)
	assert.InDelta(t, 50.0, m.RiskContributions[1], 1e-9)
}

func TestSharpeIsLeverageInvariant(t *testing.T) {
	base := referenceInputs()
	baseMetrics, err := ComputeMetrics(base)
	require.NoError(t, err)

	for _, leverage := range []float64{0.25, 0.5, 1, 1.5, 2, 3, 10} {
		in := base
		in.Leverage = leverage

		m, err := ComputeMetrics(in)
		require.NoError(t, err)

		// Sharpe computed from the leveraged quantities must match the
		// unlevered Sharpe for any L > 0.
		leveredSharpe := (m.LeveragedReturn - 0.02) / m.LeveragedVolatility
		assert.InDelta(t, baseMetrics.SharpeRatio, leveredSharpe, 1e-12, "leverage %g", leverage)

		assert.InDelta(t, leverage*baseMetrics.Volatility, m.LeveragedVolatility, 1e-12)
		assert.InDelta(t, 0.02+leverage*(baseMetrics.ExpectedReturn-0.02), m.LeveragedReturn, 1e-12)
	}
}

func TestComputeMetricsDegenerateZeroVolatility(t *testing.T) {
	in := Inputs{
		Assets: []AssetClass{
			{Name: "cash_a", Volatility: 0, Weight: 0.5},
			{Name: "cash_b", Volatility: 0, Weight: 0.5},
		},
		Correlations: [][]float64{
			{1, 0},
			{0, 1},
		},
		Leverage: 2,
	}

	m, err := ComputeMetrics(in)
	require.NoError(t, err, "degenerate inputs must not error")

	assert.Equal(t, 0.0, m.Variance)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.LeveragedVolatility)
	assert.Equal(t, []float64{0, 0}, m.RiskContributions)
}

func TestComputeMetricsRejectsMalformedInputs(t *testing.T) {
	valid := referenceInputs()

	tests := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{
			name:   "no assets",
			mutate: func(in *Inputs) { in.Assets = nil },
		},
		{
			name:   "negative volatility",
			mutate: func(in *Inputs) { in.Assets[0].Volatility = -0.1 },
		},
		{
			name:   "negative leverage",
			mutate: func(in *Inputs) { in.Leverage = -1 },
		},
		{
			name:   "dimension mismatch",
			mutate: func(in *Inputs) { in.Correlations = [][]float64{{1}} },
		},
		{
			name:   "non-square matrix",
			mutate: func(in *Inputs) { in.Correlations = [][]float64{{1, 0.2}, {0.2}} },
		},
		{
			name:   "non-unit diagonal",
			mutate: func(in *Inputs) { in.Correlations[0][0] = 0.9 },
		},
		{
			name:   "asymmetric matrix",
			mutate: func(in *Inputs) { in.Correlations[0][1] = 0.3 },
		},
		{
			name:   "correlation out of range",
			mutate: func(in *Inputs) { in.Correlations[0][1] = 1.5; in.Correlations[1][0] = 1.5 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInputs()
			in.Assets = append([]AssetClass(nil), valid.Assets...)
			in.Correlations = [][]float64{
				append([]float64(nil), valid.Correlations[0]...),
				append([]float64(nil), valid.Correlations[1]...),
			}
			tt.mutate(&in)

			_, err := ComputeMetrics(in)
			assert.Error(t, err)
		})
	}
}

func TestReturnOverride(t *testing.T) {
	override := 0.123
	asset := AssetClass{Volatility: 0.15, Sharpe: 0.55, ExpectedReturn: &override}
	assert.Equal(t, override, asset.Return(0.02))

	derived := AssetClass{Volatility: 0.15, Sharpe: 0.55}
	assert.InDelta(t, 0.55*0.15+0.02, derived.Return(0.02), 1e-12)
}

func TestRiskParity(t *testing.T) {
	t.Run("two asset closed form", func(t *testing.T) {
		w := RiskParity([]AssetClass{
			{Name: "equity", Volatility: 0.15},
			{Name: "bonds", Volatility: 0.05},
		})
		assert.InDelta(t, 0.25, w.Weights[0], 1e-12)
		assert.InDelta(t, 0.75, w.Weights[1], 1e-12)
	})

	t.Run("cash excluded by volatility floor", func(t *testing.T) {
		w := RiskParity([]AssetClass{
			{Name: "equity", Volatility: 0.15},
			{Name: "bonds", Volatility: 0.05},
			{Name: "cash", Volatility: 0.005},
		})
		assert.False(t, w.Included[2])
		assert.Equal(t, 0.0, w.Weights[2])
		assert.InDelta(t, 0.25, w.Weights[0], 1e-12)
		assert.InDelta(t, 0.75, w.Weights[1], 1e-12)
	})

	t.Run("equal risk contributions under equal correlation", func(t *testing.T) {
		// Inverse-vol weights are exact ERC weights when all pairwise
		// correlations are equal; verify through the engine.
		assets := []AssetClass{
			{Name: "a", Volatility: 0.20},
			{Name: "b", Volatility: 0.10},
			{Name: "c", Volatility: 0.05},
		}
		rp := RiskParity(assets)

		for i := range assets {
			assets[i].Weight = rp.Weights[i]
		}
		m, err := ComputeMetrics(Inputs{
			Assets: assets,
			Correlations: [][]float64{
				{1, 0.3, 0.3},
				{0.3, 1, 0.3},
				{0.3, 0.3, 1},
			},
			Leverage: 1,
		})
		require.NoError(t, err)

		for _, c := range m.RiskContributions {
			assert.InDelta(t, 100.0/3, c, 1e-9)
		}
	})

	t.Run("all cash yields zero vector", func(t *testing.T) {
		w := RiskParity([]AssetClass{
			{Name: "cash", Volatility: 0.001},
			{Name: "t-bills", Volatility: 0.0},
		})
		assert.Equal(t, []float64{0, 0}, w.Weights)
	})
}
