// Package frontier generates efficient-frontier point series by sweeping one
// free variable (capital mix or leverage) and computing full portfolio
// metrics at each step.
//
// Every point is an independent pure computation; the sweep fans out across a
// bounded errgroup with indexed writes, so the resulting sequence is
// deterministic for identical inputs.
package frontier

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/riskparity/internal/modules/portfolio"
)

// MaxSteps caps a sweep request. The portal asks for at most 50 steps; the
// cap just keeps a hostile request from burning CPU.
const MaxSteps = 500

// MixPoint is one point on the two-asset mix frontier.
type MixPoint struct {
	Risk      float64 `json:"risk"`
	Return    float64 `json:"return"`
	MixWeight float64 `json:"mix_weight"`
}

// LeveragePoint is one point on the leveraged frontier.
type LeveragePoint struct {
	Risk     float64 `json:"risk"`
	Return   float64 `json:"return"`
	Leverage float64 `json:"leverage"`
}

// MixRequest sweeps the capital weight of the first asset from 0 to 1
// against the second asset.
type MixRequest struct {
	Assets       []portfolio.AssetClass `json:"assets"`
	Correlations [][]float64            `json:"correlations"`
	Steps        int                    `json:"steps"`
	RiskFreeRate *float64               `json:"risk_free_rate,omitempty"`
}

// LeverageRequest applies risk-parity weights to the assets and sweeps
// leverage from 1 to MaxLeverage.
type LeverageRequest struct {
	Assets       []portfolio.AssetClass `json:"assets"`
	Correlations [][]float64            `json:"correlations"`
	MaxLeverage  float64                `json:"max_leverage"`
	Steps        int                    `json:"steps"`
	RiskFreeRate *float64               `json:"risk_free_rate,omitempty"`
}

// Service generates frontier series.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new frontier service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "frontier").Logger(),
	}
}

// Mix sweeps the first asset's weight 0..1 in req.Steps increments and
// returns req.Steps+1 points. Each point's risk and return are exactly what
// portfolio.ComputeMetrics reports for that weight pair.
func (s *Service) Mix(ctx context.Context, req MixRequest) ([]MixPoint, error) {
	if len(req.Assets) != 2 {
		return nil, fmt.Errorf("mix frontier requires exactly 2 assets, got %d", len(req.Assets))
	}
	if err := validateSteps(req.Steps); err != nil {
		return nil, err
	}

	// Validate shape once up front with an arbitrary feasible weight pair, so
	// workers never observe malformed inputs.
	probe := mixInputs(req, 0)
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	points := make([]MixPoint, req.Steps+1)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i <= req.Steps; i++ {
		i := i
		g.Go(func() error {
			w := float64(i) / float64(req.Steps)
			m, err := portfolio.ComputeMetrics(mixInputs(req, w))
			if err != nil {
				return err
			}
			points[i] = MixPoint{
				Risk:      m.Volatility,
				Return:    m.ExpectedReturn,
				MixWeight: w,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}

// Leverage computes risk-parity weights for the assets and sweeps leverage
// from 1 to req.MaxLeverage in req.Steps increments, returning req.Steps+1
// points.
func (s *Service) Leverage(ctx context.Context, req LeverageRequest) ([]LeveragePoint, error) {
	if err := validateSteps(req.Steps); err != nil {
		return nil, err
	}
	if req.MaxLeverage < 1 {
		return nil, fmt.Errorf("max leverage must be at least 1, got %g", req.MaxLeverage)
	}

	rp := portfolio.RiskParity(req.Assets)
	assets := make([]portfolio.AssetClass, len(req.Assets))
	copy(assets, req.Assets)
	for i := range assets {
		assets[i].Weight = rp.Weights[i]
	}

	probe := portfolio.Inputs{
		Assets:       assets,
		Correlations: req.Correlations,
		Leverage:     1,
		RiskFreeRate: req.RiskFreeRate,
	}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	points := make([]LeveragePoint, req.Steps+1)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i <= req.Steps; i++ {
		i := i
		g.Go(func() error {
			leverage := 1 + (req.MaxLeverage-1)*float64(i)/float64(req.Steps)
			m, err := portfolio.ComputeMetrics(portfolio.Inputs{
				Assets:       assets,
				Correlations: req.Correlations,
				Leverage:     leverage,
				RiskFreeRate: req.RiskFreeRate,
			})
			if err != nil {
				return err
			}
			points[i] = LeveragePoint{
				Risk:     m.LeveragedVolatility,
				Return:   m.LeveragedReturn,
				Leverage: leverage,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}

func mixInputs(req MixRequest, w float64) portfolio.Inputs {
	assets := []portfolio.AssetClass{req.Assets[0], req.Assets[1]}
	assets[0].Weight = w
	assets[1].Weight = 1 - w
	return portfolio.Inputs{
		Assets:       assets,
		Correlations: req.Correlations,
		Leverage:     1,
		RiskFreeRate: req.RiskFreeRate,
	}
}

func validateSteps(steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	if steps > MaxSteps {
		return fmt.Errorf("steps must be at most %d, got %d", MaxSteps, steps)
	}
	return nil
}
