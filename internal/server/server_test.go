package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/riskparity/internal/config"
	"github.com/aristath/riskparity/internal/modules/frontier"
	"github.com/aristath/riskparity/internal/modules/portfolio"
	"github.com/aristath/riskparity/internal/modules/scenarios"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:          8080,
		LogLevel:      "error",
		RiskFreeRate:  0.02,
		MaxLeverage:   3,
		FrontierSteps: 50,
	}
	portfolioService := portfolio.NewService(zerolog.Nop())

	return New(Config{
		Log:              zerolog.Nop(),
		Config:           cfg,
		PortfolioService: portfolioService,
		FrontierService:  frontier.NewService(zerolog.Nop()),
		ScenarioCatalog:  scenarios.NewCatalog(portfolioService),
		DevMode:          true,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleDefaults(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/defaults", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			RiskFreeRate  float64 `json:"risk_free_rate"`
			MaxLeverage   float64 `json:"max_leverage"`
			FrontierSteps int     `json:"frontier_steps"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 0.02, resp.Data.RiskFreeRate, 1e-12)
	assert.InDelta(t, 3.0, resp.Data.MaxLeverage, 1e-12)
	assert.Equal(t, 50, resp.Data.FrontierSteps)
}

func TestEndToEndMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"assets": [
			{"name": "stocks", "volatility": 0.151, "weight": 0.6, "sharpe": 0.55},
			{"name": "bonds", "volatility": 0.046, "weight": 0.4, "sharpe": 0.80}
		],
		"correlations": [[1.0, 0.2], [0.2, 1.0]],
		"leverage": 1.0
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/metrics", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "risk_contributions")
}

func TestSPAIndexFallback(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/compare", "/some/client/route"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", "path %s", path)
	}

	// API misses are real 404s, not the SPA shell.
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/portfolio/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	send := map[string]interface{}{
		"assets": []map[string]interface{}{
			{"name": "stocks", "volatility": 0.151, "weight": 0.6, "sharpe": 0.55},
			{"name": "bonds", "volatility": 0.046, "weight": 0.4, "sharpe": 0.80},
		},
		"correlations": [][]float64{{1, 0.2}, {0.2, 1}},
		"leverage":     1.0,
	}
	require.NoError(t, wsjson.Write(ctx, conn, send))

	var reply struct {
		Data  *portfolio.Metrics `json:"data"`
		Error string             `json:"error"`
	}
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	require.Empty(t, reply.Error)
	require.NotNil(t, reply.Data)
	assert.InDelta(t, 0.0959882, reply.Data.Volatility, 1e-6)

	// A malformed tuple gets an error envelope on the same connection.
	send["correlations"] = [][]float64{{1}}
	require.NoError(t, wsjson.Write(ctx, conn, send))
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.NotEmpty(t, reply.Error)
}
