package portfolio

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// maxCacheEntries bounds the memo cache. Recomputation is sub-millisecond and
// idempotent, so the whole cache is dropped when the bound is hit instead of
// tracking recency.
const maxCacheEntries = 512

// Service wraps the engine with a memo cache keyed by the exact input tuple.
// Slider UIs re-request the same tuple frequently (tab switches, reconnects),
// and identical inputs always produce identical metrics.
type Service struct {
	log zerolog.Logger

	mu    sync.Mutex
	cache map[string]Metrics
}

// NewService creates a new portfolio metrics service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log:   log.With().Str("service", "portfolio").Logger(),
		cache: make(map[string]Metrics),
	}
}

// Metrics computes (or recalls) the metrics record for the given inputs.
func (s *Service) Metrics(in Inputs) (Metrics, error) {
	key, err := cacheKey(in)
	if err != nil {
		// Encoding failure just means no memoization for this tuple.
		s.log.Warn().Err(err).Msg("Failed to encode cache key")
		return ComputeMetrics(in)
	}

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	m, err := ComputeMetrics(in)
	if err != nil {
		return Metrics{}, err
	}

	s.mu.Lock()
	if len(s.cache) >= maxCacheEntries {
		s.cache = make(map[string]Metrics)
	}
	s.cache[key] = m
	s.mu.Unlock()

	return m, nil
}

// RiskParity computes inverse-volatility weights for the given assets.
func (s *Service) RiskParity(assets []AssetClass) RiskParityWeights {
	return RiskParity(assets)
}

// cacheKey serializes the input tuple; msgpack gives a compact, deterministic
// encoding for struct data.
func cacheKey(in Inputs) (string, error) {
	b, err := msgpack.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cacheLen reports the current number of memoized entries (for tests).
func (s *Service) cacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
