package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/cache"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/config"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/parse"
)

// ErrNoResults is returned when a fetch completes but yields zero valid
// drawings after the full extraction cascade.
var ErrNoResults = errors.New("no valid results in source document")

// Source abstracts the HTTP fetch so tests can fail transport
// deterministically.
type Source interface {
	Get(url string) (body []byte, status int, err error)
}

// ResultsService serves the latest drawings. It consults the cache before
// the live source and degrades to fixed sample data when both are
// unavailable, so callers always receive a renderable result set.
type ResultsService struct {
	source Source
	cache  *cache.ResultCache
	url    string
	kind   string
	window time.Duration

	mu       sync.RWMutex
	lastDiag *models.Diagnostics
}

// Outcome describes one serve decision, enough to build a debug response.
type Outcome struct {
	Results       []models.DrawResult
	Diagnostics   *models.Diagnostics
	CacheUsed     bool
	CacheAge      time.Duration
	LastFetchTime time.Time
}

// NewResultsService creates a new service around the given source and cache.
func NewResultsService(source Source, c *cache.ResultCache, cfg *config.Config) *ResultsService {
	return &ResultsService{
		source: source,
		cache:  c,
		url:    cfg.SourceURL,
		kind:   cfg.SourceKind,
		window: cfg.CacheTTL(),
	}
}

// Latest returns the freshest available results: the cache while it is
// inside the freshness window, otherwise a live fetch, otherwise whatever
// stale cache exists, otherwise the fixed sample set. It never fails.
func (s *ResultsService) Latest() Outcome {
	if results, age, ok := s.cache.Get(); ok && age < s.window {
		diag := s.retainedDiag()
		diag.Step("cache_used", true, fmt.Sprintf("age=%dms", age.Milliseconds()))
		return Outcome{
			Results:       results,
			Diagnostics:   diag,
			CacheUsed:     true,
			CacheAge:      age,
			LastFetchTime: s.cache.LastFetch(),
		}
	}
	return s.fetchAndServe()
}

// Refresh forces a cache-bypassing fetch and stores the outcome on success.
// Used by the revalidate endpoint.
func (s *ResultsService) Refresh() error {
	diag := &models.Diagnostics{SourceURL: s.url}
	results, err := s.scrape(diag)
	s.setRetainedDiag(diag)
	if err != nil {
		return err
	}
	s.cache.Put(results)
	logger.Infof("refresh: stored %d results", len(results))
	return nil
}

func (s *ResultsService) fetchAndServe() Outcome {
	diag := &models.Diagnostics{SourceURL: s.url}
	results, err := s.scrape(diag)
	s.setRetainedDiag(diag)

	if err == nil {
		s.cache.Put(results)
		logger.Infof("serving %d live results", len(results))
		return Outcome{
			Results:       results,
			Diagnostics:   diag,
			LastFetchTime: s.cache.LastFetch(),
		}
	}

	// A failed attempt never touches the cache, so the next request
	// retries the source.
	if results, age, ok := s.cache.Get(); ok {
		logger.Infof("live fetch failed, serving stale cache (age %s): %v", age, err)
		diag.Step("cache_stale_served", true, fmt.Sprintf("age=%dms", age.Milliseconds()))
		return Outcome{
			Results:       results,
			Diagnostics:   diag,
			CacheUsed:     true,
			CacheAge:      age,
			LastFetchTime: s.cache.LastFetch(),
		}
	}

	logger.Errorf("live fetch failed with no cache, serving sample data: %v", err)
	diag.UsedFallback = true
	diag.Step("fallback_data", true, "serving fixed sample results")
	return Outcome{
		Results:     FallbackResults(),
		Diagnostics: diag,
	}
}

// scrape performs one fetch-and-extract attempt against the source.
func (s *ResultsService) scrape(diag *models.Diagnostics) ([]models.DrawResult, error) {
	body, status, err := s.source.Get(s.url)
	if err != nil {
		diag.Step("fetch", false, err.Error())
		diag.Errors = append(diag.Errors, err.Error())
		return nil, err
	}
	diag.HTTPStatus = status
	if status < 200 || status >= 300 {
		err := fmt.Errorf("source returned status %d", status)
		diag.Step("fetch", false, err.Error())
		diag.Errors = append(diag.Errors, err.Error())
		return nil, err
	}
	diag.Step("fetch", true, fmt.Sprintf("status %d, %d bytes", status, len(body)))

	results := parse.Results(body, s.kind, diag)
	if len(results) == 0 {
		diag.Errors = append(diag.Errors, ErrNoResults.Error())
		return nil, ErrNoResults
	}
	return results, nil
}

// retainedDiag clones the most recent attempt's log so a cache-hit response
// can chain its own step onto it without mutating history.
func (s *ResultsService) retainedDiag() *models.Diagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastDiag == nil {
		return &models.Diagnostics{SourceURL: s.url}
	}
	return s.lastDiag.Clone()
}

func (s *ResultsService) setRetainedDiag(d *models.Diagnostics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDiag = d
}

// FallbackResults returns the fixed sample drawings served when neither the
// source nor the cache has anything. A fresh slice every call, so callers
// may annotate records without corrupting shared state.
func FallbackResults() []models.DrawResult {
	return []models.DrawResult{
		{
			Date:         "Wednesday, October 29, 2025",
			Numbers:      []int{21, 33, 40, 42, 50},
			StarBall:     5,
			AllStarBonus: 2,
			Winners:      0,
			Jackpot:      "$27.39 Million",
			IsLive:       false,
		},
		{
			Date:         "Monday, October 27, 2025",
			Numbers:      []int{5, 11, 17, 29, 46},
			StarBall:     9,
			AllStarBonus: 3,
			Winners:      0,
			Jackpot:      "$26.91 Million",
			IsLive:       false,
		},
		{
			Date:         "Saturday, October 25, 2025",
			Numbers:      []int{2, 14, 26, 37, 48},
			StarBall:     3,
			AllStarBonus: 2,
			Winners:      0,
			Jackpot:      "$26.46 Million",
			IsLive:       false,
		},
	}
}
