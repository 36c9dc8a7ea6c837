package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coocood/freecache"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
)

// HTTPSource reads aggregates from a health-data service:
//
//	GET {base}/v1/aggregate?category=walking&start=RFC3339&end=RFC3339
//	-> {"count": 8000, "distance_km": 6.2}
//
// Responses are cached for the configured TTL keyed by the full query.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	cache      *freecache.Cache
	ttl        time.Duration
}

type HTTPSourceOption func(*HTTPSource)

func WithHTTPClient(c *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) { s.httpClient = c }
}

// WithCache sets the cache size in bytes and entry lifetime. A zero ttl
// disables caching.
func WithCache(sizeBytes int, ttl time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.cache = freecache.NewCache(sizeBytes)
		s.ttl = ttl
	}
}

func NewHTTPSource(baseURL string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		cache:      freecache.NewCache(constants.DefaultHealthCacheSizeMB * 1024 * 1024),
		ttl:        constants.DefaultHealthCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cacheKeyResolution buckets the range end so syncs ending "now" a few
// seconds apart share a cache entry.
const cacheKeyResolution = time.Minute

func (s *HTTPSource) FetchAggregate(ctx context.Context, category models.Category, start, end time.Time) (Aggregate, error) {
	q := url.Values{}
	q.Set("category", string(category))
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	reqURL := fmt.Sprintf("%s/v1/aggregate?%s", s.baseURL, q.Encode())

	cacheKey := []byte(fmt.Sprintf("%s|%s|%s", category,
		start.UTC().Format(time.RFC3339), end.UTC().Truncate(cacheKeyResolution).Format(time.RFC3339)))
	if s.ttl > 0 {
		if cached, err := s.cache.Get(cacheKey); err == nil {
			var agg Aggregate
			if err := json.Unmarshal(cached, &agg); err == nil {
				logger.Debug("Health aggregate served from cache", "category", category)
				return agg, nil
			}
			logger.Warn("Dropping unreadable cached health aggregate", "category", category)
			s.cache.Del(cacheKey)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Aggregate{}, fmt.Errorf("failed to build health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Aggregate{}, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Aggregate{}, fmt.Errorf("failed to read health response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return Aggregate{}, ErrNoData
	case resp.StatusCode != http.StatusOK:
		return Aggregate{}, fmt.Errorf("health service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var agg Aggregate
	if err := json.Unmarshal(body, &agg); err != nil {
		return Aggregate{}, fmt.Errorf("failed to parse health response: %w", err)
	}

	if s.ttl > 0 {
		if err := s.cache.Set(cacheKey, body, int(s.ttl.Seconds())); err != nil {
			logger.Warn("Failed to cache health aggregate", "category", category, "error", err)
		}
	}
	return agg, nil
}
