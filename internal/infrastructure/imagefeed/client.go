// Package imagefeed fetches random dog and cat pictures from public APIs
// (dog.ceo and thecatapi.com compatible endpoints).
package imagefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/petshelter/adoption-system/internal/api/metrics"
)

const (
	defaultCount   = 10
	defaultTimeout = 5 * time.Second
)

// ErrUnavailable is returned when an upstream API fails or the breaker is open.
var ErrUnavailable = errors.New("image service unavailable")

// Config configures the upstream endpoints.
type Config struct {
	DogBaseURL string
	CatBaseURL string
	Count      int
	Timeout    time.Duration
}

// Client implements ports.ImageFeed. Each upstream has its own breaker so a
// failing cat API does not block dog pictures.
type Client struct {
	http  *http.Client
	cfg   Config
	dogCB *gobreaker.CircuitBreaker
	catCB *gobreaker.CircuitBreaker
	log   zerolog.Logger
}

// NewClient creates a Client. A nil httpClient uses a client with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.Count <= 0 {
		cfg.Count = defaultCount
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.DogBaseURL = strings.TrimRight(cfg.DogBaseURL, "/")
	cfg.CatBaseURL = strings.TrimRight(cfg.CatBaseURL, "/")

	return &Client{
		http:  httpClient,
		cfg:   cfg,
		dogCB: newBreaker("dog", log),
		catCB: newBreaker("cat", log),
		log:   log,
	}
}

func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).Msg("image breaker state changed")
		},
	})
}

type dogResponse struct {
	Message []string `json:"message"`
	Status  string   `json:"status"`
}

type catImage struct {
	URL string `json:"url"`
}

// Dogs returns Count random dog picture URLs.
func (c *Client) Dogs(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/breeds/image/random/%d", c.cfg.DogBaseURL, c.cfg.Count)
	return c.fetch(ctx, "dog", c.dogCB, url, func(body []byte) ([]string, error) {
		var resp dogResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, err
		}
		return resp.Message, nil
	})
}

// Cats returns Count random cat picture URLs.
func (c *Client) Cats(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/images/search?limit=%d", c.cfg.CatBaseURL, c.cfg.Count)
	return c.fetch(ctx, "cat", c.catCB, url, func(body []byte) ([]string, error) {
		var images []catImage
		if err := json.Unmarshal(body, &images); err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, img.URL)
		}
		return urls, nil
	})
}

func (c *Client) fetch(
	ctx context.Context,
	source string,
	cb *gobreaker.CircuitBreaker,
	url string,
	decode func([]byte) ([]string, error),
) ([]string, error) {
	start := time.Now()
	out, err := cb.Execute(func() (interface{}, error) {
		return c.get(ctx, url, decode)
	})

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.ImageFetchDuration.WithLabelValues(source, result).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warn().Err(err).Str("source", source).Msg("image fetch failed")
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, source, err)
	}
	return out.([]string), nil
}

func (c *Client) get(ctx context.Context, url string, decode func([]byte) ([]string, error)) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	urls, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return urls, nil
}
