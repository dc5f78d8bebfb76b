// Package aeroapi implements the FlightProvider interface against the
// FlightAware AeroAPI.
package aeroapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/internal/domain/repository"
	"flightminder-service/pkg/logger"
	"flightminder-service/pkg/metrics"
)

const (
	retryAttempts = 3
	retryDelay    = time.Second
	retryMaxDelay = 10 * time.Second
)

// Client talks to AeroAPI. Auth is the x-apikey header.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

type lookupResponse struct {
	Flights []entity.FlightOccurrence `json:"flights"`
}

// NewClient creates a new AeroAPI client. The timeout bounds one lookup
// end to end: past it the provider is treated as failed, not hung.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger, m *metrics.Metrics) repository.FlightProvider {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		metrics:    m,
	}
}

// Lookup fetches every occurrence of the flight within the window. Transport
// errors and 5xx responses are retried with capped backoff; provider 4xx
// responses are terminal. Failures surface as *entity.ProviderError or a
// wrapped transport error; non-fatal to the process, terminal to the
// current interaction.
func (c *Client) Lookup(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightOccurrence, error) {
	if c.metrics != nil {
		c.metrics.LookupsTotal.Inc()
		timer := time.Now()
		defer func() { c.metrics.LookupDuration.Observe(time.Since(timer).Seconds()) }()
	}

	var occurrences []entity.FlightOccurrence
	err := retry.Do(
		func() error {
			var err error
			occurrences, err = c.lookupOnce(ctx, ident, start, end)
			return err
		},
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.MaxDelay(retryMaxDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying flight lookup", "ident", ident, "attempt", n+1, "error", err)
		}),
		retry.RetryIf(func(err error) bool {
			var perr *entity.ProviderError
			if errors.As(err, &perr) {
				return perr.Retryable()
			}
			// Transport-level failure, worth another attempt.
			return true
		}),
	)
	if err != nil {
		if c.metrics != nil {
			c.metrics.LookupErrors.Inc()
		}
		return nil, err
	}
	return occurrences, nil
}

func (c *Client) lookupOnce(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightOccurrence, error) {
	query := url.Values{}
	query.Set("start", start.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("end", end.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("max_pages", "1")

	reqURL := fmt.Sprintf("%s/flights/%s?%s", c.baseURL, url.PathEscape(ident), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query flight provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Cap the body: it only travels for error context.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		perr := &entity.ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
		c.logger.Error("Flight provider error",
			"ident", ident,
			"status", resp.StatusCode,
			"body", perr.Body)
		return nil, perr
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	c.logger.Debug("Flight lookup completed", "ident", ident, "occurrences", len(payload.Flights))
	return payload.Flights, nil
}
