// Package external holds the third-party derived-field collaborators. They
// are modeled strictly as fallible lookups: a failure degrades the single
// field it feeds, never the record.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const what3wordsBaseURL = "https://api.what3words.com"

// maxAttempts bounds retries against a flaky collaborator; beyond this the
// field is surrendered for the record being processed.
const maxAttempts = 3

// What3WordsClient converts a coordinate to a three-word address. Requests
// are rate limited to stay inside the service's per-minute quota.
type What3WordsClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewWhat3WordsClient builds a client with the given API key, issuing at
// most requestsPerSec calls per second.
func NewWhat3WordsClient(apiKey string, requestsPerSec float64) *What3WordsClient {
	return &What3WordsClient{
		apiKey:  apiKey,
		baseURL: what3wordsBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}
}

type convertResponse struct {
	Words string `json:"words"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Words returns the three-word address for a WGS84 coordinate, retrying
// transient failures a bounded number of times.
func (c *What3WordsClient) Words(ctx context.Context, lon, lat float64) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("external: what3words rate wait: %w", err)
		}
		words, err := c.convert(ctx, lon, lat)
		if err == nil {
			return words, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("external: what3words lookup failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *What3WordsClient) convert(ctx context.Context, lon, lat float64) (string, error) {
	q := url.Values{}
	q.Set("coordinates", fmt.Sprintf("%v,%v", lat, lon))
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/convert-to-3wa?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var parsed convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error %s: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if parsed.Words == "" {
		return "", fmt.Errorf("empty words in response")
	}
	return parsed.Words, nil
}
