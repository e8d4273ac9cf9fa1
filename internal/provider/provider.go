// Package provider contains the HTTP clients for the external geocoding,
// place-search, transit and scoring services. Each client is a typed
// transform at the boundary: raw provider payload in, internal model out.
// Failures are reported through the sentinels in the models package so the
// services can fold them into fallback behavior.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"meetpoint-api/internal/models"
)

const defaultTimeout = 10 * time.Second

// getJSON performs a rate-limited GET and decodes the JSON body into v.
// Network errors, timeouts and non-200 statuses all map to
// models.ErrProviderUnavailable.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, headers map[string]string, v interface{}) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", models.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", models.ErrProviderUnavailable, err)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d", models.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrProviderUnavailable, err)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
