package cities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider lists the cities rides can be posted between.
type Provider interface {
	Cities(ctx context.Context) ([]string, error)
}

// CountriesNowClient queries the countriesnow.space cities endpoint for a
// single country.
type CountriesNowClient struct {
	endpoint   string
	country    string
	httpClient *http.Client
}

func NewCountriesNowClient(endpoint, country string, timeout time.Duration) *CountriesNowClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CountriesNowClient{
		endpoint:   endpoint,
		country:    country,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CountriesNowClient) Cities(ctx context.Context) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"country": c.country})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cities API error: status %d", resp.StatusCode)
	}

	var result struct {
		Error bool     `json:"error"`
		Msg   string   `json:"msg"`
		Data  []string `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.Error {
		return nil, fmt.Errorf("cities API error: %s", result.Msg)
	}

	return result.Data, nil
}
