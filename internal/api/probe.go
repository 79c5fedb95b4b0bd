package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const probeTimeout = 10 * time.Second

// ProbeResult describes a reachable video API
type ProbeResult struct {
	URL        string
	Latency    time.Duration
	Categories int
}

// Probe checks that apiURL answers like the video API. It calls the
// unauthenticated category listing and expects a {"data": [...]} envelope.
func Probe(ctx context.Context, apiURL string) (*ProbeResult, error) {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		return nil, fmt.Errorf("API URL is empty")
	}

	client := &http.Client{
		Timeout: probeTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("not a video API (response is not JSON): %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("not a video API (no data field in /categories)")
	}

	return &ProbeResult{
		URL:        apiURL,
		Latency:    latency,
		Categories: len(envelope.Data),
	}, nil
}
