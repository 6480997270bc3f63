package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RemoteClassifier delegates prediction to an inference service. It POSTs
// {"features": [...]} and expects {"label": "..."} back.
type RemoteClassifier struct {
	url    string
	client *http.Client
}

// NewRemoteClassifier returns a classifier calling url. A nil client uses a
// client with a 30 second timeout.
func NewRemoteClassifier(url string, client *http.Client) *RemoteClassifier {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteClassifier{url: url, client: client}
}

// Predict sends features to the inference service.
func (r *RemoteClassifier) Predict(ctx context.Context, features []float64) (string, error) {
	body, err := json.Marshal(struct {
		Features []float64 `json:"features"`
	}{features})
	if err != nil {
		return "", fmt.Errorf("encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Label == "" {
		return "", fmt.Errorf("inference returned no label")
	}
	return result.Label, nil
}

// CheckHealth queries the service's /health endpoint.
func (r *RemoteClassifier) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(r.url, "/")+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
