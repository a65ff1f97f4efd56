package category

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the product classification service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a classifier client and verifies the service is
// reachable. The service must not start without its classifier, so an
// unreachable model here is a construction error, not a per-request one.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("classifier base url is required")
	}

	c := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if err := c.ping(); err != nil {
		return nil, fmt.Errorf("classifier not available: %w", err)
	}
	return c, nil
}

func (c *Client) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

type classifyRequest struct {
	Products []string `json:"products"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify predicts a label and confidence per product name, one batched
// call for the whole slice.
func (c *Client) Classify(ctx context.Context, names []string) ([]string, []float64, error) {
	payload, err := json.Marshal(classifyRequest{Products: names})
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/classify", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("calling classifier API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("classifier API error (status %d)", resp.StatusCode)
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("decoding response: %w", err)
	}
	return decoded.Labels, decoded.Scores, nil
}
