// Package ocr wraps the remote OCR engine behind the text acquisition
// contract: an image in, ordered text lines out, and no failure mode other
// than "no text".
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to an OCR engine over HTTP. The engine receives a PNG and
// responds with the recognized lines top to bottom.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new OCR Client instance.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ocr base url is required")
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type ocrRequest struct {
	Image string `json:"image"`
}

type ocrResponse struct {
	Lines []string `json:"lines"`
}

// ExtractLines converts a receipt image into ordered text lines. Decoding
// and recognition failures are never fatal: they are logged and degrade to
// an empty result, which downstream stages report as "no items found".
func (c *Client) ExtractLines(ctx context.Context, image []byte, contentType string) []string {
	pngData, err := normalizeImage(image, contentType)
	if err != nil {
		slog.Warn("Image decoding failed, treating as no text", "content_type", contentType, "error", err)
		return nil
	}

	lines, err := c.recognize(ctx, pngData)
	if err != nil {
		slog.Warn("OCR failed, treating as no text", "error", err)
		return nil
	}
	return lines
}

func (c *Client) recognize(ctx context.Context, pngData []byte) ([]string, error) {
	payload, err := json.Marshal(ocrRequest{Image: base64.StdEncoding.EncodeToString(pngData)})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/ocr", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR API error (status %d)", resp.StatusCode)
	}

	var decoded ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return decoded.Lines, nil
}
