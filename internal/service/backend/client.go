// Package backend talks to the remote classification and history API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"ecosort/internal/category"
	"ecosort/internal/config"
	"ecosort/internal/dataurl"
	"ecosort/internal/dto"
	"ecosort/internal/logger"
	"ecosort/internal/model"
)

// ErrTransport marks failures to reach the backend or read its answer.
var ErrTransport = errors.New("backend unreachable")

// maxImageBytes caps demo image downloads.
const maxImageBytes = 20 << 20

// RemoteError is a request the backend answered with success=false.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "Unknown error"
	}
	return e.Message
}

// Prediction is a decoded /predict answer.
type Prediction struct {
	Category     category.Category
	Label        string // Raw label as sent by the backend
	Confidence   float64
	PredictionID int64
}

// Client wraps the backend HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *logger.Logger
}

// NewClient creates a client for cfg.BackendURL.
func NewClient(cfg *config.Config, logger *logger.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", cfg.BackendURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host required", cfg.BackendURL)
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Predict posts an image for classification. demoCategory is the dataset key
// in demo mode and empty otherwise.
func (c *Client) Predict(ctx context.Context, image dataurl.DataURL, demoCategory string) (*Prediction, error) {
	body := dto.PredictRequest{
		Image:        image.String(),
		DemoCategory: demoCategory,
	}

	var resp dto.PredictResponse
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("predict"), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{Message: resp.Error}
	}

	return &Prediction{
		Category:     category.Parse(resp.Category),
		Label:        resp.Category,
		Confidence:   resp.Confidence,
		PredictionID: resp.PredictionID,
	}, nil
}

// History fetches the most recent limit predictions, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	u := c.endpoint("history")
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	var resp dto.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{Message: resp.Error}
	}

	entries := make([]model.HistoryEntry, 0, len(resp.History))
	for _, item := range resp.History {
		entries = append(entries, c.toEntry(item))
	}
	return entries, nil
}

// toEntry maps a wire item, building a thumbnail when the backend sent none.
func (c *Client) toEntry(item dto.HistoryItem) model.HistoryEntry {
	thumb := dataurl.DataURL(item.Thumbnail)
	if thumb.IsEmpty() && item.ImageData != "" {
		generated, err := dataurl.DataURL(item.ImageData).Thumbnail()
		if err != nil {
			c.logger.Warning("Could not build thumbnail for history entry %d: %v", item.ID, err)
			generated = dataurl.DataURL(item.ImageData)
		}
		thumb = generated
	}

	return model.HistoryEntry{
		ID:         item.ID,
		Thumbnail:  thumb,
		Category:   category.Parse(item.Category),
		Confidence: item.Confidence,
		Timestamp:  item.Timestamp,
	}
}

// ClearHistory deletes every stored prediction.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.doStatus(ctx, c.endpoint("history"))
}

// DeletePrediction deletes one stored prediction.
func (c *Client) DeletePrediction(ctx context.Context, id int64) error {
	return c.doStatus(ctx, c.endpoint("history", strconv.FormatInt(id, 10)))
}

func (c *Client) doStatus(ctx context.Context, u *url.URL) error {
	var resp dto.StatusResponse
	if err := c.doJSON(ctx, http.MethodDelete, u, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Message: resp.Error}
	}
	return nil
}

// DemoImages lists sample image URLs for a dataset category.
func (c *Client) DemoImages(ctx context.Context, key string) ([]string, error) {
	var resp dto.DemoImagesResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("demo-images", key), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// FetchImage downloads an image and returns it as a data URL. Relative URLs
// resolve against the backend root.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (dataurl.DataURL, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL %q: %w", rawURL, err)
	}
	target := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: GET %s returned %s", ErrTransport, target.Redacted(), resp.Status)
	}

	img, err := dataurl.FromReader(resp.Header.Get("Content-Type"), io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return img, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	var resp dto.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("health"), nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("backend status %q", resp.Status)
	}
	return nil
}

func (c *Client) endpoint(elem ...string) *url.URL {
	u := *c.baseURL
	parts := append([]string{u.Path}, elem...)
	u.Path = path.Join(parts...)
	if u.Path == "" || u.Path[0] != '/' {
		u.Path = "/" + u.Path
	}
	return &u
}

// doJSON sends body (if any) as JSON and decodes the reply into out.
// Error bodies that still decode as JSON are returned to the caller so a
// success=false message is not lost behind an HTTP status.
func (c *Client) doJSON(ctx context.Context, method string, u *url.URL, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, u.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Info("%s %s -> %d (%s)", method, u.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s returned %s with unreadable body: %v", ErrTransport, method, u.Path, resp.Status, err)
	}
	return nil
}
