// Package predictor talks to the remote prediction backend over HTTP.
package predictor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/heartrisk-go/internal/domain"
	"github.com/doeshing/heartrisk-go/internal/ports"
)

const (
	predictPath = "/predict"
	modelsPath  = "/models"

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 1 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Encoding domain.Encoding
	// Timeout applies per request; zero leaves the transport default.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements ports.PredictionClient. Each call is a single attempt.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	codec      codec
}

// NewClient validates the base URL and picks the wire codec.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", opts.BaseURL)
	}

	enc := opts.Encoding
	if enc == "" {
		enc = domain.EncodingString
	}
	c, err := codecFor(enc)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.Timeout > 0 {
		clone := *httpClient
		clone.Timeout = opts.Timeout
		httpClient = &clone
	}

	return &Client{baseURL: base, httpClient: httpClient, codec: c}, nil
}

// Predict posts one record to {base}/predict.
func (c *Client) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionOutcome, error) {
	body, err := c.codec.encodeRequest(req)
	if err != nil {
		return domain.PredictionOutcome{}, fmt.Errorf("encode prediction request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, predictPath, body)
	if err != nil {
		return domain.PredictionOutcome{}, err
	}

	outcome, err := decodeOutcome(raw)
	if err != nil {
		return domain.PredictionOutcome{}, &domain.DecodeError{Err: err}
	}
	return outcome, nil
}

// ListModels fetches {base}/models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, modelsPath, nil)
	if err != nil {
		return nil, err
	}
	models, err := decodeModels(raw)
	if err != nil {
		return nil, &domain.DecodeError{Err: err}
	}
	return models, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path).String()
	op := strings.ToLower(method) + " " + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	httpReq.Header.Set("accept", "application/json")
	if body != nil {
		httpReq.Header.Set("content-type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ServerError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

var _ ports.PredictionClient = (*Client)(nil)
