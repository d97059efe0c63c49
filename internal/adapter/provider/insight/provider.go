// Package insight implements the AI enrichment provider over its HTTP API.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/provider"
)

// Provider calls the insight API to compute suggestion payloads.
type Provider struct {
	baseURL    string
	token      string
	maxRetries uint64
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Provider for the given API endpoint. maxRetries bounds the
// number of retry attempts on 5xx and network errors.
func New(baseURL, token string, maxRetries int, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		token:      token,
		maxRetries: uint64(maxRetries),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.With("adapter", "insight"),
	}
}

type generateRequest struct {
	Kind       string         `json:"kind"`
	RecordType string         `json:"record_type"`
	Title      string         `json:"title"`
	Payload    map[string]any `json:"payload"`
}

type generateResponse struct {
	Payload map[string]any `json:"payload"`
	Model   string         `json:"model"`
}

// errPermanent marks responses that a retry cannot fix (4xx).
var errPermanent = errors.New("permanent provider error")

// Generate computes a suggestion payload for the request. It retries on 5xx
// and network errors with exponential backoff; 4xx responses fail
// immediately. Cancellation of ctx aborts both the request and the backoff.
func (p *Provider) Generate(ctx context.Context, req provider.EnrichmentRequest) (*provider.EnrichmentResult, error) {
	body, err := json.Marshal(generateRequest{
		Kind:       string(req.Kind),
		RecordType: string(req.RecordType),
		Title:      req.Title,
		Payload:    req.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("insight: marshal request: %w", err)
	}

	p.log.DebugContext(ctx, "insight request", slog.String("kind", string(req.Kind)))

	var result *provider.EnrichmentResult
	operation := func() error {
		res, opErr := p.doOnce(ctx, body)
		if opErr != nil {
			if errors.Is(opErr, errPermanent) || ctx.Err() != nil {
				return backoff.Permanent(opErr)
			}
			p.log.WarnContext(ctx, "insight retry",
				slog.String("kind", string(req.Kind)),
				slog.String("reason", opErr.Error()),
			)
			return opErr
		}
		result = res
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		p.log.ErrorContext(ctx, "insight request failed",
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("insight: %w", err)
	}

	result.Kind = req.Kind
	return result, nil
}

func (p *Provider) doOnce(ctx context.Context, body []byte) (*provider.EnrichmentResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	default:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, errPermanent)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode json: %w", errors.Join(err, errPermanent))
	}
	if out.Payload == nil {
		return nil, fmt.Errorf("empty payload: %w", errPermanent)
	}

	return &provider.EnrichmentResult{Payload: out.Payload, Model: out.Model}, nil
}
