// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify is a client for the external hoax message classifier.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/hoax-insight/internal/httputil"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Category is a classifier verdict.
type Category string

const (
	CategoryHoax       Category = "HOAX"
	CategorySuspicious Category = "SUSPICIOUS"
	CategoryChat       Category = "CHAT_BIASA"
	CategoryError      Category = "ERROR"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRate    = 2.0
	maxErrorBody   = 512
)

// Result is the classifier response for one message.
type Result struct {
	Category    Category `json:"category" yaml:"category"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Alert reports whether the verdict warrants a warning to the sender.
func (r Result) Alert() bool {
	return r.Category == CategoryHoax || r.Category == CategorySuspicious
}

type request struct {
	Text string `json:"text"`
}

// Client calls the classification service.
type Client struct {
	endpoint   string
	apiKey     string
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter
}

// New builds a Client from cfg. Endpoint is required.
func New(cfg types.ClassifierConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, eris.New("classify: classifier.endpoint is not set")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = defaultRate
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Classify sends one message to the classifier.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	var res Result
	if strings.TrimSpace(text) == "" {
		return res, eris.New("classify: empty message")
	}

	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return res, eris.Wrap(err, "classify: encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/classify", bytes.NewReader(body))
	if err != nil {
		return res, eris.Wrap(err, "classify: building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return res, eris.Wrap(err, "classify: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return res, eris.Errorf("classify: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, eris.Wrap(err, "classify: decoding response")
	}
	if res.Category == "" {
		return res, eris.New("classify: response has no category")
	}

	zap.L().Debug("message classified",
		zap.String("category", string(res.Category)),
		zap.Float64("confidence", res.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// ClassifyBatch classifies messages in order, paced by the client's rate
// limit. A message that fails gets a CategoryError result carrying the
// error text; the batch only fails when ctx is done.
func (c *Client) ClassifyBatch(ctx context.Context, texts []string) ([]Result, error) {
	out := make([]Result, len(texts))
	for i, text := range texts {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "classify: batch")
		}
		res, err := c.Classify(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "classify: batch")
			}
			zap.L().Warn("classification failed", zap.Int("index", i), zap.Error(err))
			res = Result{Category: CategoryError, Explanation: err.Error()}
		}
		out[i] = res
	}
	return out, nil
}
