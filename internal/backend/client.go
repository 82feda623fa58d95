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
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Settings configures the backend client.
type Settings struct {
	BaseURL          string
	APIToken         string
	Timeout          time.Duration
	BreakerName      string
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
}

// Client talks to the station backend over HTTP+JSON.
// Every call passes through a circuit breaker; 5xx answers and transport
// failures count against it, 4xx answers do not.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewClient creates a new backend Client.
func NewClient(settings Settings, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: settings.Timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	failureThreshold := settings.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 5
	}

	name := settings.BreakerName
	if name == "" {
		name = "station-backend"
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("backend circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(settings.BaseURL, "/"),
		token:   settings.APIToken,
		http:    httpClient,
		breaker: breaker,
		log:     log,
	}
}

// response is a backend answer that made it past the breaker (status < 500).
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do performs one request. It never retries.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*response, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = b
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("%w: build %s %s: %v", ErrFatal, method, path, err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s %s: %v", ErrTransient, method, path, err)
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrFatal, method, path, resp.StatusCode, errorMessage(data))
		}

		return &response{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, err)
		}
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	resp := result.(*response)
	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.status),
	)
	return resp, nil
}

// call performs a request and maps non-2xx answers onto the package errors.
func (c *Client) call(ctx context.Context, method, path string, payload any) (*response, error) {
	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if err := statusError(method, path, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func statusError(method, path string, resp *response) error {
	if resp.ok() {
		return nil
	}

	msg := errorMessage(resp.body)
	switch resp.status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s: %s", ErrNotFound, method, path, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s %s: %s", ErrConflict, method, path, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s %s: %s", ErrRejected, method, path, msg)
	default:
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrFatal, method, path, resp.status, msg)
	}
}

func escape(s string) string {
	return url.PathEscape(s)
}
