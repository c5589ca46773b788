package httpkit

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

	"kitportal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// StatusError is returned when a backend answers with a non-2xx status.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
}

// StatusCode extracts the upstream status code from err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}

// Request describes one call against the backend API.
type Request struct {
	Op     string
	Method string
	// Path may contain :name placeholders filled from Params.
	Path   string
	Params map[string]string
	Query  url.Values
	Token  string
	Body   interface{}
}

// APIClient is the shared JSON client for the backend services.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewAPIClient creates a client for baseURL. Requests wait on a token bucket of
// ratePerSec/burst before being sent.
func NewAPIClient(baseURL string, timeout time.Duration, ratePerSec float64, burst int, log *logger.Logger) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		log:        log,
	}
}

// Do sends req and decodes a JSON response body into out (which may be nil).
func (c *APIClient) Do(ctx context.Context, req Request, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", req.Op, err)
	}

	reqURL := c.baseURL + ReplaceParams(req.Path, req.Params)
	if len(req.Query) > 0 {
		reqURL += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", req.Op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", req.Op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID(ctx))
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("upstream request failed", "op", req.Op, "error", err)
		return fmt.Errorf("%s: http request: %w", req.Op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{Op: req.Op, Status: resp.StatusCode, Body: string(snippet)}
		c.log.UpstreamError(req.Op, resp.StatusCode, statusErr)
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.Op, err)
	}
	return nil
}

// ReplaceParams substitutes :name placeholders in path with escaped values.
func ReplaceParams(path string, params map[string]string) string {
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, url.PathEscape(value))
	}
	return path
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
