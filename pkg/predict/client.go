package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	predictPath    = "/predict"
	importancePath = "/feature_importance"
	openAPIPath    = "/openapi.json"

	maxBodyBytes = 1 << 20
)

// Client issues requests against the prediction service.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	logger    *zap.Logger
	requestID func() string
}

// NewClient builds a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		baseURL:   baseURL,
		http:      http.DefaultClient,
		logger:    zap.NewNop(),
		requestID: newRequestID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL reports the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict posts the payload to /predict. The payload is encoded with
// encoding/json, so a form.Snapshot keeps its schema key order.
func (c *Client) Predict(ctx context.Context, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("predict: encode request: %w", err)
	}

	status, data, err := c.do(ctx, http.MethodPost, predictPath, body)
	if err != nil {
		return Result{}, err
	}
	if status < 200 || status > 299 {
		msg := serviceMessage(data)
		c.logger.Info("prediction rejected",
			zap.Int("status", status),
			zap.String("detail", msg),
		)
		return Result{}, &ServiceError{Op: predictPath, Status: status, Message: msg, Fields: serviceFields(data)}
	}

	var result Result
	if err := decodeObject(data, &result); err != nil {
		return Result{}, &DecodeError{Op: predictPath, Err: err}
	}
	return result, nil
}

// FeatureImportance fetches the global importance ranking. Entries are
// returned exactly as the service sent them, in received order.
func (c *Client) FeatureImportance(ctx context.Context) ([]FeatureImportance, error) {
	status, data, err := c.do(ctx, http.MethodGet, importancePath, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ServiceError{Op: importancePath, Status: status, Message: describe(importancePath, status)}
	}

	var entries []FeatureImportance
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &DecodeError{Op: importancePath, Err: err}
	}
	return entries, nil
}

// OpenAPIDocument downloads the service's published OpenAPI document.
func (c *Client) OpenAPIDocument(ctx context.Context) ([]byte, error) {
	status, data, err := c.do(ctx, http.MethodGet, openAPIPath, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ServiceError{Op: openAPIPath, Status: status, Message: describe(openAPIPath, status)}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, &TransportError{Op: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	id := c.requestID()
	req.Header.Set("X-Request-ID", id)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", id),
			zap.Error(err),
		)
		return 0, nil, &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &TransportError{Op: path, Err: err}
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.StatusCode, data, nil
}

// serviceMessage extracts the human readable reason from an error body. The
// service reports either {"detail": "..."} or a list of validation items with
// a msg field each.
func serviceMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return DefaultFailureMessage
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		if msg := strings.TrimSpace(detail.Str); msg != "" {
			return msg
		}
	case detail.IsArray():
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if msg := item.Get("msg"); msg.Type == gjson.String && msg.Str != "" {
				msgs = append(msgs, msg.Str)
			}
			return true
		})
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return DefaultFailureMessage
}

// serviceFields groups validation item messages by their dotted location.
func serviceFields(body []byte) map[string][]string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	detail := gjson.GetBytes(body, "detail")
	if !detail.IsArray() {
		return nil
	}

	fields := make(map[string][]string)
	detail.ForEach(func(_, item gjson.Result) bool {
		msg := item.Get("msg").String()
		if msg == "" {
			return true
		}
		var loc []string
		item.Get("loc").ForEach(func(_, part gjson.Result) bool {
			loc = append(loc, part.String())
			return true
		})
		if len(loc) == 0 {
			return true
		}
		path := strings.Join(loc, ".")
		fields[path] = append(fields[path], msg)
		return true
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func decodeObject(data []byte, out any) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON in response body")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("response body is not a JSON object")
	}
	return json.Unmarshal(data, out)
}
