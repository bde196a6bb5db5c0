package httpcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jonwraymond/netrepo/call"
	"github.com/jonwraymond/netrepo/observe"
)

// Call is a single-shot JSON request.
type Call[T any] struct {
	client *Client
	ctx    context.Context
	method string
	url    string
	body   []byte

	mu       sync.Mutex
	executed bool
	canceled bool
	cancel   context.CancelFunc
}

// NewCall creates a call. path is resolved against the client's base URL
// and body, when non-nil, is encoded as JSON. ctx bounds the request.
func NewCall[T any](ctx context.Context, client *Client, method, path string, body any) (*Call[T], error) {
	u, err := client.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseURL, err)
	}

	var encoded []byte
	if body != nil {
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}
	}

	return &Call[T]{
		client: client,
		ctx:    ctx,
		method: method,
		url:    u,
		body:   encoded,
	}, nil
}

// Method implements call.Call.
func (c *Call[T]) Method() string { return c.method }

// URL implements call.Call.
func (c *Call[T]) URL() string { return c.url }

// IsExecuted implements call.Call.
func (c *Call[T]) IsExecuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}

// IsCanceled implements call.Call.
func (c *Call[T]) IsCanceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// Enqueue implements call.Call. The request runs on its own goroutine and
// cb is invoked there.
func (c *Call[T]) Enqueue(cb call.Callback[T]) {
	c.mu.Lock()
	if c.canceled {
		c.mu.Unlock()
		panic(call.ErrCanceled)
	}
	if c.executed {
		c.mu.Unlock()
		panic(call.ErrAlreadyExecuted)
	}
	c.executed = true
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()
		resp, err := c.do(ctx)
		if err != nil {
			if c.IsCanceled() {
				err = fmt.Errorf("%w: %w", ErrCanceled, err)
			}
			cb.OnFailure(c, err)
			return
		}
		cb.OnResponse(c, resp)
	}()
}

// Cancel implements call.Call.
func (c *Call[T]) Cancel() {
	c.mu.Lock()
	c.canceled = true
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Clone implements call.Call.
func (c *Call[T]) Clone() call.Call[T] {
	return &Call[T]{
		client: c.client,
		ctx:    c.ctx,
		method: c.method,
		url:    c.url,
		body:   c.body,
	}
}

func (c *Call[T]) do(ctx context.Context) (*call.Response[T], error) {
	release, err := c.client.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var reqBody io.Reader
	if c.body != nil {
		reqBody = bytes.NewReader(c.body)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("httpcall: create request: %w", err)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.client.decorator != nil {
		if err := c.client.decorator.Decorate(ctx, req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	httpResp, err := c.client.http.Do(req)
	if err != nil {
		c.client.logger.Warn(ctx, "request failed",
			observe.F("method", c.method),
			observe.F("url", c.url),
			observe.F("error", err.Error()),
		)
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	c.client.logger.Debug(ctx, "request completed",
		observe.F("method", c.method),
		observe.F("url", c.url),
		observe.F("status", httpResp.StatusCode),
		observe.F("duration_ms", time.Since(start).Milliseconds()),
	)

	resp := &call.Response[T]{StatusCode: httpResp.StatusCode, Header: httpResp.Header}
	if !resp.Successful() {
		resp.ErrorBody, err = io.ReadAll(io.LimitReader(httpResp.Body, c.client.maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("httpcall: read error body: %w", err)
		}
		return resp, nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&resp.Body); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrDecodeBody, err)
	}
	return resp, nil
}

var _ call.Call[any] = (*Call[any])(nil)
