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
	"time"

	applog "barstore/internal/log"
)

const maxBody = 4 << 20

// TokenSource supplies the anonymous session token sent with every call.
type TokenSource interface {
	Token(ctx context.Context) string
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Envelope is a successful response body: {status, message, ...payload}.
type Envelope struct {
	Message string
	Fields  map[string]json.RawMessage
}

// Field decodes one payload field into v. It reports false when the field is
// absent or null.
func (e Envelope) Field(name string, v any) (bool, error) {
	raw, ok := e.Fields[name]
	if !ok || len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Do performs one round trip. GET calls carry the token as a query parameter,
// every other method carries it in the JSON body. fallback is the message used
// when the backend gives none.
func (c *Client) Do(ctx context.Context, method, path string, body map[string]any, fallback string) (Envelope, error) {
	op := method + " " + path
	token := c.tokens.Token(ctx)

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return Envelope{}, transportErr(op, fallback, err)
	}
	var rdr io.Reader
	if method == http.MethodGet {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	} else {
		payload := make(map[string]any, len(body)+1)
		for k, v := range body {
			payload[k] = v
		}
		payload["token"] = token
		buf, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, transportErr(op, fallback, fmt.Errorf("encode body: %w", err))
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return Envelope{}, transportErr(op, fallback, err)
	}
	req.Header.Set("Accept", "application/json")
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		applog.Debug(nil, "backend.request.fail", map[string]any{"op": op, "latency_ms": time.Since(start).Milliseconds(), "err": err.Error()})
		return Envelope{}, transportErr(op, fallback, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return Envelope{}, transportErr(op, fallback, err)
	}
	applog.Debug(nil, "backend.request", map[string]any{"op": op, "code": res.StatusCode, "latency_ms": time.Since(start).Milliseconds()})

	var fields map[string]json.RawMessage
	decodeErr := json.Unmarshal(raw, &fields)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := fallback
		if decodeErr == nil {
			if m := messageText(fields["message"]); m != "" {
				msg = m
			}
		}
		return Envelope{}, protocolErr(op, msg, fmt.Errorf("status %d", res.StatusCode))
	}
	if decodeErr != nil || fields == nil {
		return Envelope{}, protocolErr(op, fallback, errors.Join(errors.New("invalid response format"), decodeErr))
	}
	if !truthy(fields["status"]) {
		msg := messageText(fields["message"])
		if msg == "" {
			msg = fallback
		}
		return Envelope{}, protocolErr(op, msg, errors.New("status is false"))
	}
	return Envelope{Message: messageText(fields["message"]), Fields: fields}, nil
}
