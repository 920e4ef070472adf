// Package upstream is the shared outbound HTTP client for the generation
// services, the object store and the ledger gateway.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"petworld/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const DefaultTimeout = 60 * time.Second

var (
	ErrNoBaseURL      = errors.New("upstream base url is empty")
	ErrNotAbsoluteURL = errors.New("not an absolute http(s) url")
)

type Client struct {
	service string
	baseURL string
	hc      *client.Client
}

type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func New(service, baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%s: %w", service, ErrNoBaseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(timeout),
		client.WithWriteTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("%s client: %w", service, err)
	}
	return &Client{service: service, baseURL: baseURL, hc: hc}, nil
}

func (c *Client) Service() string { return c.service }

// URL joins path onto the base url. The result always targets the base host.
func (c *Client) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do sends one request. Non-2xx responses are returned, not turned into errors.
func (c *Client) Do(ctx context.Context, method, path, contentType string, body []byte) (Response, error) {
	return c.send(ctx, method, c.URL(path), path, contentType, body)
}

// DoURL is Do against an absolute http(s) URL on any host.
func (c *Client) DoURL(ctx context.Context, method, rawURL, contentType string, body []byte) (Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Response{}, fmt.Errorf("%s: %w: %q", c.service, ErrNotAbsoluteURL, rawURL)
	}
	return c.send(ctx, method, u.String(), rawURL, contentType, body)
}

func (c *Client) send(ctx context.Context, method, target, label, contentType string, body []byte) (Response, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.SetMethod(method)
	if contentType != "" {
		req.Header.SetContentTypeBytes([]byte(contentType))
	}
	if len(body) > 0 {
		req.SetBody(body)
	}
	if err := c.hc.Do(ctx, req, resp); err != nil {
		return Response{}, fmt.Errorf("%s %s %s: %w", c.service, method, label, err)
	}
	out := Response{
		StatusCode:  resp.StatusCode(),
		Body:        append([]byte(nil), resp.Body()...),
		ContentType: string(resp.Header.ContentType()),
	}
	return out, nil
}

// JSON sends in as a JSON body (nil for none) and decodes a 2xx body into out.
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		body = b
		contentType = consts.MIMEApplicationJSON
	}
	resp, err := c.Do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return c.StatusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}

// StatusError builds a ports.UpstreamError, preferring the service's own
// "error" or "message" field over a generic text.
func (c *Client) StatusError(resp Response) error {
	msg := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(resp.Body, &payload) == nil {
		var text string
		var nested struct {
			Message string `json:"message"`
		}
		switch {
		case json.Unmarshal(payload.Error, &text) == nil && text != "":
			msg = text
		case json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "":
			msg = nested.Message
		case payload.Message != "":
			msg = payload.Message
		}
	}
	return &ports.UpstreamError{
		Service:    c.service,
		StatusCode: resp.StatusCode,
		Message:    msg,
		Body:       resp.Body,
	}
}
