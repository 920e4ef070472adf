// Package imagegen is the client for the avatar image generation service.
package imagegen

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"petworld/internal/adapter/upstream"
)

var (
	ErrEmptyPrompt     = errors.New("prompt is required")
	ErrMissingImageURL = errors.New("imagegen response has no imageUrl")
)

type Client struct {
	http *upstream.Client
}

func New(c *upstream.Client) *Client {
	return &Client{http: c}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.http.JSON(ctx, http.MethodPost, "/generate-image", map[string]string{"prompt": prompt}, &out); err != nil {
		return "", err
	}
	if out.ImageURL == "" {
		return "", ErrMissingImageURL
	}
	return out.ImageURL, nil
}
