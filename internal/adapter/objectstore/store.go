// Package objectstore reads avatars and videos from the public bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"petworld/internal/adapter/upstream"
	"petworld/internal/app/ports"
)

var ErrEmptyPath = errors.New("object path is required")

type Store struct {
	http *upstream.Client
}

func New(c *upstream.Client) *Store {
	return &Store{http: c}
}

// Fetch reads a bucket-relative path. Absolute and scheme-relative URLs are
// refused so callers cannot point the bucket proxy at another host.
func (s *Store) Fetch(ctx context.Context, path string) (ports.Object, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ports.Object{}, ErrEmptyPath
	}
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") || strings.Contains(path, "\\") {
		return ports.Object{}, fmt.Errorf("%w: %q", ports.ErrInvalidObjectPath, path)
	}
	resp, err := s.http.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return ports.Object{}, err
	}
	return s.object(resp)
}

// FetchURL downloads an absolute URL, used for avatars hosted by the image
// generator.
func (s *Store) FetchURL(ctx context.Context, rawURL string) (ports.Object, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ports.Object{}, ErrEmptyPath
	}
	resp, err := s.http.DoURL(ctx, http.MethodGet, rawURL, "", nil)
	if err != nil {
		return ports.Object{}, err
	}
	return s.object(resp)
}

func (s *Store) object(resp upstream.Response) (ports.Object, error) {
	if !resp.OK() {
		return ports.Object{}, s.http.StatusError(resp)
	}
	ct := resp.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ports.Object{Body: resp.Body, ContentType: ct}, nil
}
