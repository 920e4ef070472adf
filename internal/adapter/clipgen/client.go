// Package clipgen is the client for the emotion video generation service.
package clipgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"petworld/internal/adapter/upstream"
	"petworld/internal/domain/pet"
)

const ImageField = "image"

var ErrMissingJobID = errors.New("clipgen response has no job_id")

type Client struct {
	http *upstream.Client
}

func New(c *upstream.Client) *Client {
	return &Client{http: c}
}

// StartJob uploads the avatar and returns the id of the queued job.
func (c *Client) StartJob(ctx context.Context, image io.Reader, filename string) (string, error) {
	body, contentType, err := ImageForm(image, filename)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(ctx, http.MethodPost, "/generate-videos", contentType, body)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", c.http.StatusError(resp)
	}
	var out struct {
		JobID any `json:"job_id"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("clipgen: decode start response: %w", err)
	}
	id, ok := out.JobID.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", ErrMissingJobID
	}
	return id, nil
}

func (c *Client) Status(ctx context.Context, jobID string) (pet.GenerationJob, error) {
	var job pet.GenerationJob
	if err := c.http.JSON(ctx, http.MethodGet, "/status/"+url.PathEscape(jobID), nil, &job); err != nil {
		return pet.GenerationJob{}, err
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

// ImageForm encodes image as the single multipart field the service reads.
func ImageForm(image io.Reader, filename string) ([]byte, string, error) {
	if filename == "" {
		filename = "pet-avatar.jpg"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(ImageField, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", fmt.Errorf("clipgen: read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
