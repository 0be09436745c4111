// Package imghost uploads user images to the external image host. The host is
// treated as an opaque collaborator: files go out verbatim as multipart forms and
// only the hosted URL comes back. This is the one call in the system with an
// explicit timeout and retry budget.
package imghost

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/bitejournal/bitejournal/utils/log"
)

const (
	defaultUploadURL = "https://api.imgbb.com/1/upload"

	uploadTimeout = 60 * time.Second
	maxAttempts   = 3
	retryDelay    = time.Second

	// The host rejects anything larger.
	MaxImageBytes = 32 * 1024 * 1024
)

// uploadResponse is the provider's JSON envelope.
type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the image host. The zero value is not usable; construct with
// NewClient or NewClientFromEnv.
type Client struct {
	uploadURL  string
	apiKey     string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient creates a client against the given upload endpoint.
func NewClient(uploadURL, apiKey string) *Client {
	return &Client{
		uploadURL:  uploadURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: uploadTimeout},
		retryDelay: retryDelay,
	}
}

// NewClientFromEnv creates a client for the default host keyed by IMGBB_API_KEY.
func NewClientFromEnv() *Client {
	return NewClient(defaultUploadURL, os.Getenv("IMGBB_API_KEY"))
}

// Upload sends one image and returns its hosted URL. Transport errors and
// provider-side failures are retried up to the attempt budget with a fixed
// delay; the last error wins.
func (c *Client) Upload(filename, contentType string, data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", errors.Errorf("image %s exceeds %d bytes host limit", filename, MaxImageBytes)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		url, err := c.uploadOnce(filename, contentType, data)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if attempt < maxAttempts {
			log.Log.Warnf("image upload attempt %d/%d for %s failed: %s", attempt, maxAttempts, filename, err)
			time.Sleep(c.retryDelay)
		}
	}
	return "", lastErr
}

func (c *Client) uploadOnce(filename, contentType string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", errors.Wrap(err, "fail to build multipart form")
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.Wrap(err, "fail to build multipart form")
	}
	if err := writer.WriteField("key", c.apiKey); err != nil {
		return "", errors.Wrap(err, "fail to build multipart form")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "fail to build multipart form")
	}

	req, err := http.NewRequest(http.MethodPost, c.uploadURL, body)
	if err != nil {
		return "", errors.Wrap(err, "fail to build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "image host unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "fail to read image host response")
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.Wrap(err, "malformed image host response")
	}
	if !parsed.Success {
		return "", errors.Errorf("image host upload failed: %s", parsed.Error.Message)
	}
	return parsed.Data.URL, nil
}
