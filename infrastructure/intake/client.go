// Package intake posts completed quotes to the third-party form endpoint.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Submission is the field set the form endpoint accepts.
type Submission struct {
	Reference string
	Name      string
	Email     string
	Phone     string
	Notes     string
	Summary   string
	Region    string
	Zip       string
}

// Client submits quotes with capped exponential backoff on transient
// failures. The endpoint treats 200 and 202 as accepted.
type Client struct {
	url        string
	httpClient *http.Client
	maxRetries uint64
}

func NewClient(url string, timeout time.Duration, maxRetries uint64) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// Submit posts the submission as multipart form fields. A nil return means
// the endpoint confirmed receipt; callers keep the draft on any error.
func (c *Client) Submit(ctx context.Context, sub Submission) error {
	body, contentType, err := encodeForm(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("intake rejected submission: status %d", resp.StatusCode))
		default:
			return fmt.Errorf("intake submission failed: status %d", resp.StatusCode)
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		slog.Warn("quote submission failed", slog.String("reference", sub.Reference), slog.Any("err", err))
		return err
	}
	return nil
}

func encodeForm(sub Submission) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"reference": sub.Reference,
		"name":      sub.Name,
		"email":     sub.Email,
		"phone":     sub.Phone,
		"notes":     sub.Notes,
		"summary":   sub.Summary,
		"region":    sub.Region,
		"zip":       sub.Zip,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
