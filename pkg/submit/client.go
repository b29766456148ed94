package submit

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

	"github.com/sirupsen/logrus"
)

// Submitter hands a finished application to the collaborator.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Response, error)
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, payload Payload) (Response, error)

// Submit calls the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, payload Payload) (Response, error) {
	return fn(ctx, payload)
}

// Client is the HTTP Submitter.
type Client struct {
	endpoint  string
	path      string
	format    Format
	http      *http.Client
	hidden    map[string]string
	contract  *Contract
	metrics   *Metrics
	logger    *logrus.Entry
	requestID func() string
}

var _ Submitter = (*Client)(nil)

// NewClient builds a client posting to baseURL plus the configured path.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := defaultClient()
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	base := strings.TrimSpace(baseURL)
	if base == "" {
		return nil, errors.New("submit: base url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("submit: invalid base url %q", baseURL)
	}
	switch c.format {
	case FormatJSON, FormatForm:
	default:
		return nil, fmt.Errorf("submit: unsupported format %q", c.format)
	}

	c.endpoint = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(c.path, "/")
	return c, nil
}

// Endpoint returns the resolved collaborator URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts payload once. A Response is returned whenever the
// collaborator answered with a decodable body, including rejections; the
// caller decides what Success=false means.
func (c *Client) Submit(ctx context.Context, payload Payload) (Response, error) {
	requestID := c.requestID()
	logger := c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"endpoint":   c.endpoint,
	})

	body := withHidden(payload, c.hidden)
	if err := c.contract.ValidateRequest(body); err != nil {
		logger.WithError(err).Warn("payload violates submission contract")
		c.metrics.observe(OutcomeError, 0)
		return Response{RequestID: requestID}, &SubmissionError{Kind: KindContract, RequestID: requestID, Err: err}
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return Response{RequestID: requestID}, transportError(requestID, 0, err)
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(OutcomeError, time.Since(start))
		logger.WithError(err).Warn("submission request failed")
		return Response{RequestID: requestID}, transportError(requestID, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(OutcomeError, elapsed)
		return Response{RequestID: requestID, StatusCode: resp.StatusCode}, transportError(requestID, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(OutcomeError, elapsed)
		logger.WithField("status", resp.StatusCode).Warn("collaborator returned non-2xx status")
		return Response{RequestID: requestID, StatusCode: resp.StatusCode}, transportError(requestID, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	ack, err := DecodeResponse(raw)
	if err != nil {
		c.metrics.observe(OutcomeError, elapsed)
		return Response{RequestID: requestID, StatusCode: resp.StatusCode}, transportError(requestID, resp.StatusCode, err)
	}
	ack.StatusCode = resp.StatusCode
	ack.RequestID = requestID

	if c.contract != nil {
		var generic map[string]any
		if json.Unmarshal(raw, &generic) == nil {
			if err := c.contract.ValidateResponse(generic); err != nil {
				logger.WithError(err).Warn("acknowledgement violates submission contract")
			}
		}
	}

	outcome := OutcomeSuccess
	if !ack.Success {
		outcome = OutcomeRejected
	}
	c.metrics.observe(outcome, elapsed)
	logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"success":  ack.Success,
		"duration": elapsed,
	}).Info("submission acknowledged")

	return ack, nil
}

func (c *Client) newRequest(ctx context.Context, body Payload) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch c.format {
	case FormatForm:
		reader = strings.NewReader(body.Form())
		contentType = "application/x-www-form-urlencoded"
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
