package submit

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Format selects the request encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatForm Format = "form"
)

// DefaultPath is the collaborator route used when none is configured.
const DefaultPath = "/api/submit"

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default client has no
// timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPath sets the route appended to the base URL.
func WithPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFormat selects JSON or form encoding.
func WithFormat(format Format) Option {
	return func(c *Client) {
		if format != "" {
			c.format = format
		}
	}
}

// WithHiddenFields attaches values sent with every submission.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(c *Client) {
		c.hidden = MergeHiddenFields(c.hidden, fields...)
	}
}

// WithContract validates payloads and acknowledgements against contract.
func WithContract(contract *Contract) Option {
	return func(c *Client) {
		c.contract = contract
	}
}

// WithMetrics records outcomes and latency.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestID replaces the request id generator.
func WithRequestID(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

func defaultClient() *Client {
	return &Client{
		http:      &http.Client{},
		path:      DefaultPath,
		format:    FormatJSON,
		logger:    discardLogger(),
		requestID: uuid.NewString,
	}
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
