package form

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-applyform/pkg/catalog"
	"github.com/goliatone/go-applyform/pkg/dropdown"
	"github.com/goliatone/go-applyform/pkg/notify"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier receives the toast emitted after each submission attempt.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithCatalogs supplies the option catalogs. The embedded defaults are used
// otherwise.
func WithCatalogs(store *catalog.Store) Option {
	return func(c *Controller) {
		c.catalogs = store
	}
}

// WithEventSource wires outside-pointer dismissal to src. By default the
// controller owns a private bus fed through PointerDown.
func WithEventSource(src dropdown.EventSource) Option {
	return func(c *Controller) {
		if src != nil {
			c.events = src
		}
	}
}

// WithSanitizer rewrites free text before it is stored. Validation,
// duplicate checks and the submitted payload all see the rewritten value.
func WithSanitizer(fn func(string) string) Option {
	return func(c *Controller) {
		c.sanitizer = fn
	}
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
