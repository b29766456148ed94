// Package notify delivers the transient feedback shown after a submission
// attempt and renders the confirmation shown once an application has been
// accepted.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Messages shown for each submission outcome.
const (
	MessageSubmitted      = "Successfully applied!"
	MessageRejected       = "Submission failed. Please try again."
	MessageTransportError = "Error submitting form. Please try again."
)

// Toast is a short-lived notification.
type Toast struct {
	Level   Level
	Title   string
	Message string
}

// Success builds a success toast.
func Success(message string) Toast { return Toast{Level: LevelSuccess, Message: message} }

// Error builds an error toast.
func Error(message string) Toast { return Toast{Level: LevelError, Message: message} }

// Notifier receives toasts. Implementations must not block for long; the
// form controller calls Notify after releasing its lock.
type Notifier interface {
	Notify(Toast)
}

// Func adapts a function into a Notifier.
type Func func(Toast)

// Notify calls fn.
func (fn Func) Notify(t Toast) { fn(t) }

// Nop discards every toast.
var Nop Notifier = Func(func(Toast) {})

// WriterNotifier prints toasts as "[level] message" lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier writes toasts to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes the toast.
func (n *WriterNotifier) Notify(t Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if t.Title != "" {
		fmt.Fprintf(n.w, "[%s] %s: %s\n", t.Level, t.Title, t.Message)
		return
	}
	fmt.Fprintf(n.w, "[%s] %s\n", t.Level, t.Message)
}

// LogNotifier forwards toasts to a logger, mapping levels onto log levels.
type LogNotifier struct {
	Logger *logrus.Entry
}

// Notify logs the toast.
func (n LogNotifier) Notify(t Toast) {
	if n.Logger == nil {
		return
	}
	entry := n.Logger.WithField("toast_level", string(t.Level))
	if t.Title != "" {
		entry = entry.WithField("title", t.Title)
	}
	switch t.Level {
	case LevelError:
		entry.Error(t.Message)
	case LevelWarning:
		entry.Warn(t.Message)
	default:
		entry.Info(t.Message)
	}
}

// Multi fans a toast out to several notifiers.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(t Toast) {
		for _, n := range notifiers {
			if n != nil {
				n.Notify(t)
			}
		}
	})
}
