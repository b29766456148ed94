package dropdown

import (
	"strings"
	"sync"
)

// Region reports whether a pointer target lies inside a picker.
type Region func(target string) bool

// FieldRegion matches the field name itself and any dotted child of it.
func FieldRegion(field string) Region {
	prefix := field + "."
	return func(target string) bool {
		return target == field || strings.HasPrefix(target, prefix)
	}
}

// State is a snapshot of a picker.
type State struct {
	Open   bool
	Query  string
	Buffer string
}

// Option customises a Dropdown.
type Option func(*Dropdown)

// WithRegion overrides the default FieldRegion.
func WithRegion(region Region) Option {
	return func(d *Dropdown) {
		if region != nil {
			d.region = region
		}
	}
}

// WithOnClose registers a callback invoked after the picker closes because
// of an outside pointer event.
func WithOnClose(fn func()) Option {
	return func(d *Dropdown) {
		d.onDismiss = fn
	}
}

// Dropdown is the picker state of one choice field. It is safe for
// concurrent use.
type Dropdown struct {
	mu        sync.Mutex
	field     string
	source    EventSource
	region    Region
	onDismiss func()

	open    bool
	query   string
	buffer  string
	release func()
}

// New creates a closed picker for field. A nil source disables outside
// pointer dismissal.
func New(field string, source EventSource, opts ...Option) *Dropdown {
	d := &Dropdown{
		field:  field,
		source: source,
		region: FieldRegion(field),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Field returns the owning field name.
func (d *Dropdown) Field() string { return d.field }

// Open shows the picker and acquires the outside pointer subscription.
func (d *Dropdown) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return
	}
	d.open = true
	if d.source != nil {
		d.release = d.source.Subscribe(d.handle)
	}
}

// Close hides the picker and releases its subscription.
func (d *Dropdown) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

// Toggle flips the open flag.
func (d *Dropdown) Toggle() {
	d.mu.Lock()
	open := d.open
	d.mu.Unlock()
	if open {
		d.Close()
		return
	}
	d.Open()
}

// Unmount closes the picker and drops its transient text.
func (d *Dropdown) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	d.query = ""
	d.buffer = ""
}

// IsOpen reports whether the picker is shown.
func (d *Dropdown) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// SetQuery stores the search filter text.
func (d *Dropdown) SetQuery(q string) {
	d.mu.Lock()
	d.query = q
	d.mu.Unlock()
}

// SetBuffer stores the pending free-text entry.
func (d *Dropdown) SetBuffer(text string) {
	d.mu.Lock()
	d.buffer = text
	d.mu.Unlock()
}

// ClearBuffer empties the pending free-text entry.
func (d *Dropdown) ClearBuffer() {
	d.SetBuffer("")
}

// State returns a snapshot.
func (d *Dropdown) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Open: d.open, Query: d.query, Buffer: d.buffer}
}

func (d *Dropdown) handle(ev PointerEvent) {
	if d.region(ev.Target) {
		return
	}
	d.mu.Lock()
	wasOpen := d.open
	d.closeLocked()
	dismiss := d.onDismiss
	d.mu.Unlock()

	if wasOpen && dismiss != nil {
		dismiss()
	}
}

func (d *Dropdown) closeLocked() {
	d.open = false
	if d.release != nil {
		d.release()
		d.release = nil
	}
}
