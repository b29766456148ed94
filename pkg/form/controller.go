package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-applyform/pkg/catalog"
	"github.com/goliatone/go-applyform/pkg/choice"
	"github.com/goliatone/go-applyform/pkg/dropdown"
	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/notify"
	"github.com/goliatone/go-applyform/pkg/submit"
	"github.com/goliatone/go-applyform/pkg/validation"
)

// Controller owns one in-progress application.
type Controller struct {
	def       model.FormDefinition
	rules     *validation.Ruleset
	catalogs  *catalog.Store
	submitter submit.Submitter
	notifier  notify.Notifier
	logger    *logrus.Entry
	events    dropdown.EventSource
	sanitizer func(string) string

	mu        sync.Mutex
	scalars   map[string]string
	singles   map[string]choice.Choice
	multis    map[string]*choice.Set
	dropdowns map[string]*dropdown.Dropdown
	errors    validation.Errors
	sub       Submission
	frozen    bool
	closed    bool
}

// New builds an empty form for def. Choice fields must reference catalogs
// present in the configured store.
func New(def model.FormDefinition, submitter submit.Submitter, opts ...Option) (*Controller, error) {
	if submitter == nil {
		return nil, errors.New("form: submitter is required")
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	c := &Controller{
		def:       def.Clone(),
		submitter: submitter,
		notifier:  notify.Nop,
		logger:    discardLogger(),
		scalars:   make(map[string]string),
		singles:   make(map[string]choice.Choice),
		multis:    make(map[string]*choice.Set),
		dropdowns: make(map[string]*dropdown.Dropdown),
		errors:    validation.Errors{},
		sub:       Submission{Status: StatusIdle},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.WithField("form_id", def.ID)
	if c.events == nil {
		c.events = dropdown.NewBus()
	}
	if c.catalogs == nil {
		store, err := catalog.LoadDefaults()
		if err != nil {
			return nil, fmt.Errorf("form: load default catalogs: %w", err)
		}
		c.catalogs = store
	}

	rules, err := validation.Compile(c.def)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	c.rules = rules

	for _, field := range c.def.Fields {
		switch field.Kind {
		case model.FieldKindSingleChoice, model.FieldKindMultiChoice:
			if _, ok := c.catalogs.Catalog(field.Catalog); !ok {
				return nil, fmt.Errorf("form: field %q references unknown catalog %q", field.Name, field.Catalog)
			}
			c.dropdowns[field.Name] = dropdown.New(field.Name, c.events)
			if field.Kind == model.FieldKindMultiChoice {
				c.multis[field.Name] = choice.NewSet()
			} else {
				c.singles[field.Name] = choice.Choice{}
			}
		default:
			c.scalars[field.Name] = ""
		}
	}
	return c, nil
}

// Definition returns a copy of the form definition.
func (c *Controller) Definition() model.FormDefinition {
	return c.def.Clone()
}

// SetField sets a scalar field and re-validates it.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, model.FieldKind.Scalar); err != nil {
		return err
	}
	c.scalars[name] = c.clean(value)
	c.revalidateLocked(name)
	return nil
}

// ToggleMultiChoice removes option when selected and adds it otherwise. The
// sentinel is never stored.
func (c *Controller) ToggleMultiChoice(name, option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isMulti); err != nil {
		return err
	}
	if option == choice.OtherSentinel {
		return nil
	}
	c.multis[name].Toggle(option)
	c.revalidateLocked(name)
	return nil
}

// AddFreeTextChoice appends trimmed text to a multi choice field. Blank or
// already present text is ignored. On success the field's free-text buffer
// is cleared and its picker closes.
func (c *Controller) AddFreeTextChoice(name, text string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isMulti); err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(c.clean(text))
	if trimmed == "" || trimmed == choice.OtherSentinel || !c.multis[name].Add(trimmed) {
		return false, nil
	}
	dd := c.dropdowns[name]
	dd.ClearBuffer()
	dd.Close()
	c.revalidateLocked(name)
	return true, nil
}

// RemoveMultiChoice removes a single entry.
func (c *Controller) RemoveMultiChoice(name, option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isMulti); err != nil {
		return err
	}
	if c.multis[name].Remove(option) {
		c.revalidateLocked(name)
	}
	return nil
}

// ClearMultiChoice empties a multi choice field and its search text.
func (c *Controller) ClearMultiChoice(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isMulti); err != nil {
		return err
	}
	c.multis[name].Clear()
	c.dropdowns[name].SetQuery("")
	c.revalidateLocked(name)
	return nil
}

// SelectSingleChoice replaces the selection. Selecting the sentinel leaves
// the value pending until SetFreeTextSingleChoice commits text; a value
// outside the field's catalog is stored as a custom choice.
func (c *Controller) SelectSingleChoice(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	field, err := c.mutableField(name, isSingle)
	if err != nil {
		return err
	}
	c.singles[name] = c.resolveSingleLocked(field, value)
	dd := c.dropdowns[name]
	if strings.TrimSpace(value) == choice.OtherSentinel {
		dd.ClearBuffer()
	} else {
		dd.Close()
	}
	c.revalidateLocked(name)
	return nil
}

// SetFreeTextSingleChoice commits free text for the "Other" selection.
// Blank text keeps the field pending.
func (c *Controller) SetFreeTextSingleChoice(name, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isSingle); err != nil {
		return err
	}
	text = c.clean(text)
	c.singles[name] = choice.Custom(text)
	c.dropdowns[name].SetBuffer(text)
	c.revalidateLocked(name)
	return nil
}

// SetSearch stores the picker's search text for a choice field.
func (c *Controller) SetSearch(name, query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, model.FieldKind.Choice); err != nil {
		return err
	}
	c.dropdowns[name].SetQuery(query)
	return nil
}

// SetFreeTextBuffer stores uncommitted free text for a multi choice field.
func (c *Controller) SetFreeTextBuffer(name, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, isMulti); err != nil {
		return err
	}
	c.dropdowns[name].SetBuffer(text)
	return nil
}

// Options lists the catalog options of a choice field, filtered by the
// picker's current search text.
func (c *Controller) Options(name string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	field, err := c.fieldOfKind(name, model.FieldKind.Choice)
	if err != nil {
		return nil, err
	}
	cat, _ := c.catalogs.Catalog(field.Catalog)
	return cat.Search(c.dropdowns[name].State().Query), nil
}

// Value returns the current value of a field: a string for scalar and
// single choice fields, a []string for multi choice fields.
func (c *Controller) Value(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.fieldOfKind(name, nil); err != nil {
		return nil, err
	}
	return c.valueLocked(name), nil
}

// Selection returns the raw choice of a single choice field.
func (c *Controller) Selection(name string) (choice.Choice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.fieldOfKind(name, isSingle); err != nil {
		return choice.Choice{}, err
	}
	return c.singles[name], nil
}

// Validate checks every field and returns the failures. An empty result
// means the form can be submitted.
func (c *Controller) Validate() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = c.rules.Validate(c.valueLocked)
	return c.errors.Clone()
}

// Errors returns the failures recorded by the last validation pass and
// per-field revalidation.
func (c *Controller) Errors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// Status returns the lifecycle snapshot.
func (c *Controller) Status() Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub
}

// Frozen reports whether the application was accepted.
func (c *Controller) Frozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen
}

// Submit validates the form and, when it is valid, sends it to the
// submitter exactly once. Validation failures are returned as
// validation.Errors and leave the lifecycle untouched. Collaborator
// failures move the form to failed and are returned as
// *submit.SubmissionError.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.sub.Status == StatusSucceeded:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	case c.sub.Status == StatusPending:
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}

	c.errors = c.rules.Validate(c.valueLocked)
	if len(c.errors) > 0 {
		errs := c.errors.Clone()
		c.mu.Unlock()
		c.logger.WithField("fields", errs.Fields()).Debug("submission blocked by validation")
		return errs
	}

	c.transitionLocked(StatusPending)
	c.sub.Attempts++
	c.sub.Reason = ""
	attempt := c.sub.Attempts
	payload := c.payloadLocked()
	c.mu.Unlock()

	logger := c.logger.WithField("attempt", attempt)
	logger.Info("submitting application")

	resp, err := c.submitter.Submit(ctx, payload)
	if err == nil && !resp.Success {
		err = submit.Rejected(resp)
	}
	if err != nil {
		var se *submit.SubmissionError
		if !errors.As(err, &se) {
			err = &submit.SubmissionError{Kind: submit.KindTransport, RequestID: resp.RequestID, Err: err}
		}
	}

	c.mu.Lock()
	c.sub.RequestID = resp.RequestID
	if err != nil {
		c.transitionLocked(StatusFailed)
		c.sub.Reason = err.Error()
	} else {
		c.transitionLocked(StatusSucceeded)
		c.frozen = true
		for _, dd := range c.dropdowns {
			dd.Close()
		}
	}
	c.mu.Unlock()

	if err != nil {
		logger.WithError(err).Warn("submission failed")
		if submit.IsRejected(err) {
			c.notifier.Notify(notify.Error(notify.MessageRejected))
		} else {
			c.notifier.Notify(notify.Error(notify.MessageTransportError))
		}
		return err
	}
	logger.WithField("request_id", resp.RequestID).Info("application accepted")
	c.notifier.Notify(notify.Success(notify.MessageSubmitted))
	return nil
}

// Close releases every picker subscription. Further mutations return
// ErrClosed. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, dd := range c.dropdowns {
		dd.Unmount()
	}
	return nil
}

func (c *Controller) transitionLocked(next Status) {
	if !c.sub.Status.CanTransitionTo(next) {
		c.logger.WithFields(logrus.Fields{
			"from": c.sub.Status,
			"to":   next,
		}).Error("invalid submission transition")
		return
	}
	c.sub.Status = next
}

func (c *Controller) revalidateLocked(name string) {
	if err := c.rules.Field(name, c.valueLocked(name)); err != nil {
		var ve validation.ValidationError
		if errors.As(err, &ve) {
			c.errors[name] = ve.Message
			return
		}
		c.errors[name] = err.Error()
		return
	}
	delete(c.errors, name)
}

// resolveSingleLocked maps raw onto the field's catalog: blank clears the
// selection, catalog members and the sentinel are predefined, anything else
// is custom text.
func (c *Controller) resolveSingleLocked(field model.Field, raw string) choice.Choice {
	value := strings.TrimSpace(raw)
	cat, _ := c.catalogs.Catalog(field.Catalog)
	switch {
	case value == "":
		return choice.Choice{}
	case value == choice.OtherSentinel || cat.Recognized(value):
		return choice.Predefined(value)
	default:
		return choice.Custom(c.clean(value))
	}
}

func (c *Controller) valueLocked(name string) any {
	if set, ok := c.multis[name]; ok {
		return set.Values()
	}
	if sel, ok := c.singles[name]; ok {
		return sel.String()
	}
	return c.scalars[name]
}

func (c *Controller) fieldOfKind(name string, accept func(model.FieldKind) bool) (model.Field, error) {
	field, ok := c.def.Field(name)
	if !ok {
		return model.Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if accept != nil && !accept(field.Kind) {
		return model.Field{}, fmt.Errorf("%w: %q is %s", ErrFieldKind, name, field.Kind)
	}
	return field, nil
}

func (c *Controller) mutableField(name string, accept func(model.FieldKind) bool) (model.Field, error) {
	if c.closed {
		return model.Field{}, ErrClosed
	}
	if c.frozen {
		return model.Field{}, ErrFrozen
	}
	return c.fieldOfKind(name, accept)
}

func isMulti(k model.FieldKind) bool  { return k == model.FieldKindMultiChoice }
func isSingle(k model.FieldKind) bool { return k == model.FieldKindSingleChoice }
