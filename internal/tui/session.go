package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-applyform/pkg/choice"
	"github.com/goliatone/go-applyform/pkg/form"
	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/notify"
	"github.com/goliatone/go-applyform/pkg/submit"
	"github.com/goliatone/go-applyform/pkg/validation"
)

const defaultMaxAttempts = 5

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithConfirmation renders the confirmation shown after acceptance.
func WithConfirmation(r *notify.Renderer, c notify.Confirmation) Option {
	return func(s *Session) {
		s.renderer = r
		s.confirmation = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often a single field is re-asked after an
// invalid answer.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Session walks an applicant through the form in a terminal.
type Session struct {
	ctrl         *form.Controller
	driver       PromptDriver
	renderer     *notify.Renderer
	confirmation notify.Confirmation
	logger       *logrus.Entry
	maxAttempts  int
}

// NewSession prepares an interactive session for ctrl. The survey driver
// is used unless another one is supplied.
func NewSession(ctrl *form.Controller, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{
		ctrl:         ctrl,
		confirmation: notify.DefaultConfirmation(),
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.logger = logrus.NewEntry(l)
	}
	return s, nil
}

// Run asks every field, then submits. Fields failing validation at submit
// time are asked again; a failed submission can be retried.
func (s *Session) Run(ctx context.Context) error {
	def := s.ctrl.Definition()
	if def.Title != "" {
		if err := s.driver.Info(ctx, def.Title); err != nil {
			return err
		}
	}
	if def.Description != "" {
		if err := s.driver.Info(ctx, def.Description); err != nil {
			return err
		}
	}

	for _, field := range def.Fields {
		if err := s.askField(ctx, field); err != nil {
			return err
		}
	}

	for {
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Submit your application?", Default: true})
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeclined
		}

		err = s.ctrl.Submit(ctx)
		if err == nil {
			return s.showConfirmation(ctx)
		}

		var verrs validation.Errors
		if errors.As(err, &verrs) {
			if err := s.reask(ctx, def, verrs); err != nil {
				return err
			}
			continue
		}

		var se *submit.SubmissionError
		if !errors.As(err, &se) {
			return err
		}
		s.logger.WithError(err).Warn("submission attempt failed")
		retry, cerr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if cerr != nil {
			return cerr
		}
		if !retry {
			return err
		}
	}
}

func (s *Session) reask(ctx context.Context, def model.FormDefinition, errs validation.Errors) error {
	for _, field := range def.Fields {
		msg, failing := errs[field.Name]
		if !failing {
			continue
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), msg)); err != nil {
			return err
		}
		if err := s.askField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) showConfirmation(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	first, _ := s.ctrl.Value(model.FieldFirstName)
	name, _ := first.(string)
	text, err := s.renderer.Render(s.confirmation, name)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(text, "\n"))
}

func (s *Session) askField(ctx context.Context, field model.Field) error {
	// Focusing a field counts as a pointer press on it.
	s.ctrl.PointerDown(field.Name)

	switch field.Kind {
	case model.FieldKindSingleChoice:
		return s.askSingle(ctx, field)
	case model.FieldKindMultiChoice:
		return s.askMulti(ctx, field)
	default:
		return s.askScalar(ctx, field)
	}
}

func (s *Session) askScalar(ctx context.Context, field model.Field) error {
	current, _ := s.ctrl.Value(field.Name)
	def, _ := current.(string)
	validate := func(value string) error {
		if err := s.ctrl.SetField(field.Name, value); err != nil {
			return err
		}
		if msg := s.ctrl.Errors()[field.Name]; msg != "" {
			return errors.New(msg)
		}
		return nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		var (
			value string
			err   error
		)
		if field.Kind == model.FieldKindTextArea {
			value, err = s.driver.TextArea(ctx, TextAreaConfig{Message: field.DisplayLabel(), Default: def, Help: field.Placeholder})
		} else {
			value, err = s.driver.Input(ctx, InputConfig{Message: field.DisplayLabel(), Default: def, Help: field.Placeholder, Validator: validate})
		}
		if err != nil {
			return err
		}
		if err := validate(value); err != nil {
			if errors.Is(err, form.ErrFrozen) || errors.Is(err, form.ErrClosed) {
				return err
			}
			if ierr := s.driver.Info(ctx, err.Error()); ierr != nil {
				return ierr
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (s *Session) askSingle(ctx context.Context, field model.Field) error {
	if err := s.ctrl.OpenDropdown(field.Name); err != nil {
		return err
	}
	defer s.ctrl.CloseDropdown(field.Name)

	options, err := s.ctrl.Options(field.Name)
	if err != nil {
		return err
	}
	current, _ := s.ctrl.Selection(field.Name)
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      options,
		DefaultIndex: indexOf(options, current.Selected()),
		Help:         field.Placeholder,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: invalid selection %d for %s", idx, field.Name)
	}
	picked := options[idx]
	if err := s.ctrl.SelectSingleChoice(field.Name, picked); err != nil {
		return err
	}
	if picked != choice.OtherSentinel {
		return nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		text, err := s.driver.Input(ctx, InputConfig{Message: "Please specify", Default: current.Text()})
		if err != nil {
			return err
		}
		if err := s.ctrl.SetFreeTextSingleChoice(field.Name, text); err != nil {
			return err
		}
		if msg := s.ctrl.Errors()[field.Name]; msg != "" {
			if err := s.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (s *Session) askMulti(ctx context.Context, field model.Field) error {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err := s.pickMulti(ctx, field); err != nil {
			return err
		}
		if msg := s.ctrl.Errors()[field.Name]; msg != "" {
			if err := s.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (s *Session) pickMulti(ctx context.Context, field model.Field) error {
	if err := s.ctrl.OpenDropdown(field.Name); err != nil {
		return err
	}
	defer s.ctrl.CloseDropdown(field.Name)

	options, err := s.searchOptions(ctx, field)
	if err != nil {
		return err
	}
	value, _ := s.ctrl.Value(field.Name)
	selected, _ := value.([]string)

	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.DisplayLabel(),
		Options:  options,
		Defaults: indicesOf(options, selected),
		Help:     field.Placeholder,
	})
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(options) {
			want[options[idx]] = true
		}
	}
	have := make(map[string]bool, len(selected))
	for _, v := range selected {
		have[v] = true
	}
	for _, opt := range options {
		if opt == choice.OtherSentinel || want[opt] == have[opt] {
			continue
		}
		if err := s.ctrl.ToggleMultiChoice(field.Name, opt); err != nil {
			return err
		}
	}
	if err := s.ctrl.SetSearch(field.Name, ""); err != nil {
		return err
	}

	if !want[choice.OtherSentinel] {
		return nil
	}
	for {
		text, err := s.driver.Input(ctx, InputConfig{Message: "Add another (blank to finish)"})
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if err := s.ctrl.SetFreeTextBuffer(field.Name, text); err != nil {
			return err
		}
		added, err := s.ctrl.AddFreeTextChoice(field.Name, text)
		if err != nil {
			return err
		}
		if !added {
			if err := s.driver.Info(ctx, fmt.Sprintf("%q is already selected", strings.TrimSpace(text))); err != nil {
				return err
			}
		}
	}
}

// searchOptions asks for a search text until it matches at least one
// option. A search that matches nothing is cleared and asked again.
func (s *Session) searchOptions(ctx context.Context, field model.Field) ([]string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		query, err := s.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Search %s (blank for all)", strings.ToLower(field.DisplayLabel())),
		})
		if err != nil {
			return nil, err
		}
		if err := s.ctrl.SetSearch(field.Name, query); err != nil {
			return nil, err
		}
		options, err := s.ctrl.Options(field.Name)
		if err != nil {
			return nil, err
		}
		if len(options) > 0 {
			return options, nil
		}
		if err := s.ctrl.SetSearch(field.Name, ""); err != nil {
			return nil, err
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("No options match %q", strings.TrimSpace(query))); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}
