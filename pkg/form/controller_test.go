package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-applyform/pkg/choice"
	"github.com/goliatone/go-applyform/pkg/dropdown"
	"github.com/goliatone/go-applyform/pkg/form"
	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/notify"
	"github.com/goliatone/go-applyform/pkg/submit"
	"github.com/goliatone/go-applyform/pkg/validation"
)

const (
	oxford = "University of Oxford"
	ucl    = "University College London (UCL)"
)

type stubSubmitter struct {
	mu       sync.Mutex
	calls    int
	payloads []submit.Payload
	replies  []stubReply
	entered  chan struct{}
	gate     chan struct{}
	onCall   func()
}

type stubReply struct {
	resp submit.Response
	err  error
}

func (s *stubSubmitter) Submit(ctx context.Context, payload submit.Payload) (submit.Response, error) {
	s.mu.Lock()
	s.calls++
	s.payloads = append(s.payloads, payload)
	idx := s.calls - 1
	s.mu.Unlock()

	if s.onCall != nil {
		s.onCall()
	}
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}

	if len(s.replies) == 0 {
		return submit.Response{Success: true}, nil
	}
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	return s.replies[idx].resp, s.replies[idx].err
}

func (s *stubSubmitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newController(t *testing.T, sub submit.Submitter, opts ...form.Option) *form.Controller {
	t.Helper()
	c, err := form.New(model.ScholarshipDefinition(), sub, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func fillValid(t *testing.T, c *form.Controller) {
	t.Helper()
	steps := []error{
		c.SetField(model.FieldFirstName, "Jane"),
		c.SetField(model.FieldLastName, "Doe"),
		c.SetField(model.FieldEmail, "jane@doe.com"),
		c.SetField(model.FieldPhone, "+44 1234 567890"),
		c.SelectSingleChoice(model.FieldQualification, "Bachelor's Degree"),
		c.SetField(model.FieldGrade, "85%"),
		c.ToggleMultiChoice(model.FieldPreferredUniversities, oxford),
		c.SelectSingleChoice(model.FieldDesiredCourse, "Law"),
		c.SetField(model.FieldJustification, "I have excelled academically for years."),
		c.SetField(model.FieldBenefit, "It will let me study at a world class university."),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("fill step %d: %v", i, err)
		}
	}
}

func TestRequiredScalarFailsOnlyWhenBlank(t *testing.T) {
	c := newController(t, &stubSubmitter{})

	if err := c.SetField(model.FieldFirstName, "   "); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := c.Errors()[model.FieldFirstName]; got != "First Name is required" {
		t.Fatalf("expected required error, got %q", got)
	}

	if err := c.SetField(model.FieldFirstName, " Jane "); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := c.Errors()[model.FieldFirstName]; ok {
		t.Fatalf("expected error cleared")
	}
	if got := c.Payload()[model.FieldFirstName]; got != "Jane" {
		t.Fatalf("expected trimmed payload value, got %q", got)
	}
}

func TestToggleMultiChoice(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	name := model.FieldPreferredUniversities

	for _, opt := range []string{oxford, ucl, oxford, choice.OtherSentinel} {
		if err := c.ToggleMultiChoice(name, opt); err != nil {
			t.Fatalf("toggle %q: %v", opt, err)
		}
	}
	got, _ := c.Value(name)
	if diff := cmp.Diff([]string{ucl}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_ = c.ToggleMultiChoice(name, ucl)
	if got := c.Errors()[name]; got != "At least one university must be selected" {
		t.Fatalf("expected empty-set error, got %q", got)
	}
}

func TestAddFreeTextChoiceNeverDuplicates(t *testing.T) {
	bus := dropdown.NewBus()
	c := newController(t, &stubSubmitter{}, form.WithEventSource(bus))
	name := model.FieldPreferredUniversities

	_ = c.ToggleMultiChoice(name, oxford)
	_ = c.OpenDropdown(name)
	_ = c.SetFreeTextBuffer(name, "  Sorbonne ")

	added, err := c.AddFreeTextChoice(name, "  Sorbonne ")
	if err != nil || !added {
		t.Fatalf("expected add, got added=%v err=%v", added, err)
	}
	state, _ := c.Dropdown(name)
	if state.Open || state.Buffer != "" {
		t.Fatalf("expected closed picker with empty buffer, got %+v", state)
	}
	if bus.Listeners() != 0 {
		t.Fatalf("closing after add must release the subscription")
	}

	for _, text := range []string{"Sorbonne", "Sorbonne  ", "", "   ", oxford} {
		added, err := c.AddFreeTextChoice(name, text)
		if err != nil || added {
			t.Fatalf("AddFreeTextChoice(%q) added=%v err=%v", text, added, err)
		}
	}

	added, _ = c.AddFreeTextChoice(name, "sorbonne")
	if !added {
		t.Fatalf("membership is case-sensitive")
	}

	got, _ := c.Value(name)
	if diff := cmp.Diff([]string{oxford, "Sorbonne", "sorbonne"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveAndClearMultiChoice(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	name := model.FieldPreferredUniversities

	_ = c.ToggleMultiChoice(name, oxford)
	_ = c.ToggleMultiChoice(name, ucl)
	_ = c.RemoveMultiChoice(name, oxford)
	got, _ := c.Value(name)
	if diff := cmp.Diff([]string{ucl}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	_ = c.SetSearch(name, "college")
	_ = c.ClearMultiChoice(name)
	got, _ = c.Value(name)
	if diff := cmp.Diff([]string{}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	state, _ := c.Dropdown(name)
	if state.Query != "" {
		t.Fatalf("clear must reset search text, got %q", state.Query)
	}
}

func TestSingleChoiceOtherEscape(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	name := model.FieldDesiredCourse

	if err := c.SelectSingleChoice(name, choice.OtherSentinel); err != nil {
		t.Fatalf("select: %v", err)
	}
	sel, _ := c.Selection(name)
	if !sel.IsCustom() || sel.Selected() != choice.OtherSentinel {
		t.Fatalf("expected pending custom choice, got %+v", sel)
	}
	if got := c.Errors()[name]; got != "Select a course" {
		t.Fatalf("pending Other must not satisfy required, got %q", got)
	}

	_ = c.SetFreeTextSingleChoice(name, "   ")
	if got := c.Errors()[name]; got != "Select a course" {
		t.Fatalf("blank text keeps the field pending, got %q", got)
	}

	_ = c.SetFreeTextSingleChoice(name, " Marine Biology ")
	if _, ok := c.Errors()[name]; ok {
		t.Fatalf("expected committed custom text to validate")
	}
	if got := c.Payload()[name]; got != "Marine Biology" {
		t.Fatalf("unexpected payload value %q", got)
	}

	_ = c.SelectSingleChoice(name, "Law")
	sel, _ = c.Selection(name)
	if sel.IsCustom() || sel.String() != "Law" {
		t.Fatalf("expected predefined selection to replace custom text, got %+v", sel)
	}
}

func TestSelectSingleChoiceOutsideCatalogIsCustom(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	name := model.FieldDesiredCourse

	if err := c.OpenDropdown(name); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.SelectSingleChoice(name, "Underwater Basket Weaving"); err != nil {
		t.Fatalf("select: %v", err)
	}
	sel, _ := c.Selection(name)
	if sel.Kind() != choice.KindCustom || sel.String() != "Underwater Basket Weaving" {
		t.Fatalf("expected custom choice, got kind=%v value=%q", sel.Kind(), sel.String())
	}
	if state, _ := c.Dropdown(name); state.Open {
		t.Fatalf("committing a value must close the picker")
	}

	_ = c.SelectSingleChoice(name, " Law ")
	sel, _ = c.Selection(name)
	if sel.Kind() != choice.KindPredefined || sel.String() != "Law" {
		t.Fatalf("expected predefined Law, got kind=%v value=%q", sel.Kind(), sel.String())
	}

	_ = c.SelectSingleChoice(name, "")
	sel, _ = c.Selection(name)
	if !sel.IsZero() {
		t.Fatalf("blank selection must clear the field, got %+v", sel)
	}
}

func TestFieldLookupErrors(t *testing.T) {
	c := newController(t, &stubSubmitter{})

	if err := c.SetField("nickname", "x"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := c.SetField(model.FieldDesiredCourse, "Law"); !errors.Is(err, form.ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
	if err := c.ToggleMultiChoice(model.FieldFirstName, "x"); !errors.Is(err, form.ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
	if _, err := c.Options(model.FieldGrade); !errors.Is(err, form.ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
}

func TestOptionsFollowSearch(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	name := model.FieldPreferredUniversities

	all, _ := c.Options(name)
	if len(all) != 10 || all[len(all)-1] != choice.OtherSentinel {
		t.Fatalf("expected nine universities plus sentinel, got %v", all)
	}

	_ = c.SetSearch(name, "DUBLIN")
	got, _ := c.Options(name)
	if diff := cmp.Diff([]string{"Trinity College Dublin", "University College Dublin"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidScenarioSubmits(t *testing.T) {
	var toasts []notify.Toast
	sub := &stubSubmitter{}
	c := newController(t, sub, form.WithNotifier(notify.Func(func(t notify.Toast) { toasts = append(toasts, t) })))

	var during form.Status
	sub.onCall = func() { during = c.Status().Status }

	fillValid(t, c)
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if got := c.Status().Status; got != form.StatusIdle {
		t.Fatalf("expected idle before submit, got %s", got)
	}

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if during != form.StatusPending {
		t.Fatalf("expected pending during the call, got %s", during)
	}
	status := c.Status()
	if status.Status != form.StatusSucceeded || status.Attempts != 1 {
		t.Fatalf("unexpected status %+v", status)
	}

	want := submit.Payload{
		"firstName":             "Jane",
		"lastName":              "Doe",
		"email":                 "jane@doe.com",
		"phone":                 "+44 1234 567890",
		"qualification":         "Bachelor's Degree",
		"grade":                 "85%",
		"preferredUniversities": []string{oxford},
		"desiredCourse":         "Law",
		"justification":         "I have excelled academically for years.",
		"benefit":               "It will let me study at a world class university.",
	}
	if diff := cmp.Diff(want, sub.payloads[0]); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]notify.Toast{notify.Success(notify.MessageSubmitted)}, toasts); diff != "" {
		t.Fatalf("toast mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidEmailBlocksSubmission(t *testing.T) {
	sub := &stubSubmitter{}
	c := newController(t, sub)
	fillValid(t, c)
	_ = c.SetField(model.FieldEmail, "not-an-email")

	err := c.Submit(context.Background())
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if diff := cmp.Diff(validation.Errors{"email": "Enter a valid email address"}, errs); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if got := c.Status().Status; got != form.StatusIdle {
		t.Fatalf("validation failure must not change status, got %s", got)
	}
	if sub.Calls() != 0 {
		t.Fatalf("collaborator must not be contacted")
	}
}

func TestRejectionThenRetry(t *testing.T) {
	var toasts []notify.Toast
	sub := &stubSubmitter{replies: []stubReply{
		{resp: submit.Response{Success: false, StatusCode: 200}},
		{resp: submit.Response{Success: true, StatusCode: 200}},
	}}
	c := newController(t, sub, form.WithNotifier(notify.Func(func(t notify.Toast) { toasts = append(toasts, t) })))
	fillValid(t, c)

	err := c.Submit(context.Background())
	if !submit.IsRejected(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	status := c.Status()
	if status.Status != form.StatusFailed || status.Reason == "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if c.Frozen() {
		t.Fatalf("failed submission must not freeze the form")
	}
	if err := c.SetField(model.FieldGrade, "90%"); err != nil {
		t.Fatalf("fields must stay editable after failure: %v", err)
	}

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	status = c.Status()
	if status.Status != form.StatusSucceeded || status.Attempts != 2 || status.Reason != "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if sub.payloads[1][model.FieldGrade] != "90%" {
		t.Fatalf("retry must send current values, got %v", sub.payloads[1][model.FieldGrade])
	}

	want := []notify.Toast{notify.Error(notify.MessageRejected), notify.Success(notify.MessageSubmitted)}
	if diff := cmp.Diff(want, toasts); diff != "" {
		t.Fatalf("toast mismatch (-want +got):\n%s", diff)
	}
}

func TestTransportErrorIsWrapped(t *testing.T) {
	var toasts []notify.Toast
	boom := errors.New("connection refused")
	sub := &stubSubmitter{replies: []stubReply{{err: boom}}}
	c := newController(t, sub, form.WithNotifier(notify.Func(func(t notify.Toast) { toasts = append(toasts, t) })))
	fillValid(t, c)

	err := c.Submit(context.Background())
	var se *submit.SubmissionError
	if !errors.As(err, &se) || se.Kind != submit.KindTransport || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if c.Status().Status != form.StatusFailed {
		t.Fatalf("expected failed status")
	}
	if diff := cmp.Diff([]notify.Toast{notify.Error(notify.MessageTransportError)}, toasts); diff != "" {
		t.Fatalf("toast mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentSubmitCallsCollaboratorOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	sub := &stubSubmitter{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	c, err := form.New(model.ScholarshipDefinition(), sub)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()
	fillValid(t, c)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-sub.entered

	var wg sync.WaitGroup
	inFlight := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inFlight <- c.Submit(context.Background())
		}()
	}
	wg.Wait()
	close(inFlight)
	for err := range inFlight {
		if !errors.Is(err, form.ErrSubmissionInFlight) {
			t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
		}
	}

	close(sub.gate)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Calls() != 1 {
		t.Fatalf("expected exactly one collaborator call, got %d", sub.Calls())
	}
}

func TestMutationsWhilePendingDoNotChangeSnapshot(t *testing.T) {
	sub := &stubSubmitter{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	c := newController(t, sub)
	fillValid(t, c)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-sub.entered

	if err := c.SetField(model.FieldFirstName, "Janet"); err != nil {
		t.Fatalf("editing while pending: %v", err)
	}
	close(sub.gate)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := sub.payloads[0][model.FieldFirstName]; got != "Jane" {
		t.Fatalf("payload must be the snapshot taken at submit, got %v", got)
	}
}

func TestSucceededFormIsFrozen(t *testing.T) {
	c := newController(t, &stubSubmitter{})
	fillValid(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before := c.Payload()

	attempts := map[string]error{
		"set":        c.SetField(model.FieldFirstName, "Other"),
		"toggle":     c.ToggleMultiChoice(model.FieldPreferredUniversities, ucl),
		"remove":     c.RemoveMultiChoice(model.FieldPreferredUniversities, oxford),
		"clear":      c.ClearMultiChoice(model.FieldPreferredUniversities),
		"select":     c.SelectSingleChoice(model.FieldDesiredCourse, "Design"),
		"free text":  c.SetFreeTextSingleChoice(model.FieldDesiredCourse, "Art"),
		"load":       c.LoadValues(map[string]any{"grade": "1%"}),
		"open":       c.OpenDropdown(model.FieldDesiredCourse),
		"search":     c.SetSearch(model.FieldDesiredCourse, "x"),
		"buffer":     c.SetFreeTextBuffer(model.FieldPreferredUniversities, "x"),
		"resubmit":   c.Submit(context.Background()),
		"add custom": func() error { _, err := c.AddFreeTextChoice(model.FieldPreferredUniversities, "X"); return err }(),
	}
	for name, err := range attempts {
		want := form.ErrFrozen
		if name == "resubmit" {
			want = form.ErrAlreadySubmitted
		}
		if !errors.Is(err, want) {
			t.Fatalf("%s: expected %v, got %v", name, want, err)
		}
	}
	if diff := cmp.Diff(before, c.Payload()); diff != "" {
		t.Fatalf("frozen form changed (-want +got):\n%s", diff)
	}
	if !c.Frozen() {
		t.Fatalf("expected frozen")
	}
}

func TestOutsidePointerClosesPickers(t *testing.T) {
	bus := dropdown.NewBus()
	c := newController(t, &stubSubmitter{}, form.WithEventSource(bus))

	_ = c.OpenDropdown(model.FieldPreferredUniversities)
	_ = c.OpenDropdown(model.FieldDesiredCourse)
	if bus.Listeners() != 2 {
		t.Fatalf("expected two subscriptions, got %d", bus.Listeners())
	}

	c.PointerDown(model.FieldPreferredUniversities + ".search")
	uni, _ := c.Dropdown(model.FieldPreferredUniversities)
	course, _ := c.Dropdown(model.FieldDesiredCourse)
	if !uni.Open || course.Open {
		t.Fatalf("unexpected picker state uni=%+v course=%+v", uni, course)
	}

	_ = c.ToggleDropdown(model.FieldPreferredUniversities)
	if bus.Listeners() != 0 {
		t.Fatalf("expected all subscriptions released, got %d", bus.Listeners())
	}
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	bus := dropdown.NewBus()
	c, err := form.New(model.ScholarshipDefinition(), &stubSubmitter{}, form.WithEventSource(bus))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_ = c.OpenDropdown(model.FieldPreferredUniversities)
	_ = c.OpenDropdown(model.FieldQualification)

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if bus.Listeners() != 0 {
		t.Fatalf("expected subscriptions released on close, got %d", bus.Listeners())
	}
	if err := c.SetField(model.FieldFirstName, "x"); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := form.New(model.ScholarshipDefinition(), nil); err == nil {
		t.Fatalf("expected missing submitter error")
	}
	def := model.ScholarshipDefinition()
	def.Fields[4].Catalog = "planets"
	if _, err := form.New(def, &stubSubmitter{}); err == nil {
		t.Fatalf("expected unknown catalog error")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to form.Status
		ok       bool
	}{
		{form.StatusIdle, form.StatusPending, true},
		{form.StatusIdle, form.StatusSucceeded, false},
		{form.StatusPending, form.StatusSucceeded, true},
		{form.StatusPending, form.StatusFailed, true},
		{form.StatusFailed, form.StatusPending, true},
		{form.StatusFailed, form.StatusSucceeded, false},
		{form.StatusSucceeded, form.StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
	if !form.StatusSucceeded.IsTerminal() || form.StatusFailed.IsTerminal() {
		t.Fatalf("only succeeded is terminal")
	}
}
