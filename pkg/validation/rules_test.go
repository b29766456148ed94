package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/validation"
)

func compileScholarship(t *testing.T) *validation.Ruleset {
	t.Helper()
	rs, err := validation.Compile(model.ScholarshipDefinition())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return rs
}

func TestValidate_EmptyFormReportsEveryRequiredField(t *testing.T) {
	rs := compileScholarship(t)
	errs := rs.Validate(func(string) any { return nil })

	want := validation.Errors{
		"firstName":             "First Name is required",
		"lastName":              "Last Name is required",
		"email":                 "Email is required",
		"phone":                 "Enter a valid phone number",
		"qualification":         "Please select your highest level of qualification",
		"grade":                 "Please enter your grade",
		"preferredUniversities": "At least one university must be selected",
		"desiredCourse":         "Select a course",
		"justification":         "Please explain why you deserve the scholarship",
		"benefit":               "Please explain how this scholarship will benefit you",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FirstFailingRuleWins(t *testing.T) {
	rs := compileScholarship(t)

	err := rs.Field(model.FieldPhone, "+44 1234 5678 9012")
	var ve validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Field != model.FieldPhone || ve.Message != "Phone number is too long" {
		t.Fatalf("unexpected error %+v", ve)
	}

	if err := rs.Field(model.FieldEmail, "not-an-email"); err == nil || !strings.Contains(err.Error(), "Enter a valid email address") {
		t.Fatalf("expected email format error, got %v", err)
	}
	if err := rs.Field("unknown", ""); err != nil {
		t.Fatalf("unknown fields should pass, got %v", err)
	}
}

func TestOptionalFieldSkipsRulesWhenEmpty(t *testing.T) {
	fr, err := validation.ForField(model.Field{
		Name: "nickname",
		Kind: model.FieldKindText,
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
		},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := fr.Check("  "); err != nil {
		t.Fatalf("empty optional field should pass, got %v", err)
	}
	if err := fr.Check("ab"); err == nil {
		t.Fatalf("expected min length failure")
	}
}

func TestCompileRejectsBadRules(t *testing.T) {
	cases := []model.ValidationRule{
		{Kind: "unknown"},
		{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "ten"}},
		{Kind: model.ValidationRulePattern},
		{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "("}},
	}
	for _, rule := range cases {
		_, err := validation.ForField(model.Field{Name: "x", Kind: model.FieldKindText, Validations: []model.ValidationRule{rule}})
		if err == nil {
			t.Fatalf("expected error for rule %+v", rule)
		}
	}
}

func TestErrorsString(t *testing.T) {
	errs := validation.Errors{"b": "second", "a": "first"}
	if got := errs.Error(); got != "validation: a: first; b: second" {
		t.Fatalf("unexpected error string %q", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, errs.Fields()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
