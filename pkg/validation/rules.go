package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-applyform/pkg/model"
)

// Errors maps field names to the first failing message. An empty map means
// the form can be submitted.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation: no errors"
	}
	names := e.Fields()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e[name])
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names sorted alphabetically.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the mapping.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// FieldRules is the compiled rule list of one field.
type FieldRules struct {
	Name       string
	Required   Validator
	Validators []Validator
}

// Check runs the rules against value and returns the first failure.
func (r FieldRules) Check(value any) error {
	if r.Required != nil {
		if err := r.Required.Validate(value); err != nil {
			return withField(err, r.Name)
		}
	} else if IsEmpty(value) {
		return nil
	}
	for _, v := range r.Validators {
		if err := v.Validate(value); err != nil {
			return withField(err, r.Name)
		}
	}
	return nil
}

// Ruleset holds the compiled rules of a definition in field order.
type Ruleset struct {
	order []string
	rules map[string]FieldRules
}

// Compile builds executable rules from the definition.
func Compile(def model.FormDefinition) (*Ruleset, error) {
	rs := &Ruleset{rules: make(map[string]FieldRules, len(def.Fields))}
	for _, field := range def.Fields {
		fr, err := ForField(field)
		if err != nil {
			return nil, err
		}
		rs.order = append(rs.order, field.Name)
		rs.rules[field.Name] = fr
	}
	return rs, nil
}

// ForField compiles a single field's rules.
func ForField(field model.Field) (FieldRules, error) {
	fr := FieldRules{Name: field.Name}
	if field.Required {
		fr.Required = Required(field.RequiredMessage)
	}
	for _, rule := range field.Validations {
		v, err := fromRule(rule)
		if err != nil {
			return FieldRules{}, fmt.Errorf("validation: field %q: %w", field.Name, err)
		}
		fr.Validators = append(fr.Validators, v)
	}
	return fr, nil
}

// Field checks one value against the named field's rules. Unknown fields
// always pass.
func (rs *Ruleset) Field(name string, value any) error {
	if rs == nil {
		return nil
	}
	fr, ok := rs.rules[name]
	if !ok {
		return nil
	}
	return fr.Check(value)
}

// Validate checks every field, reading values through get.
func (rs *Ruleset) Validate(get func(name string) any) Errors {
	errs := Errors{}
	if rs == nil {
		return errs
	}
	for _, name := range rs.order {
		if err := rs.rules[name].Check(get(name)); err != nil {
			errs[name] = messageOf(err)
		}
	}
	return errs
}

func fromRule(rule model.ValidationRule) (Validator, error) {
	switch rule.Kind {
	case model.ValidationRuleMinLength:
		n, err := intParam(rule)
		if err != nil {
			return nil, err
		}
		return MinLength(n, rule.Message), nil
	case model.ValidationRuleMaxLength:
		n, err := intParam(rule)
		if err != nil {
			return nil, err
		}
		return MaxLength(n, rule.Message), nil
	case model.ValidationRuleMinItems:
		n, err := intParam(rule)
		if err != nil {
			return nil, err
		}
		return MinItems(n, rule.Message), nil
	case model.ValidationRuleEmail:
		return Email(rule.Message), nil
	case model.ValidationRulePattern, model.ValidationRulePhone:
		re, err := patternParam(rule)
		if err != nil {
			return nil, err
		}
		if rule.Kind == model.ValidationRulePhone {
			return Phone(re, rule.Message), nil
		}
		if re == nil {
			return nil, fmt.Errorf("rule %q requires a pattern", rule.Kind)
		}
		return Pattern(re, rule.Message), nil
	default:
		return nil, fmt.Errorf("unknown rule %q", rule.Kind)
	}
}

func intParam(rule model.ValidationRule) (int, error) {
	raw := strings.TrimSpace(rule.Params["value"])
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("rule %q: invalid value %q", rule.Kind, raw)
	}
	return n, nil
}

func patternParam(rule model.ValidationRule) (*regexp.Regexp, error) {
	raw := rule.Params["pattern"]
	if raw == "" {
		return nil, nil
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", rule.Kind, err)
	}
	return re, nil
}

func withField(err error, name string) error {
	if ve, ok := err.(ValidationError); ok {
		ve.Field = name
		return ve
	}
	return ValidationError{Field: name, Message: err.Error()}
}

func messageOf(err error) string {
	if ve, ok := err.(ValidationError); ok {
		return ve.Message
	}
	return err.Error()
}
