package model

// FieldKind is the enum of input kinds a definition can declare.
type FieldKind string

const (
	FieldKindText         FieldKind = "text"
	FieldKindEmail        FieldKind = "email"
	FieldKindPhone        FieldKind = "phone"
	FieldKindTextArea     FieldKind = "textarea"
	FieldKindSingleChoice FieldKind = "singleChoice"
	FieldKindMultiChoice  FieldKind = "multiChoice"
)

// Scalar reports whether values of this kind are plain strings.
func (k FieldKind) Scalar() bool {
	switch k {
	case FieldKindText, FieldKindEmail, FieldKindPhone, FieldKindTextArea:
		return true
	default:
		return false
	}
}

// Choice reports whether the kind is backed by an option catalog.
func (k FieldKind) Choice() bool {
	return k == FieldKindSingleChoice || k == FieldKindMultiChoice
}

const (
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
	ValidationRulePhone     = "phone"
	ValidationRuleMinItems  = "minItems"
)

// ValidationRule represents a single constraint applied to a field. Length
// and item bounds encode their threshold in Params["value"], pattern rules
// keep the expression in Params["pattern"]. Message overrides the default
// error text reported when the rule fails.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field models an individual input of the application form.
type Field struct {
	Name            string            `json:"name" yaml:"name"`
	Kind            FieldKind         `json:"kind" yaml:"kind"`
	Label           string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder     string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Required        bool              `json:"required" yaml:"required"`
	RequiredMessage string            `json:"requiredMessage,omitempty" yaml:"requiredMessage,omitempty"`
	Catalog         string            `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Validations     []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FormDefinition is the top-level description of one application form.
type FormDefinition struct {
	ID          string            `json:"id" yaml:"id"`
	Endpoint    string            `json:"endpoint" yaml:"endpoint"`
	Method      string            `json:"method" yaml:"method"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field looks up a field by name.
func (d FormDefinition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (d FormDefinition) Names() []string {
	out := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Clone returns a deep copy so decorators can mutate it safely.
func (d FormDefinition) Clone() FormDefinition {
	out := d
	out.Metadata = cloneStringMap(d.Metadata)
	out.Fields = make([]Field, len(d.Fields))
	for i, field := range d.Fields {
		cloned := field
		cloned.Metadata = cloneStringMap(field.Metadata)
		if len(field.Validations) > 0 {
			cloned.Validations = make([]ValidationRule, len(field.Validations))
			for j, rule := range field.Validations {
				rule.Params = cloneStringMap(rule.Params)
				cloned.Validations[j] = rule
			}
		}
		out.Fields[i] = cloned
	}
	return out
}

// DisplayLabel returns the configured label or one derived from the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return DefaultLabeler(f.Name)
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
