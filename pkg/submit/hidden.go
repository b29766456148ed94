package submit

import (
	"fmt"
	"strings"
)

// HiddenField is a value the applicant never edits but the collaborator
// receives alongside the answers, such as the form id or the channel the
// application came from.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// FormID tags the payload with the form definition id.
func FormID(id string) HiddenField {
	return Hidden("formId", id)
}

// Source tags the payload with the front end that produced it.
func Source(source string) HiddenField {
	return Hidden("source", source)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// withHidden merges hidden fields into a copy of p. Answers are never
// overwritten by hidden values.
func withHidden(p Payload, hidden map[string]string) Payload {
	out := p.Clone()
	for name, value := range hidden {
		if _, exists := out[name]; exists {
			continue
		}
		out[name] = value
	}
	return out
}
