package model

import (
	"fmt"
	"strings"
)

// Decorator adjusts a form definition after the canonical structure has been
// built, for example to relax requiredness or relabel a field.
type Decorator interface {
	Decorate(*FormDefinition) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormDefinition) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(def *FormDefinition) error {
	return fn(def)
}

// Apply runs the decorators in order against a clone of def.
func Apply(def FormDefinition, decorators ...Decorator) (FormDefinition, error) {
	out := def.Clone()
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return FormDefinition{}, err
		}
	}
	return out, nil
}

// SetRequired toggles the required flag on the named fields.
func SetRequired(required bool, names ...string) Decorator {
	return DecoratorFunc(func(def *FormDefinition) error {
		for _, name := range names {
			idx := indexOfField(def.Fields, name)
			if idx < 0 {
				return fmt.Errorf("model: unknown field %q", name)
			}
			def.Fields[idx].Required = required
		}
		return nil
	})
}

// SetLabels replaces labels keyed by field name.
func SetLabels(labels map[string]string) Decorator {
	return DecoratorFunc(func(def *FormDefinition) error {
		for name, label := range labels {
			idx := indexOfField(def.Fields, name)
			if idx < 0 {
				return fmt.Errorf("model: unknown field %q", name)
			}
			def.Fields[idx].Label = strings.TrimSpace(label)
		}
		return nil
	})
}

func indexOfField(fields []Field, name string) int {
	for i, field := range fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}
