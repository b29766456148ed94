package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-applyform/pkg/choice"
	"github.com/goliatone/go-applyform/pkg/model"
)

// LoadValues fills fields from a decoded application document. Scalar
// fields accept any value and use its string form. Single choice values
// outside the catalog become custom choices. Multi choice fields accept a
// list or a single string. Unknown names are reported together after every
// known field has been applied.
func (c *Controller) LoadValues(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.frozen {
		return ErrFrozen
	}

	var errs []error
	for _, field := range c.def.Fields {
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := c.loadFieldLocked(field, raw); err != nil {
			errs = append(errs, err)
			continue
		}
		c.revalidateLocked(field.Name)
	}
	for name := range values {
		if _, ok := c.def.Field(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownField, name))
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) loadFieldLocked(field model.Field, raw any) error {
	switch field.Kind {
	case model.FieldKindMultiChoice:
		items, err := stringList(raw)
		if err != nil {
			return fmt.Errorf("form: field %q: %w", field.Name, err)
		}
		set := c.multis[field.Name]
		set.Clear()
		for _, item := range items {
			trimmed := strings.TrimSpace(c.clean(item))
			if trimmed == "" || trimmed == choice.OtherSentinel {
				continue
			}
			set.Add(trimmed)
		}
	case model.FieldKindSingleChoice:
		c.singles[field.Name] = c.resolveSingleLocked(field, scalarString(raw))
	default:
		c.scalars[field.Name] = c.clean(scalarString(raw))
	}
	return nil
}

func scalarString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case nil:
			default:
				return nil, fmt.Errorf("entry %d is %T, want string", i, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value is %T, want a list of strings", raw)
	}
}
