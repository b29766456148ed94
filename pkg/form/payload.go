package form

import (
	"strings"

	"github.com/goliatone/go-applyform/pkg/submit"
)

// Payload returns the flattened application as it would be submitted:
// trimmed strings for scalar and single choice fields and the ordered
// entries of multi choice fields.
func (c *Controller) Payload() submit.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloadLocked()
}

func (c *Controller) payloadLocked() submit.Payload {
	out := make(submit.Payload, len(c.def.Fields))
	for _, field := range c.def.Fields {
		switch v := c.valueLocked(field.Name).(type) {
		case string:
			out[field.Name] = strings.TrimSpace(v)
		default:
			out[field.Name] = v
		}
	}
	return out
}
