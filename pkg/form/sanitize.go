package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// StripMarkup removes every tag from free text, unescapes entities and
// trims the result. Pass it to WithSanitizer to clean answers as they are
// entered.
func StripMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func (c *Controller) clean(raw string) string {
	if c.sanitizer == nil {
		return raw
	}
	return c.sanitizer(raw)
}
