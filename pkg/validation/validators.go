package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks a single field value.
type Validator interface {
	// Validate returns nil when value is acceptable or a ValidationError.
	Validate(value any) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error {
	return f(value)
}

// ValidationError is a single field failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// EmailPattern is the local@domain shape accepted by Email.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Required fails on strings that are blank after trimming and on empty
// slices.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value any) error {
		if IsEmpty(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinLength requires at least n characters once trimmed.
func MinLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d characters", n)
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength allows at most n characters once trimmed.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %d characters", n)
	}
	return ValidatorFunc(func(value any) error {
		if utf8.RuneCountInString(toString(value)) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Pattern requires the trimmed value to match re.
func Pattern(re *regexp.Regexp, msg string) Validator {
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value any) error {
		s := toString(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Email validates the local@domain shape.
func Email(msg string) Validator {
	if msg == "" {
		msg = "Invalid email address"
	}
	return Pattern(EmailPattern, msg)
}

// Phone validates against re, which defaults to an optional plus followed
// by 7 to 15 digits, spaces, dashes or parentheses.
func Phone(re *regexp.Regexp, msg string) Validator {
	if re == nil {
		re = defaultPhonePattern
	}
	if msg == "" {
		msg = "Invalid phone number"
	}
	return Pattern(re, msg)
}

var defaultPhonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,15}$`)

// MinItems requires a slice value to carry at least n entries.
func MinItems(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Select at least %d", n)
	}
	return ValidatorFunc(func(value any) error {
		items, ok := value.([]string)
		if !ok {
			return nil
		}
		if len(items) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// IsEmpty reports whether value carries no user input.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
