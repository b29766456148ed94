// Package choice holds the value types backing single and multi choice
// fields: a tagged Choice that is either a catalog option or free text, and
// an insertion-ordered Set of unique entries.
package choice

import "strings"

// OtherSentinel is the catalog option that unlocks free-text entry.
const OtherSentinel = "Other"

// Kind tags how a Choice was produced.
type Kind int

const (
	KindNone Kind = iota
	KindPredefined
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindPredefined:
		return "predefined"
	case KindCustom:
		return "custom"
	default:
		return "none"
	}
}

// Choice is the value of a single choice field.
type Choice struct {
	kind  Kind
	value string
}

// Predefined returns a choice for a catalog option. Selecting the sentinel
// yields an empty custom choice so free text can follow.
func Predefined(option string) Choice {
	if option == OtherSentinel {
		return Choice{kind: KindCustom}
	}
	return Choice{kind: KindPredefined, value: option}
}

// Custom returns a free-text choice.
func Custom(text string) Choice {
	return Choice{kind: KindCustom, value: text}
}

// Kind reports the variant.
func (c Choice) Kind() Kind { return c.kind }

// IsZero reports whether nothing has been selected.
func (c Choice) IsZero() bool { return c.kind == KindNone }

// IsCustom reports whether the choice holds free text.
func (c Choice) IsCustom() bool { return c.kind == KindCustom }

// Selected returns the option shown as selected in a picker. Custom choices
// display as the sentinel.
func (c Choice) Selected() string {
	switch c.kind {
	case KindPredefined:
		return c.value
	case KindCustom:
		return OtherSentinel
	default:
		return ""
	}
}

// String returns the submitted value: the option, or the trimmed free text.
func (c Choice) String() string {
	if c.kind == KindCustom {
		return strings.TrimSpace(c.value)
	}
	return c.value
}

// Text returns the raw free-text buffer of a custom choice.
func (c Choice) Text() string {
	if c.kind == KindCustom {
		return c.value
	}
	return ""
}
