// Package model defines the typed form definition consumed by the controller,
// the validators and the interactive front ends. A FormDefinition is an
// ordered list of fields; every field declares its kind (text, email, phone,
// textarea, single choice or multi choice), whether it is required, the
// catalog backing choice fields and a list of validation rules. Rules expose
// canonical identifiers (minLength/maxLength, pattern, email, phone,
// minItems) with string parameters so definitions can be loaded from or
// dumped to JSON/YAML without losing information.
package model
