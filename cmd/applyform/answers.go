package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-applyform/pkg/form"
	"github.com/goliatone/go-applyform/pkg/validation"
)

var errInvalidApplication = errors.New("application has validation errors")

// readAnswers parses an application file keyed by field name. JSON is tried
// first, then YAML.
func readAnswers(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("application file %s is empty", path)
	}

	var answers map[string]any
	if err := json.Unmarshal(data, &answers); err == nil {
		return answers, nil
	}
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse %s: invalid JSON or YAML: %w", path, err)
	}
	if answers == nil {
		return nil, fmt.Errorf("application file %s has no answers", path)
	}
	return answers, nil
}

// loadAnswers fills ctrl from path and reports every failing field to out.
func loadAnswers(ctrl *form.Controller, path string, out io.Writer) error {
	answers, err := readAnswers(path)
	if err != nil {
		return err
	}
	if err := ctrl.LoadValues(answers); err != nil {
		return err
	}
	if errs := ctrl.Validate(); len(errs) > 0 {
		printErrors(out, ctrl, errs)
		return fmt.Errorf("%w: %d field(s)", errInvalidApplication, len(errs))
	}
	return nil
}

// printErrors lists errors in definition order.
func printErrors(out io.Writer, ctrl *form.Controller, errs validation.Errors) {
	def := ctrl.Definition()
	seen := make(map[string]bool, len(errs))
	for _, field := range def.Fields {
		if msg, ok := errs[field.Name]; ok {
			fmt.Fprintf(out, "  %s: %s\n", field.DisplayLabel(), msg)
			seen[field.Name] = true
		}
	}
	var rest []string
	for name := range errs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		fmt.Fprintf(out, "  %s: %s\n", name, errs[name])
	}
}
