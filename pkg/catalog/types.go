package catalog

import (
	"sort"
	"strings"

	"github.com/goliatone/go-applyform/pkg/choice"
)

// Catalog is one named option list.
type Catalog struct {
	Name       string
	Label      string
	AllowOther bool
	Source     string
	options    []string
	index      map[string]struct{}
}

// New builds a catalog from options, trimming entries and dropping
// duplicates. The sentinel is never stored as a regular option.
func New(name string, allowOther bool, options ...string) Catalog {
	c := Catalog{Name: name, AllowOther: allowOther, index: make(map[string]struct{}, len(options))}
	for _, opt := range options {
		value := strings.TrimSpace(opt)
		if value == "" || value == choice.OtherSentinel {
			continue
		}
		if _, exists := c.index[value]; exists {
			continue
		}
		c.index[value] = struct{}{}
		c.options = append(c.options, value)
	}
	return c
}

// Options returns the selectable options. The sentinel is appended whenever
// free text is allowed.
func (c Catalog) Options() []string {
	out := make([]string, 0, len(c.options)+1)
	out = append(out, c.options...)
	if c.AllowOther {
		out = append(out, choice.OtherSentinel)
	}
	return out
}

// Recognized reports whether value is one of the predefined options.
func (c Catalog) Recognized(value string) bool {
	_, ok := c.index[value]
	return ok
}

// Search filters Options by a case-insensitive substring match. An empty
// query returns every option.
func (c Catalog) Search(query string) []string {
	return Filter(c.Options(), query)
}

// Filter applies the case-insensitive substring match to an arbitrary list.
func Filter(options []string, query string) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if needle == "" || strings.Contains(strings.ToLower(opt), needle) {
			out = append(out, opt)
		}
	}
	return out
}

// Store indexes catalogs by name.
type Store struct {
	catalogs map[string]Catalog
}

// NewStore assembles a store from already built catalogs. Later entries with
// the same name replace earlier ones.
func NewStore(catalogs ...Catalog) *Store {
	s := &Store{catalogs: make(map[string]Catalog, len(catalogs))}
	for _, c := range catalogs {
		s.catalogs[c.Name] = c
	}
	return s
}

// Catalog returns the named catalog.
func (s *Store) Catalog(name string) (Catalog, bool) {
	if s == nil {
		return Catalog{}, false
	}
	c, ok := s.catalogs[name]
	return c, ok
}

// Names returns the catalog names sorted alphabetically.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any catalogs.
func (s *Store) Empty() bool {
	return s == nil || len(s.catalogs) == 0
}
