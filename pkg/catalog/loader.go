package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML catalog files.
// When fsys is nil or no catalog files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{catalogs: make(map[string]Catalog)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawName, raw := range doc.Catalogs {
			name := strings.TrimSpace(rawName)
			if name == "" {
				return fmt.Errorf("catalog: file %s defines an empty catalog name", path)
			}
			if _, exists := store.catalogs[name]; exists {
				return fmt.Errorf("catalog: duplicate catalog %q (file %s)", name, path)
			}
			c, err := normaliseCatalog(name, raw, path)
			if err != nil {
				return err
			}
			store.catalogs[name] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// LoadDefaults parses the bundled catalogs.
func LoadDefaults() (*Store, error) {
	return LoadFS(EmbeddedFS())
}

type documentFile struct {
	Catalogs map[string]catalogFile `json:"catalogs" yaml:"catalogs"`
}

type catalogFile struct {
	Label      string   `json:"label" yaml:"label"`
	AllowOther bool     `json:"allowOther" yaml:"allowOther"`
	Options    []string `json:"options" yaml:"options"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML", source)
}

func normaliseCatalog(name string, raw catalogFile, source string) (Catalog, error) {
	for idx, opt := range raw.Options {
		if strings.TrimSpace(opt) == "" {
			return Catalog{}, fmt.Errorf("catalog: file %s catalog %q contains an empty option at index %d", source, name, idx)
		}
	}
	c := New(name, raw.AllowOther, raw.Options...)
	if len(c.options) == 0 && !c.AllowOther {
		return Catalog{}, fmt.Errorf("catalog: file %s catalog %q has no options", source, name)
	}
	c.Label = strings.TrimSpace(raw.Label)
	c.Source = source
	return c, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
