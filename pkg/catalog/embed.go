package catalog

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*
var embeddedCatalogs embed.FS

// EmbeddedFS returns the bundled catalog files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalogs, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}
