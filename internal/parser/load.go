package parser

import (
	"os"
	"path/filepath"

	"github.com/arcfire/phongtrace/internal/rtlog"
	"github.com/arcfire/phongtrace/internal/sceneerr"
)

// Load reads, parses, and builds the scene file at path into a Document.
// Texture and mesh paths in the file are resolved relative to path's
// directory, matching section 6's `assets/...` convention.
func Load(path string, logger rtlog.Logger) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sceneerr.NewAssetError(path, "cannot open scene file", err)
	}
	defer f.Close()

	paragraphs, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return Build(paragraphs, filepath.Dir(path), logger)
}
