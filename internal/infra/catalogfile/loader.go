// Package catalogfile loads crop catalogs from YAML files.
package catalogfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/aquasutra/internal/domain/catalog"
)

type document struct {
	Crops []catalog.CropDefinition `yaml:"crops"`
}

// Load reads the catalog at path. An empty path yields the built-in catalog.
func Load(path string) (catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a YAML catalog document with a top-level crops list.
func Decode(r io.Reader) (catalog.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return catalog.Catalog{}, fmt.Errorf("catalog file is empty")
		}
		return catalog.Catalog{}, fmt.Errorf("decode catalog file: %w", err)
	}
	if len(doc.Crops) == 0 {
		return catalog.Catalog{}, fmt.Errorf("catalog file lists no crops")
	}
	return catalog.New(doc.Crops)
}
