package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel"
	"github.com/matzehuels/funnel/pkg/funnel/layout"
)

// Document is a chart configuration together with its data.
type Document struct {
	Config   funnel.Config    `json:"config" toml:"config"`
	Segments []layout.Segment `json:"segments" toml:"segments"`
}

// NewDocument returns an empty document with the default configuration.
func NewDocument() *Document {
	return &Document{Config: funnel.DefaultConfig()}
}

// ReadJSON decodes a JSON document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	doc := NewDocument()
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// ReadTOML decodes a TOML document from r. ReadTOML does not close r.
func ReadTOML(r io.Reader) (*Document, error) {
	doc := NewDocument()
	md, err := toml.NewDecoder(r).Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode: unknown keys %v", undecoded)
	}
	return doc, nil
}

// Import reads the document at path, choosing the decoder by extension
// (.json or .toml).
func Import(path string) (*Document, error) {
	read, err := readerFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Document file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatOf returns the document format implied by path's extension.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported document extension %q (must be .json or .toml)", ext)
	}
}

func readerFor(path string) (func(io.Reader) (*Document, error), error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatTOML {
		return ReadTOML, nil
	}
	return ReadJSON, nil
}
