package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// WriteJSON encodes doc as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteTOML encodes doc as TOML.
func WriteTOML(doc *Document, w io.Writer) error {
	return toml.NewEncoder(w).Encode(doc)
}

// Canonical returns the compact JSON form of doc used for content hashing.
func Canonical(doc *Document) ([]byte, error) {
	return json.Marshal(doc)
}

// Export writes doc to path, choosing the encoder by extension.
func Export(doc *Document, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatTOML {
		err = WriteTOML(doc, f)
	} else {
		err = WriteJSON(doc, f)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return f.Close()
}
