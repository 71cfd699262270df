package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/intuitionamiga/soundlog/vgm"
)

// readInput reads path into memory, or stdin when path is "-". Files
// beginning with the gzip magic (the .vgz convention) are inflated first;
// everything else is handed to Parse as-is.
func readInput(path string) ([]byte, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(raw) >= 2 && raw[0] == 0x1F && raw[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: not a valid gzip stream: %w", path, err)
		}
		defer gz.Close()
		inflated, err := io.ReadAll(gz)
		if err != nil {
			return nil, fmt.Errorf("%s: inflating gzip stream: %w", path, err)
		}
		return inflated, nil
	}
	return raw, nil
}

// loadDocument reads and parses a VGM (or gzip-wrapped VGZ) file.
func loadDocument(path string) (*vgm.VgmDocument, error) {
	raw, err := readInput(path)
	if err != nil {
		return nil, err
	}
	doc, err := vgm.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// writeOutput writes data to path, or stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
