// Package parser loads raw match documents from JSON files. A file holds one
// match object, a top-level array of match objects, or one object per line.
// Files may be gzip, bzip2 or zstd compressed.
package parser

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"

	"github.com/pable/go-tactics/internal/document"
)

// ErrUnsupported is returned for files whose name carries no known extension.
var ErrUnsupported = errors.New("unsupported file type")

var extensions = []string{".json", ".jsonl", ".ndjson"}

// Supported reports whether path looks like a match file, compressed or not.
func Supported(path string) bool {
	base := strings.ToLower(path)
	for _, c := range []string{".gz", ".bz2", ".zst"} {
		base = strings.TrimSuffix(base, c)
	}
	for _, ext := range extensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// File is the result of loading one file.
type File struct {
	Path      string
	Hash      string // sha256 of the decompressed file contents
	Documents []document.Document
	// Skipped counts array elements or lines that were not JSON objects.
	Skipped int
}

// ParseFile reads and decodes path.
func ParseFile(path string) (*File, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	src, err := NewReader(f, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	docs, skipped, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	// Hash file contents for the idempotency key.
	sum := sha256.Sum256(data)
	return &File{Path: path, Hash: fmt.Sprintf("%x", sum[:]), Documents: docs, Skipped: skipped}, nil
}

// NewReader wraps r in a decompressor chosen by the suffix of name.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".bz2"):
		return io.NopCloser(bzip2.NewReader(r)), nil
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, nil
	default:
		return io.NopCloser(r), nil
	}
}

// Decode splits data into match documents. A top-level object is one
// document; a top-level array yields one document per object element; any
// other input is read as JSON lines. Non-object elements and lines are
// counted as skipped.
func Decode(data []byte) ([]document.Document, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, nil
	}
	if gjson.ValidBytes(data) {
		root := gjson.ParseBytes(data)
		switch {
		case root.IsObject():
			d, err := document.Parse(data)
			if err != nil {
				return nil, 0, err
			}
			return []document.Document{d}, 0, nil
		case root.IsArray():
			var (
				docs    []document.Document
				skipped int
			)
			root.ForEach(func(_, el gjson.Result) bool {
				if !el.IsObject() {
					skipped++
					return true
				}
				d, err := document.Parse([]byte(el.Raw))
				if err != nil {
					skipped++
					return true
				}
				docs = append(docs, d)
				return true
			})
			return docs, skipped, nil
		}
	}
	return decodeLines(data)
}

func decodeLines(data []byte) ([]document.Document, int, error) {
	var (
		docs    []document.Document
		skipped int
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) || !gjson.ParseBytes(line).IsObject() {
			skipped++
			continue
		}
		d, err := document.Parse(line)
		if err != nil {
			skipped++
			continue
		}
		docs = append(docs, d)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scan lines: %w", err)
	}
	if len(docs) == 0 {
		return nil, skipped, document.ErrInvalidJSON
	}
	return docs, skipped, nil
}
