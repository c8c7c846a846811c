// Package document holds raw provider match documents and resolves dotted
// paths through them. Lookups never fail: a path that cannot be followed
// yields the caller's default.
package document

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse when the input is not a JSON value.
var ErrInvalidJSON = errors.New("invalid JSON document")

// Document is one immutable raw match document as delivered by the provider.
type Document struct {
	root gjson.Result
	hash string
}

// Parse validates raw and wraps it. The hash is the hex sha256 of the bytes
// and serves as the idempotency key in the document store.
func Parse(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, ErrInvalidJSON
	}
	sum := sha256.Sum256(raw)
	return Document{
		root: gjson.ParseBytes(raw),
		hash: fmt.Sprintf("%x", sum[:]),
	}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(raw string) Document {
	d, err := Parse([]byte(raw))
	if err != nil {
		panic(fmt.Sprintf("document: %v", err))
	}
	return d
}

// Hash returns the content hash of the document.
func (d Document) Hash() string { return d.hash }

// Raw returns the original JSON text.
func (d Document) Raw() string { return d.root.Raw }

// Root returns the top-level value.
func (d Document) Root() gjson.Result { return d.root }

// Get resolves path against the document root.
func (d Document) Get(path string) gjson.Result { return Resolve(d.root, path) }

// Has reports whether path addresses a value, including an explicit null.
func (d Document) Has(path string) bool { return d.Get(path).Exists() }

// String returns the value at path as a string, or def when absent or null.
func (d Document) String(path, def string) string { return String(d.root, path, def) }

// Float returns the normalized number at path, or def when absent or null.
func (d Document) Float(path string, def float64) float64 { return Float(d.root, path, def) }

// Array returns the list at path, or nil when the value is absent or not a list.
func (d Document) Array(path string) []gjson.Result { return Array(d.root, path) }

// Resolve follows a dotted path from v. A segment made only of digits indexes
// a list; any other segment is an object key. Object keys are compared
// literally, so provider keys containing gjson syntax characters need no
// escaping. Any absent key, out-of-range index or type mismatch returns the
// zero Result, for which Exists() is false.
func Resolve(v gjson.Result, path string) gjson.Result {
	if path == "" {
		return v
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch {
		case cur.IsArray():
			idx, ok := listIndex(seg)
			if !ok {
				return gjson.Result{}
			}
			items := cur.Array()
			if idx >= len(items) {
				return gjson.Result{}
			}
			cur = items[idx]
		case cur.IsObject():
			next, ok := objectKey(cur, seg)
			if !ok {
				return gjson.Result{}
			}
			cur = next
		default:
			return gjson.Result{}
		}
	}
	return cur
}

// String resolves path from v and returns its string form, or def.
func String(v gjson.Result, path, def string) string {
	r := Resolve(v, path)
	if !r.Exists() || r.Type == gjson.Null {
		return def
	}
	if r.IsObject() || r.IsArray() {
		return def
	}
	return r.String()
}

// Float resolves path from v and normalizes it with Number, or returns def
// when the value is absent or null.
func Float(v gjson.Result, path string, def float64) float64 {
	r := Resolve(v, path)
	if !r.Exists() || r.Type == gjson.Null {
		return def
	}
	return Number(r)
}

// Array resolves path from v and returns its elements.
func Array(v gjson.Result, path string) []gjson.Result {
	r := Resolve(v, path)
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

func listIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// objectKey returns the first member named key, matching gjson's own
// first-wins behavior for duplicate keys.
func objectKey(obj gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	obj.ForEach(func(k, val gjson.Result) bool {
		if k.String() == key {
			found, ok = val, true
			return false
		}
		return true
	})
	return found, ok
}
