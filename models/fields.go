package models

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Fields is an open record of provider-native JSON fields. Upstream schemas are
// not owned by this service, so unknown keys are carried through untouched.
type Fields map[string]json.RawMessage

// Clone returns a shallow copy. Values are immutable byte slices once decoded.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Has reports whether key is present with a non-null value.
func (f Fields) Has(key string) bool {
	raw, ok := f[key]
	return ok && len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns the string value at key, or "" when absent, null or not a string.
func (f Fields) String(key string) string {
	if !f.Has(key) {
		return ""
	}
	var s string
	if err := json.Unmarshal(f[key], &s); err != nil {
		return ""
	}
	return s
}

// Int64 returns the integer value at key. Numeric strings are accepted because
// some provider payloads quote ids.
func (f Fields) Int64(key string) int64 {
	if !f.Has(key) {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(f[key], &n); err == nil {
		if v, err := n.Int64(); err == nil {
			return v
		}
		if v, err := n.Float64(); err == nil {
			return int64(v)
		}
	}
	if s := f.String(key); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	}
	return 0
}

// Decode unmarshals the value at key into v. A missing key leaves v untouched.
func (f Fields) Decode(key string, v any) error {
	if !f.Has(key) {
		return nil
	}
	return json.Unmarshal(f[key], v)
}
