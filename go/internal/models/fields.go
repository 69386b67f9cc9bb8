package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Opt is a leniently decoded optional field. A missing, null or wrongly
// typed JSON value leaves it invalid instead of failing the whole record.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some returns a valid Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	var zero T
	o.Value, o.Valid = zero, false
	if isNull(data) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	o.Value, o.Valid = v, true
	return nil
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Or returns the value, or fallback when the field is absent.
func (o Opt[T]) Or(fallback T) T {
	if !o.Valid {
		return fallback
	}
	return o.Value
}

// ID is a resource identifier. The API uses integers; strings are accepted too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ""
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		*id = ID(t.String())
	case string:
		*id = ID(t)
	}
	return nil
}

// MarshalJSON writes an empty ID as null and a numeric ID as a number.
func (id ID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if s == "" {
		return []byte("null"), nil
	}
	if isCanonicalInt(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func (id ID) String() string {
	return string(id)
}

// Timestamp accepts the datetime shapes Django REST framework emits.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time, t.Valid = time.Time{}, false
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, ok := ParseTimestamp(s); ok {
		t.Time, t.Valid = parsed, true
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// ParseTimestamp parses s with the accepted layouts. Zone-less values are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// isCanonicalInt reports whether s is exactly how its integer value prints,
// so "007" and "+7" stay strings.
func isCanonicalInt(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}
