package domain

import (
	"strconv"
	"time"
)

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Int64 reads an integer column. Drivers hand back int64, []byte or string
// depending on the column type, so all of them are accepted.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case ID:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	}
	return ""
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return len(v) > 0 && v[0] != '0'
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Time reads a timestamp column; the second value is false for NULL.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case []byte:
		t, err := time.Parse("2006-01-02 15:04:05", string(v))
		return t, err == nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	}
	return time.Time{}, false
}

// TimePtr is Time returning nil for NULL.
func (r Record) TimePtr(key string) *time.Time {
	t, ok := r.Time(key)
	if !ok {
		return nil
	}
	return &t
}

// Int64Ptr is Int64 returning nil for NULL.
func (r Record) Int64Ptr(key string) *int64 {
	n, ok := r.Int64(key)
	if !ok {
		return nil
	}
	return &n
}

// RecordID reads the primary key.
func (r Record) RecordID(pk string) ID {
	n, _ := r.Int64(pk)
	return ID(n)
}
