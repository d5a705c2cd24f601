// Package rowmap converts domain models to and from rowstore records. Values
// are read leniently because sqlite and postgres hand back different Go types
// for the same column.
package rowmap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

func stringValue(rec rowstore.Record, column string) string {
	switch v := rec[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// boolValue accepts native booleans and the 0/1 integers sqlite returns.
func boolValue(rec rowstore.Record, column string) bool {
	switch v := rec[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func timeValue(rec rowstore.Record, column string) time.Time {
	switch v := rec[column].(type) {
	case time.Time:
		return v.UTC()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

func stringsValue(rec rowstore.Record, column string) []string {
	switch v := rec[column].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	raw := strings.TrimSpace(stringValue(rec, column))
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
