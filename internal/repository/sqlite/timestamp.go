package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// timestamp scans a SQLite timestamp. Columns declared TIMESTAMP arrive as
// time.Time; aggregates such as MAX(timestamp) arrive as text.
type timestamp struct {
	Time  time.Time
	Valid bool
}

func (ts *timestamp) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*ts = timestamp{}
		return nil
	case time.Time:
		ts.Time, ts.Valid = x.UTC(), true
		return nil
	case string:
		return ts.parse(x)
	case []byte:
		return ts.parse(string(x))
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", v)
	}
}

func (ts *timestamp) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			ts.Time, ts.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized format %q", s)
}

func (ts timestamp) ptr() *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
