package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ISOLayout is the persisted and query-comparison format of a Day.
const ISOLayout = "2006-01-02"

// Day is a calendar date without a time-of-day component.
// It is persisted as an ISO "YYYY-MM-DD" string, so lexical order in SQL
// equals chronological order.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its calendar parts.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseISO parses a "YYYY-MM-DD" string.
func ParseISO(s string) (Day, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid ISO date %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) IsZero() bool           { return d.t.IsZero() }
func (d Day) Time() time.Time        { return d.t }
func (d Day) Before(o Day) bool      { return d.t.Before(o.t) }
func (d Day) After(o Day) bool       { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool       { return d.t.Equal(o.t) }
func (d Day) AddDays(n int) Day      { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Format(l string) string { return d.t.Format(l) }

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d Day) DaysUntil(o Day) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// GormDataType makes gorm map Day to the dialect's string column type.
func (Day) GormDataType() string { return "string" }

// Value implements driver.Valuer.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = DayOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into model.Day", src)
	}
}

func (d *Day) scanString(s string) error {
	if s == "" {
		*d = Day{}
		return nil
	}
	// Some drivers hand back DATE columns with a time suffix.
	if len(s) > len(ISOLayout) {
		s = s[:len(ISOLayout)]
	}
	parsed, err := ParseISO(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseISO(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
