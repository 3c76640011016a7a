package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotel-frontdesk-backend/internal/model"
)

// UserLayout is the date format typed by front-desk operators.
const UserLayout = "02.01.2006"

var (
	userDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	isoDateRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// UserDate parses a DD.MM.YYYY date. Single-digit day and month are accepted.
func UserDate(raw string) (model.Day, error) {
	s := strings.TrimSpace(raw)
	m := userDateRe.FindStringSubmatch(s)
	if m == nil {
		return model.Day{}, fmt.Errorf("invalid date %q: expected DD.MM.YYYY", raw)
	}
	return build(raw, m[3], m[2], m[1])
}

// Date parses user input in DD.MM.YYYY, falling back to ISO YYYY-MM-DD.
func Date(raw string) (model.Day, error) {
	s := strings.TrimSpace(raw)
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return build(raw, m[1], m[2], m[3])
	}
	return UserDate(s)
}

// OptionalDate is like Date but maps an empty string to the zero Day.
func OptionalDate(raw string) (model.Day, error) {
	if strings.TrimSpace(raw) == "" {
		return model.Day{}, nil
	}
	return Date(raw)
}

// FormatUser renders d as DD.MM.YYYY.
func FormatUser(d model.Day) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(UserLayout)
}

func build(raw, ys, ms, ds string) (model.Day, error) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)

	// time.Date normalises 31.02 into March; reject anything that does not round-trip.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return model.Day{}, fmt.Errorf("invalid date %q: no such calendar day", raw)
	}
	return model.DayOf(t), nil
}
