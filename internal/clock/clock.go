package clock

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the storage and display format of a calendar date
const DateLayout = "2006-01-02"

// Date is a calendar date in the user's local time. It carries no time of
// day and no location, so arithmetic on it can never shift across midnight.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays moves the date by n calendar days using date components only
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// In returns the instant at hour:00 of the date in loc
func (d Date) In(loc *time.Location, hour int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Valid reports whether the date has a four-digit year, the range the
// YYYY-MM-DD text form can hold and sort
func (d Date) Valid() bool {
	return d.Year >= 1 && d.Year <= 9999
}

// IsZero reports whether the date was never set
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

// Before reports whether d is strictly earlier than o
func (d Date) Before(o Date) bool { return d.compare(o) < 0 }

// After reports whether d is strictly later than o
func (d Date) After(o Date) bool { return d.compare(o) > 0 }

// Equal reports whether d and o are the same calendar date
func (d Date) Equal(o Date) bool { return d == o }

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("date %s outside years 0001-9999", d)
	}
	return d.String(), nil
}

// Scan implements sql.Scanner. Drivers may hand back TEXT or a DATE value.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return d.parseInto(v)
	case []byte:
		return d.parseInto(string(v))
	case time.Time:
		*d = DateOf(v)
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into clock.Date", src)
	}
}

func (d *Date) parseInto(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	return d.parseInto(string(b))
}

// Clock supplies the local notion of "today"
type Clock interface {
	Now() time.Time
	Today() Date
	Location() *time.Location
}

// System reads the wall clock in a fixed location
type System struct {
	loc *time.Location
}

// NewSystem creates a system clock. A nil location means time.Local.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

func (s *System) Now() time.Time           { return time.Now().In(s.loc) }
func (s *System) Today() Date              { return DateOf(s.Now()) }
func (s *System) Location() *time.Location { return s.loc }

// Fixed is a settable clock for tests and replays
type Fixed struct {
	now time.Time
}

// NewFixed creates a clock stopped at now
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time           { return f.now }
func (f *Fixed) Today() Date              { return DateOf(f.now) }
func (f *Fixed) Location() *time.Location { return f.now.Location() }

// Advance moves the clock forward by the given number of days
func (f *Fixed) Advance(days int) {
	f.now = f.now.AddDate(0, 0, days)
}
