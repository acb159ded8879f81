package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BusinessDateLayout is the dd-mm-yyyy form used for sheet titles and the date column.
const BusinessDateLayout = "02-01-2006"

var businessDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// BusinessDate is a calendar day of trading. The zero value is "no date".
type BusinessDate struct {
	t time.Time
}

// NewBusinessDate builds a date from its parts.
func NewBusinessDate(year int, month time.Month, day int) BusinessDate {
	return BusinessDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseBusinessDate parses the dd-mm-yyyy form.
func ParseBusinessDate(s string) (BusinessDate, error) {
	s = strings.TrimSpace(s)
	if !businessDatePattern.MatchString(s) {
		return BusinessDate{}, fmt.Errorf("%w: date %q must be dd-mm-yyyy", ErrInvalidInput, s)
	}
	t, err := time.Parse(BusinessDateLayout, s)
	if err != nil {
		return BusinessDate{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return BusinessDate{t: t}, nil
}

// IsBusinessDate reports whether s looks like a dd-mm-yyyy title.
func IsBusinessDate(s string) bool {
	_, err := ParseBusinessDate(s)
	return err == nil
}

// Today returns the business day containing now in loc.
func Today(now time.Time, loc *time.Location) BusinessDate {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return NewBusinessDate(local.Year(), local.Month(), local.Day())
}

func (d BusinessDate) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(BusinessDateLayout)
}

func (d BusinessDate) IsZero() bool {
	return d.t.IsZero()
}

// Previous returns the day before d.
func (d BusinessDate) Previous() BusinessDate {
	return BusinessDate{t: d.t.AddDate(0, 0, -1)}
}

// Next returns the day after d.
func (d BusinessDate) Next() BusinessDate {
	return BusinessDate{t: d.t.AddDate(0, 0, 1)}
}

func (d BusinessDate) Before(o BusinessDate) bool {
	return d.t.Before(o.t)
}

func (d BusinessDate) After(o BusinessDate) bool {
	return d.t.After(o.t)
}

func (d BusinessDate) Equal(o BusinessDate) bool {
	return d.t.Equal(o.t)
}

// Time returns midnight UTC of the day.
func (d BusinessDate) Time() time.Time {
	return d.t
}

// DaysBetween returns every date from d to end inclusive, oldest first.
func (d BusinessDate) DaysBetween(end BusinessDate) []BusinessDate {
	if end.Before(d) {
		return nil
	}
	var days []BusinessDate
	for cur := d; !cur.After(end); cur = cur.Next() {
		days = append(days, cur)
	}
	return days
}

func (d BusinessDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *BusinessDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = BusinessDate{}
		return nil
	}
	parsed, err := ParseBusinessDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
