package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Date is a calendar day anchored at UTC midnight.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts only ISO calendar dates (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// DaysUntil is the number of calendar days from d to other, negative if other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(math.Round(other.Sub(d.Time).Hours() / 24))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Stay is the half-open range [Start, End) of nights in a room.
type Stay struct {
	Start Date
	End   Date
}

func ParseStay(start, end string) (Stay, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Stay{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Stay{}, err
	}
	stay := Stay{Start: s, End: e}
	return stay, stay.Validate()
}

func (s Stay) Validate() error {
	if !s.End.After(s.Start.Time) {
		return fmt.Errorf("end date %s must be after start date %s", s.End, s.Start)
	}
	return nil
}

// Nights counts whole nights, rounding a partial day up.
func (s Stay) Nights() int {
	return int(math.Ceil(s.End.Sub(s.Start.Time).Hours() / 24))
}

// Overlaps applies the half-open rule: checkout on the day of the next checkin is not an overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.End.After(other.Start.Time) && s.Start.Before(other.End.Time)
}
