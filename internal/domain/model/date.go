package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateInput is a client-supplied instant. It accepts RFC 3339 or a bare calendar date
// (YYYY-MM-DD), which means midnight UTC of that day. An empty string decodes to the zero value.
type DateInput time.Time

func DateInputOf(t time.Time) DateInput {
	return DateInput(t)
}

// ParseDateInput parses RFC 3339 or YYYY-MM-DD into UTC. The bool reports the short form.
func ParseDateInput(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", raw)
	}
	return t, true, nil
}

func (d DateInput) Time() time.Time {
	return time.Time(d)
}

func (d DateInput) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d *DateInput) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		*d = DateInput{}
		return nil
	}
	t, _, err := ParseDateInput(raw)
	if err != nil {
		return err
	}
	*d = DateInput(t)
	return nil
}

func (d DateInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d))
}
