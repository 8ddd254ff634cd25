// Package timex holds small time helpers shared by configuration loaders.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration is returned when a JSON value is neither a duration
// string nor a number of nanoseconds.
var ErrInvalidDuration = errors.New("invalid duration")

// Duration wraps time.Duration so JSON can carry either a string such as
// "3s" / "1m30s" or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

// MarshalJSON writes the duration in its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string or a number.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDuration, err.Error())
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrInvalidDuration, v)
	}
}
