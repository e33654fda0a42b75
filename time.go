package custody

import (
	"encoding/json"
	"math"
	"time"

	"github.com/paystar/custody/errors"
)

// UnixTime is a point in time as POSIX seconds. Records store UnixTime
// instead of time.Time so that the binary encoding has no sub second
// precision and no time zone.
type UnixTime int64

// AsUnixTime converts t into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns a time.Time that represents the same moment.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time is the zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add is compatible with time.Time.Add. Sub second precision is dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddSeconds returns t moved forward by the given amount of seconds. An
// ErrOverflow is returned if the result cannot be represented.
func (t UnixTime) AddSeconds(seconds int64) (UnixTime, error) {
	if seconds < 0 {
		return 0, errors.Wrap(errors.ErrInput, "negative offset")
	}
	if int64(t) > math.MaxInt64-seconds {
		return 0, errors.Wrap(errors.ErrOverflow, "time offset")
	}
	return t + UnixTime(seconds), nil
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// UnmarshalJSON accepts both a number and an RFC3339 string. Numbers are the
// usual representation, strings are convenient in the genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := AsUnixTime(stdtime)
		if unix < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = unix
		return nil
	}
	return errors.Wrap(errors.ErrInput, "invalid time format")
}
