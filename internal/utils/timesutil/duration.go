// wrapper that embeds time.Duration to make the json package able to marshal a string representation of duration
// to an actual object of type time.Duration
// (for example the json key:value "refresh_threshold": "10s", would be parsed to a duration of time.Second * 10)
package timesutil

import (
	"encoding/json"
	"fmt"
	"time"
)

type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// plain numbers are nanoseconds, like time.Duration
		var n int64
		if numErr := json.Unmarshal(b, &n); numErr != nil {
			return fmt.Errorf("failed to parse duration from JSON: %s", string(b))
		}
		*d = Duration(n)
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("failed to parse duration from JSON: %s", string(b))
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std converts back to time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func FromDuration(duration time.Duration) Duration {
	return Duration(duration)
}

func FromString(s string) (Duration, error) {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("could not parse duration: %w", err)
	}

	return Duration(dur), nil
}
