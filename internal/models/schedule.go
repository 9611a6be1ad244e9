package models

import (
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

type ScheduleKind string

const (
	ScheduleDaily    ScheduleKind = "daily"
	SchedulePeriodic ScheduleKind = "periodic"
)

func (k ScheduleKind) Valid() bool {
	return k == ScheduleDaily || k == SchedulePeriodic
}

// ScheduleValue holds either a daily "HH:MM" mark or a periodic interval in
// seconds. External client processes write the interval as a bare JSON number,
// so both encodings are accepted on read.
type ScheduleValue string

func (v *ScheduleValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ScheduleValue(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = ScheduleValue(strconv.FormatInt(n, 10))
		return nil
	}
	return fmt.Errorf("schedule value must be a string or an integer, got %s", data)
}

func (v ScheduleValue) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(v))
}

// DailyTime parses the value as a zero-padded HH:MM wall-clock mark.
func (v ScheduleValue) DailyTime() (time.Time, error) {
	t, err := time.Parse("15:04", string(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("daily schedule value must be HH:MM: %w", err)
	}
	return t, nil
}

// PeriodicInterval parses the value as a positive interval in whole seconds.
func (v ScheduleValue) PeriodicInterval() (time.Duration, error) {
	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 0, fmt.Errorf("periodic schedule value must be an integer: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("periodic schedule value must be positive, got %d", n)
	}
	return time.Duration(n) * time.Second, nil
}

// ValidateSchedule checks a kind/value pair the same way for server conversion
// schedules and per-client upload schedules.
func ValidateSchedule(kind ScheduleKind, value ScheduleValue) error {
	switch kind {
	case ScheduleDaily:
		_, err := value.DailyTime()
		return err
	case SchedulePeriodic:
		_, err := value.PeriodicInterval()
		return err
	default:
		return fmt.Errorf("unknown schedule type %q", kind)
	}
}
