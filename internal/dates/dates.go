// Package dates maps instants to canonical IST civil-date keys.
// Every time-bucketed query in the system groups by these keys, and
// every entity persists its key at write time, so the projection here
// is the single source of truth for "which day did this happen".
package dates

import (
	"errors"
	"fmt"
	"time"
)

// IST is India Standard Time, UTC+5:30. India observes no daylight
// saving, so a fixed zone is exact and avoids a tzdata dependency.
var IST = time.FixedZone("IST", 5*3600+30*60)

const keyLayout = "2006-01-02"

// ErrInvalidKey is returned for strings that are not YYYY-MM-DD dates.
var ErrInvalidKey = errors.New("invalid date key")

// DayKey returns the IST civil date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.In(IST).Format(keyLayout)
}

// Today returns the day key for the current instant.
func Today() string {
	return DayKey(time.Now())
}

// Valid reports whether key is a well-formed YYYY-MM-DD date.
func Valid(key string) bool {
	_, err := time.ParseInLocation(keyLayout, key, IST)
	return err == nil && len(key) == len(keyLayout)
}

// DayRange returns the inclusive instant range [00:00:00.000,
// 23:59:59.999] of the given IST civil day, in UTC. For every instant
// t, DayRange(DayKey(t)) brackets t at both ends.
func DayRange(key string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation(keyLayout, key, IST)
	if err != nil || len(key) != len(keyLayout) {
		return time.Time{}, time.Time{}, ErrInvalidKey
	}
	start = day.UTC()
	end = day.Add(24*time.Hour - time.Millisecond).UTC()
	return start, end, nil
}

// WeekKeys returns the 7 day keys of the Monday-start IST week at the
// given signed offset from the current week (0 = this week, -1 = last
// week, +1 = next week).
func WeekKeys(offset int) []string {
	return weekKeysAt(time.Now(), offset)
}

func weekKeysAt(now time.Time, offset int) []string {
	ist := now.In(IST)
	// Monday-start: shift Sunday back six days, otherwise back to Monday.
	diff := 1 - int(ist.Weekday())
	if ist.Weekday() == time.Sunday {
		diff = -6
	}
	monday := ist.AddDate(0, 0, diff+offset*7)

	keys := make([]string, 7)
	for i := range keys {
		keys[i] = monday.AddDate(0, 0, i).Format(keyLayout)
	}
	return keys
}

// MonthKeys returns every day key of the IST calendar month at the
// given signed offset from the current month. Both past and future
// offsets are supported.
func MonthKeys(offset int) []string {
	ist := time.Now().In(IST)
	first := time.Date(ist.Year(), ist.Month()+time.Month(offset), 1, 0, 0, 0, 0, IST)
	return MonthKeysOf(first.Year(), int(first.Month()))
}

// MonthKeysOf returns every day key of the given calendar month.
func MonthKeysOf(year, month int) []string {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, IST)
	next := first.AddDate(0, 1, 0)

	keys := make([]string, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(keyLayout))
	}
	return keys
}

// MonthBounds returns the first and last day keys of the given
// calendar month, for range queries over persisted keys.
func MonthBounds(year, month int) (startKey, endKey string) {
	keys := MonthKeysOf(year, month)
	return keys[0], keys[len(keys)-1]
}

// RangeKeys returns every day key from startKey through endKey
// inclusive. It is used to produce gap-free per-day sequences.
func RangeKeys(startKey, endKey string) ([]string, error) {
	start, err := time.ParseInLocation(keyLayout, startKey, IST)
	if err != nil {
		return nil, fmt.Errorf("start: %w", ErrInvalidKey)
	}
	end, err := time.ParseInLocation(keyLayout, endKey, IST)
	if err != nil {
		return nil, fmt.Errorf("end: %w", ErrInvalidKey)
	}
	if end.Before(start) {
		return nil, errors.New("end before start")
	}

	var keys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(keyLayout))
	}
	return keys, nil
}
