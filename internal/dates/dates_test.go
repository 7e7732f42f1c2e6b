package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyCrossesUTCBoundary(t *testing.T) {
	// 23:45 IST is 18:15 UTC the same civil day in IST.
	utc := time.Date(2025, 3, 10, 18, 15, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", DayKey(utc))

	// 19:00 UTC is already 00:30 IST the next day.
	utc = time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-11", DayKey(utc))
}

func TestDayRangeBracketsDay(t *testing.T) {
	start, end, err := DayRange("2025-03-10")
	require.NoError(t, err)

	// Start is IST midnight, which is 18:30 UTC the previous day.
	assert.Equal(t, time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 10, 18, 29, 59, 999000000, time.UTC), end)

	instants := []time.Time{
		start,
		end,
		time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 18, 15, 0, 0, time.UTC), // 23:45 IST
	}
	for _, inst := range instants {
		key := DayKey(inst)
		s, e, err := DayRange(key)
		require.NoError(t, err)
		assert.False(t, inst.Before(s), "instant %v before start of %s", inst, key)
		assert.False(t, inst.After(e), "instant %v after end of %s", inst, key)
	}
}

func TestDayRangeRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"", "2025-3-10", "2025-03-10T00:00", "not-a-date", "2025-13-01"} {
		_, _, err := DayRange(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
		assert.False(t, Valid(key), "key %q", key)
	}
	assert.True(t, Valid("2025-03-10"))
}

func TestWeekKeysMondayStart(t *testing.T) {
	// 2025-03-12 is a Wednesday.
	wed := time.Date(2025, 3, 12, 12, 0, 0, 0, IST)

	keys := weekKeysAt(wed, 0)
	require.Len(t, keys, 7)
	assert.Equal(t, "2025-03-10", keys[0])
	assert.Equal(t, "2025-03-16", keys[6])

	prev := weekKeysAt(wed, -1)
	assert.Equal(t, "2025-03-03", prev[0])

	next := weekKeysAt(wed, 1)
	assert.Equal(t, "2025-03-17", next[0])

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2025, 3, 16, 12, 0, 0, 0, IST)
	keys = weekKeysAt(sun, 0)
	assert.Equal(t, "2025-03-10", keys[0])
}

func TestMonthKeysOfComplete(t *testing.T) {
	keys := MonthKeysOf(2025, 2)
	require.Len(t, keys, 28)
	assert.Equal(t, "2025-02-01", keys[0])
	assert.Equal(t, "2025-02-28", keys[27])

	keys = MonthKeysOf(2024, 2) // leap year
	assert.Len(t, keys, 29)

	keys = MonthKeysOf(2025, 12)
	require.Len(t, keys, 31)
	assert.Equal(t, "2025-12-31", keys[30])
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, 4)
	assert.Equal(t, "2025-04-01", start)
	assert.Equal(t, "2025-04-30", end)
}

func TestRangeKeysGapFree(t *testing.T) {
	keys, err := RangeKeys("2025-02-26", "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-02-26", "2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02",
	}, keys)

	keys, err = RangeKeys("2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	_, err = RangeKeys("2025-03-02", "2025-03-01")
	assert.Error(t, err)

	_, err = RangeKeys("bad", "2025-03-01")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
