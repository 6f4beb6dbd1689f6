package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want Interval
	}{
		{
			in: "1y 2mon 3d 04:05:06.007",
			want: Interval{
				Months: 14,
				Days:   3,
				Nanos:  int64(4*time.Hour + 5*time.Minute + 6*time.Second + 7*time.Millisecond),
				Valid:  true,
			},
		},
		{in: "-05:00:00", want: Interval{Nanos: int64(-5 * time.Hour), Valid: true}},
		{in: "2 days", want: Interval{Days: 2, Valid: true}},
		{in: "-3 d", want: Interval{Days: -3, Valid: true}},
		{in: "90 mins", want: Interval{Nanos: int64(90 * time.Minute), Valid: true}},
		{in: "1 year 6 months", want: Interval{Months: 18, Valid: true}},
		{in: "250 micros", want: Interval{Nanos: int64(250 * time.Microsecond), Valid: true}},
		{in: "10ns", want: Interval{Nanos: 10, Valid: true}},
		{in: "5", want: Interval{Nanos: int64(5 * time.Hour), Valid: true}},
		{in: "0:00:00.5", want: Interval{Nanos: int64(500 * time.Millisecond), Valid: true}},
		{in: "0:00:00.0075", want: Interval{Nanos: 7_500_000, Valid: true}},
		{in: "1y -04:30", want: Interval{Months: 12, Nanos: int64(-(4*time.Hour + 30*time.Minute)), Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntervalErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"3 parsecs",
		"0:60:00",
		"0:00:61",
		"0:00:00.0000000001",
		"1d extra 2",
		"04:05:06 junk",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseInterval(in)
			var pe ParseError
			require.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2024-02-29", Date{Year: 2024, Month: 2, Day: 29, Valid: true}},
		{"2024-05-06 AD", Date{Year: 2024, Month: 5, Day: 6, Valid: true}},
		{"0001-02-03 BC", Date{Year: 0, Month: 2, Day: 3, Valid: true}},
		{"0753-01-01 bc", Date{Year: -752, Month: 1, Day: 1, Valid: true}},
		{"-0004-02-03", Date{Year: -4, Month: 2, Day: 3, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	tests := []string{
		"2023-02-29",
		"2023-13-01",
		"2023-00-10",
		"not a date",
		"2023-01-02 XX",
		"2023-01-02 BC junk",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDate(in)
			var pe ParseError
			require.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"13:30", 13*time.Hour + 30*time.Minute},
		{"07:08:09.25", 7*time.Hour + 8*time.Minute + 9*time.Second + 250*time.Millisecond},
		{"00:00", 0},
		{"23:59:59.999999999", 24*time.Hour - time.Nanosecond},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, Time{Duration: tt.want, Valid: true}, got)
		})
	}

	for _, in := range []string{"24:00", "7", "13:60", "junk"} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ParseTime(in)
			require.Error(t, err)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-02 03:04:05.5", time.Date(2025, 1, 2, 3, 4, 5, 500_000_000, time.UTC)},
		{"2025-01-02T03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02 03:04", time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Valid)
			assert.True(t, got.Time.Equal(tt.want), "got %v", got.Time)
		})
	}

	_, err := ParseTimestamp("01/02/2025")
	require.Error(t, err)
}

func TestParseTimestampTZ(t *testing.T) {
	t.Run("explicit offset", func(t *testing.T) {
		got, err := ParseTimestampTZ("2025-01-02T03:04:05+05:30")
		require.NoError(t, err)
		_, offset := got.Time.Zone()
		assert.Equal(t, 19800, offset)
		assert.True(t, got.Time.Equal(time.Date(2025, 1, 1, 21, 34, 5, 0, time.UTC)))
	})

	t.Run("zulu", func(t *testing.T) {
		got, err := ParseTimestampTZ("2025-01-02 03:04:05Z")
		require.NoError(t, err)
		assert.True(t, got.Time.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	})

	t.Run("naive falls back to UTC", func(t *testing.T) {
		got, err := ParseTimestampTZ("2025-01-02 03:04:05")
		require.NoError(t, err)
		_, offset := got.Time.Zone()
		assert.Zero(t, offset)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseTimestampTZ("yesterday")
		require.Error(t, err)
	})
}

func TestClockString(t *testing.T) {
	tests := []struct {
		h, m, s, ns int64
		want        string
	}{
		{0, 0, 0, 0, "00:00:00.0"},
		{4, 5, 6, 7_000_000, "04:05:06.007"},
		{1, 2, 3, 450_000_000, "01:02:03.45"},
		{23, 59, 59, 999_999_999, "23:59:59.999999999"},
		{12, 0, 30, 1, "12:00:30.000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ClockString(tt.h, tt.m, tt.s, tt.ns))
		})
	}
}
