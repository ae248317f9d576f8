package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeHoursMinutesSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", -1},
		{"   ", -1},
		{"5", 5 * 3600},
		{"1:30", 3600 + 30*60},
		{"0:01:30", 60 + 30},
		{"10:00:00", 10 * 3600},
		{"-1", -1},
		{"-5:00", -1},
	}
	for _, c := range cases {
		got, err := ParseTime(c.in)
		require.NoErrorf(t, err, "ParseTime(%q)", c.in)
		assert.Equalf(t, c.want, got, "ParseTime(%q)", c.in)
	}
}

func TestParseTimeRejectsTooManyParts(t *testing.T) {
	_, err := ParseTime("1:2:3:4")
	assert.Error(t, err)
}

func TestParseTimeRejectsNonNumeric(t *testing.T) {
	_, err := ParseTime("a:b")
	assert.Error(t, err)
}

func TestFormatTimeRoundTrips(t *testing.T) {
	assert.Equal(t, "10:00:00", FormatTime(10*3600))
	assert.Equal(t, "0:01:30", FormatTime(90))
	assert.Equal(t, "", FormatTime(-1))
}
