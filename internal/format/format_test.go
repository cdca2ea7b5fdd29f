package format

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestAdd(t *testing.T) {
	assert.Equal(t, 0, Add[int]())
	assert.Equal(t, 5, Add(2, 3))
	assert.Equal(t, 2, Add(2))
	assert.Equal(t, -1, Add(2, -3))
	assert.Equal(t, 0.75, Add(0.5, 0.25))
}

func TestAddMatchesPlainSum(t *testing.T) {
	pairs := [][2]int{{0, 0}, {1, 1}, {-7, 7}, {1000, 24}, {-3, -4}}
	for _, p := range pairs {
		assert.Equal(t, p[0]+p[1], Add(p[0], p[1]))
	}
}

func TestFormat(t *testing.T) {
	f := NewDateFormatter(time.UTC)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "rfc3339 utc",
			input: "2020-02-14T10:30:00Z",
			want:  "14 February 2020 at 10:30",
		},
		{
			name:  "fractional seconds",
			input: "2021-07-04T09:05:59.123Z",
			want:  "4 July 2021 at 09:05",
		},
		{
			name:  "offset converted to location",
			input: "2022-11-30T23:15:00+02:00",
			want:  "30 November 2022 at 21:15",
		},
		{
			name:  "date only is utc midnight",
			input: "2023-03-01",
			want:  "1 March 2023 at 00:00",
		},
		{
			name:  "no offset is read in location",
			input: "2024-12-25T08:00:00",
			want:  "25 December 2024 at 08:00",
		},
		{
			name:  "rfc1123",
			input: "Mon, 02 Jan 2006 15:04:05 GMT",
			want:  "2 January 2006 at 15:04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.input))
		})
	}
}

func TestFormatInvalid(t *testing.T) {
	f := NewDateFormatter(time.UTC)

	assert.Equal(t, InvalidDate, f.Format(""))
	assert.Equal(t, InvalidDate, f.Format("   "))
	assert.Equal(t, InvalidDate, f.Format("yesterday"))
	assert.Equal(t, InvalidDate, f.Format("2020-13-45T99:99:99Z"))
}

func TestFormatDateDublin(t *testing.T) {
	// Winter: Dublin is on GMT.
	assert.Equal(t, "14 February 2020 at 10:30", FormatDate("2020-02-14T10:30:00Z"))
	// Summer: Irish Standard Time, UTC+1.
	assert.Equal(t, "4 July 2021 at 10:05", FormatDate("2021-07-04T09:05:00Z"))
	assert.Equal(t, "Invalid Date", FormatDate(""))
}

func TestFormatDateContainsParts(t *testing.T) {
	got := FormatDate("2019-09-03T12:00:00Z")

	assert.NotEqual(t, "", got)
	assert.Equal(t, true, strings.Contains(got, "3"))
	assert.Equal(t, true, strings.Contains(got, "2019"))
	assert.Equal(t, true, strings.Contains(got, "September"))
}

func TestNewDateFormatterFor(t *testing.T) {
	assert.Equal(t, "Europe/Dublin", NewDateFormatterFor("Europe/Dublin").Location().String())
	assert.Equal(t, "UTC", NewDateFormatterFor("").Location().String())
	assert.Equal(t, "UTC", NewDateFormatterFor("Mars/Olympus_Mons").Location().String())
}
