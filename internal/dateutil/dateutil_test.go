package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestNewDateRange(t *testing.T) {
	dr, err := NewDateRange("2025-01-15", "2025-01-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dr.Days() != 6 {
		t.Errorf("Days = %d, want 6", dr.Days())
	}

	single, err := NewDateRange("2025-01-15", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !single.Start.Equal(single.End) || single.Days() != 1 {
		t.Errorf("got %v-%v, want a single day", single.Start, single.End)
	}

	if _, err := NewDateRange("2025-01-20", "2025-01-15"); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Errorf("got error %v, want %v", err, ErrEndDateBeforeStart)
	}
	if _, err := NewDateRange("2025-01-15", "nope"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
	}
}

func TestParseDateTime(t *testing.T) {
	// Friday, January 10, 2025
	ref := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	plus2 := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		name    string
		input   string
		loc     *time.Location
		want    time.Time
		wantErr error
	}{
		{"rfc3339", "2025-01-15T10:00:00+01:00", nil, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), nil},
		{"date and time", "2025-01-15 10:00", nil, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), nil},
		{"date T time", "2025-01-15T10:00", nil, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), nil},
		{"date and time in zone", "2025-01-15 10:00", plus2, time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC), nil},
		{"clock only", "09:15", nil, time.Date(2025, 1, 10, 9, 15, 0, 0, time.UTC), nil},
		{"tomorrow clock", "tomorrow 08:00", nil, time.Date(2025, 1, 11, 8, 0, 0, 0, time.UTC), nil},
		{"weekday clock", "monday 13:45", nil, time.Date(2025, 1, 13, 13, 45, 0, 0, time.UTC), nil},
		{"yesterday clock", "yesterday 23:00", nil, time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC), nil},
		{"empty", "", nil, time.Time{}, ErrInvalidTimeFormat},
		{"garbage", "soon", nil, time.Time{}, ErrInvalidTimeFormat},
		{"bad day", "someday 10:00", nil, time.Time{}, ErrInvalidTimeFormat},
		{"bad clock", "tomorrow 25:00", nil, time.Time{}, ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, ref, tt.loc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"90", 90 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{" 45m ", 45 * time.Minute, false},
		{"0", 0, true},
		{"-1h", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDuration) {
					t.Errorf("got error %v, want %v", err, ErrInvalidDuration)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
	}{
		{"monday", time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC)},
	}
	wantMonday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMonday, gotSunday := WeekRange(tt.input)
			if !gotMonday.Equal(wantMonday) {
				t.Errorf("monday: got %v, want %v", gotMonday, wantMonday)
			}
			if !gotSunday.Equal(wantSunday) {
				t.Errorf("sunday: got %v, want %v", gotSunday, wantSunday)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	if got, want := TruncateToDay(input), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("TruncateToDay: got %v, want %v", got, want)
	}
	if got, want := TruncateToHour(input), time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("TruncateToHour: got %v, want %v", got, want)
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Reference date: Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"empty returns today", "", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"TODAY uppercase", "TODAY", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", "tomorrow", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
		{"yesterday", "yesterday", time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"saturday from friday", "saturday", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
		{"friday from friday is next week", "friday", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"next-monday", "next-monday", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"next-week", "next-week", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"absolute future", "2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"absolute past allowed", "2024-12-24", time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, friday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	ref := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"next-fooday", "someday", "2025/01/15"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseRelativeDate(input, ref); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
			}
		})
	}
}
