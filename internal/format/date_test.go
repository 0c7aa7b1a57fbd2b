package format

import (
	"testing"
	"time"
)

func TestDateBR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-03-05T14:22:10.123Z", "05/03/2026"},
		{"2026-03-05T14:22:10Z", "05/03/2026"},
		{"2026-03-05", "05/03/2026"},
		{"", ""},
		{"not a date", ""},
	}
	for _, tt := range tests {
		if got := DateBR(tt.in); got != tt.want {
			t.Errorf("DateBR(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"05/03/2026", "2026-03-05"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", in, err)
		}
		if got.Year() != 2026 || got.Month() != time.March || got.Day() != 5 {
			t.Errorf("ParseDate(%q) = %v, want 2026-03-05", in, got)
		}
	}
	if _, err := ParseDate("31/02/2026"); err == nil {
		t.Error("ParseDate(31/02/2026) should fail")
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(2024, time.February, 17, 10, 0, 0, 0, time.UTC))
	if Day(from) != "2024-02-01" {
		t.Errorf("from = %s, want 2024-02-01", Day(from))
	}
	if Day(to) != "2024-02-29" {
		t.Errorf("to = %s, want 2024-02-29", Day(to))
	}
}

func TestISO(t *testing.T) {
	day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	if got, want := ISO(day), "2026-03-05T03:00:00.000Z"; got != want {
		t.Errorf("ISO() = %q, want %q", got, want)
	}
}

func TestTypedDateKeepsDayEastOfUTC(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("MSK", 3*3600)
	defer func() { time.Local = saved }()

	day, err := ParseDate("01/05/2024")
	if err != nil {
		t.Fatal(err)
	}
	iso := ISO(day)
	if iso != "2024-05-01T00:00:00.000Z" {
		t.Errorf("ISO() = %q, want 2024-05-01T00:00:00.000Z", iso)
	}
	if got := DateBR(iso); got != "01/05/2024" {
		t.Errorf("DateBR(%q) = %q, want 01/05/2024", iso, got)
	}
}
