package localtime

import (
	"testing"
	"time"
)

func TestParse_UTCMarkerMeansLocal(t *testing.T) {
	withZ, err := Parse("2025-10-08T08:00:00Z")
	if err != nil {
		t.Fatalf("parse with Z: %v", err)
	}
	withoutZ, err := Parse("2025-10-08T08:00:00")
	if err != nil {
		t.Fatalf("parse without Z: %v", err)
	}

	if !withZ.Equal(withoutZ) {
		t.Fatalf("expected same instant, got %s and %s", withZ, withoutZ)
	}
	if withZ.Hour() != 8 || withZ.Minute() != 0 {
		t.Fatalf("expected wall clock 08:00, got %02d:%02d", withZ.Hour(), withZ.Minute())
	}
	if withZ.Location() != time.Local {
		t.Fatalf("expected local location, got %s", withZ.Location())
	}
}

func TestParse_Layouts(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-10-08T08:05:00Z", "2025-10-08 08:05"},
		{"2025-10-08T08:05:00.123456Z", "2025-10-08 08:05"},
		{"2025-10-08 14:30:00", "2025-10-08 14:30"},
		{"2025-10-08", "2025-10-08 00:00"},
	}

	for _, c := range cases {
		got, err := Parse(c.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", c.raw, err)
		}
		if s := got.Format("2006-01-02 15:04"); s != c.want {
			t.Fatalf("parse %q: expected %s, got %s", c.raw, c.want, s)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("next tuesday"); err == nil {
		t.Fatal("expected error for garbage input")
	}
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestTimeLabel(t *testing.T) {
	got, err := Parse("2025-10-08T08:05:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if label := TimeLabel(got); label != "08:05" {
		t.Fatalf("expected 08:05, got %s", label)
	}
}

func TestDateKey(t *testing.T) {
	got, err := Parse("2025-01-03T23:59:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if key := DateKey(got); key != "2025-01-03" {
		t.Fatalf("expected 2025-01-03, got %s", key)
	}
}

func TestCombine(t *testing.T) {
	day := time.Date(2025, 10, 8, 0, 0, 0, 0, time.Local)
	clock := time.Date(2000, 1, 1, 16, 45, 12, 0, time.Local)

	got := Combine(day, clock)
	want := time.Date(2025, 10, 8, 16, 45, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
