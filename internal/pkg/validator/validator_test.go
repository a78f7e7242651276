package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-15", "2024-02-29", "2000-12-31"}
	invalid := []string{"2025-13-01", "2025-02-30", "15-01-2025", "2025/01/15", "", "today"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		latOK    bool
		lngOK    bool
	}{
		{0, 0, true, true},
		{-90, -180, true, true},
		{90, 180, true, true},
		{90.01, 0, false, true},
		{-91, 181, false, false},
		{45.5, 200, true, false},
	}
	for _, c := range cases {
		if got := IsValidLatitude(c.lat); got != c.latOK {
			t.Errorf("IsValidLatitude(%v) = %v, want %v", c.lat, got, c.latOK)
		}
		if got := IsValidLongitude(c.lng); got != c.lngOK {
			t.Errorf("IsValidLongitude(%v) = %v, want %v", c.lng, got, c.lngOK)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
		{Field: "reason", Message: "reason is required"},
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["reason"] != "reason is required" {
		t.Errorf("ToMap()[reason] = %q", m["reason"])
	}
	if errs.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
