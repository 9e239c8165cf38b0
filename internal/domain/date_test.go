package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-11")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d != NewDate(2024, time.March, 11) {
		t.Errorf("Expected 2024-03-11, got %v", d)
	}
	if d.String() != "2024-03-11" {
		t.Errorf("Expected string 2024-03-11, got %s", d.String())
	}

	if _, err := ParseDate("11/03/2024"); err == nil {
		t.Error("Expected error for non-ISO date")
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	if got := d.AddDays(1); got != NewDate(2024, time.February, 29) {
		t.Errorf("2024 is a leap year, expected Feb 29, got %v", got)
	}
	if got := d.AddDays(2); got != NewDate(2024, time.March, 1) {
		t.Errorf("Expected Mar 1, got %v", got)
	}
	if got := NewDate(2024, time.March, 11).AddDays(-11); got != NewDate(2024, time.February, 29) {
		t.Errorf("Expected Feb 29, got %v", got)
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.March, 11)
	b := NewDate(2024, time.March, 12)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After ordering wrong")
	}
	if a.Before(a) || a.After(a) {
		t.Error("A date is neither before nor after itself")
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.March, 11)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2024-03-11"` {
		t.Errorf("Expected \"2024-03-11\", got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != d {
		t.Errorf("Roundtrip mismatch: %v", back)
	}

	if err := json.Unmarshal([]byte(`20240311`), &back); err == nil {
		t.Error("Expected error for non-string date")
	}
}

func TestDate_Weekday(t *testing.T) {
	if wd := NewDate(2024, time.March, 11).Weekday(); wd != time.Monday {
		t.Errorf("2024-03-11 is a Monday, got %v", wd)
	}
	if wd := NewDate(2024, time.March, 16).Weekday(); wd != time.Saturday {
		t.Errorf("2024-03-16 is a Saturday, got %v", wd)
	}
}
