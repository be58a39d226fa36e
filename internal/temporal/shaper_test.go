package temporal

import (
	"math/rand"
	"testing"
	"time"
)

func testShaper(t *testing.T) *Shaper {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	var weekday, weekend [24]float64
	for h := 0; h < 24; h++ {
		weekday[h] = 1.0
		weekend[h] = 0.5
	}
	return NewShaper(loc, weekday, weekend, map[string]float64{"6": 1.0}, map[string]float64{"2025-06-15": 2.0})
}

func TestNewDayContextPicksWeekendVector(t *testing.T) {
	s := testShaper(t)
	// 2025-06-14 is a Saturday.
	dc := s.NewDayContext(time.Date(2025, 6, 14, 0, 0, 0, 0, s.Loc))
	if dc.Diurnal != s.Weekend {
		t.Fatal("expected weekend diurnal vector on Saturday")
	}

	// 2025-06-16 is a Monday.
	dc = s.NewDayContext(time.Date(2025, 6, 16, 0, 0, 0, 0, s.Loc))
	if dc.Diurnal != s.Weekday {
		t.Fatal("expected weekday diurnal vector on Monday")
	}
}

func TestNewDayContextAppliesSpecialDayMultiplier(t *testing.T) {
	s := testShaper(t)
	dc := s.NewDayContext(time.Date(2025, 6, 15, 0, 0, 0, 0, s.Loc))
	if dc.SpecialMult != 2.0 {
		t.Fatalf("expected special-day multiplier 2.0, got %v", dc.SpecialMult)
	}
	other := s.NewDayContext(time.Date(2025, 6, 16, 0, 0, 0, 0, s.Loc))
	if other.SpecialMult != 1.0 {
		t.Fatalf("expected default special-day multiplier 1.0, got %v", other.SpecialMult)
	}
}

func TestSampleTimestampWithinDay(t *testing.T) {
	s := testShaper(t)
	dc := s.NewDayContext(time.Date(2025, 6, 16, 0, 0, 0, 0, s.Loc))
	rng := rand.New(rand.NewSource(1))

	ts, _ := dc.SampleTimestamp(rng, s.Loc)
	day := time.UnixMilli(ts).In(s.Loc)
	if day.Year() != 2025 || day.Month() != time.June || day.Day() != 16 {
		t.Fatalf("sampled timestamp %v fell outside the requested day", day)
	}
}

func TestSampleEventCountZeroRateIsZero(t *testing.T) {
	s := testShaper(t)
	dc := s.NewDayContext(time.Date(2025, 6, 16, 0, 0, 0, 0, s.Loc))
	rng := rand.New(rand.NewSource(1))
	if n := dc.SampleEventCount(rng, 0); n != 0 {
		t.Fatalf("expected 0 events for zero rate, got %d", n)
	}
}
