// Package temporal implements diurnal/seasonal/special-day intensity
// shaping and rejection-sampled event timestamp generation.
package temporal

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jihwankim/cdrgen/internal/distributions"
)

// DayContext bundles everything the shaper needs for one calendar day that
// does not vary per subscriber or per event: the date string (for
// special-day lookup), the active diurnal vector, and its precomputed
// maximum. It is built once per day and threaded into every per-subscriber
// call so the hot path allocates nothing and formats no dates.
type DayContext struct {
	Date        time.Time // local midnight, in the configured location
	DateStr     string    // YYYY-MM-DD, precomputed once per day
	Diurnal     [24]float64
	MaxDiurnal  float64
	SeasonMult  float64
	SpecialMult float64
}

// Shaper holds the location and calendar-keyed multiplier maps shared by
// every worker, read-only after construction.
type Shaper struct {
	Loc         *time.Location
	Weekday     [24]float64
	Weekend     [24]float64
	Seasonality map[string]float64 // "1".."12"
	SpecialDays map[string]float64 // "YYYY-MM-DD"
}

// NewShaper builds a Shaper. weekday/weekend are the 24-hour diurnal
// vectors from config.
func NewShaper(loc *time.Location, weekday, weekend [24]float64, seasonality, specialDays map[string]float64) *Shaper {
	return &Shaper{
		Loc:         loc,
		Weekday:     weekday,
		Weekend:     weekend,
		Seasonality: seasonality,
		SpecialDays: specialDays,
	}
}

// NewDayContext precomputes the per-day state for localDate (midnight, in
// s.Loc).
func (s *Shaper) NewDayContext(localDate time.Time) DayContext {
	dateStr := localDate.Format("2006-01-02")

	diurnal := s.Weekday
	if wd := localDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
		diurnal = s.Weekend
	}
	var maxDiurnal float64
	for _, v := range diurnal {
		if v > maxDiurnal {
			maxDiurnal = v
		}
	}
	if maxDiurnal == 0 {
		maxDiurnal = 1
	}

	monthKey := fmt.Sprintf("%d", int(localDate.Month()))
	seasonMult := s.Seasonality[monthKey]
	if seasonMult == 0 {
		seasonMult = 1
	}
	specialMult := 1.0
	if v, ok := s.SpecialDays[dateStr]; ok {
		specialMult = v
	}

	return DayContext{
		Date:        localDate,
		DateStr:     dateStr,
		Diurnal:     diurnal,
		MaxDiurnal:  maxDiurnal,
		SeasonMult:  seasonMult,
		SpecialMult: specialMult,
	}
}

// SampleEventCount draws the Poisson event count for the day given a base
// rate and the day's shaped diurnal/seasonal/special-day multipliers.
func (dc *DayContext) SampleEventCount(rng *rand.Rand, lambdaBase float64) int {
	var sumDiurnal float64
	for _, v := range dc.Diurnal {
		sumDiurnal += v
	}
	sumLambda := lambdaBase * dc.SeasonMult * dc.SpecialMult * sumDiurnal / 24.0
	return distributions.Poisson(rng, sumLambda)
}

// SampleTimestamp rejection-samples one local hour-of-day in [0,24) shaped
// by the diurnal vector, then converts it to a UTC epoch-millisecond
// instant and the DST-aware offset (minutes) applicable at that instant.
// Allocates nothing.
func (dc *DayContext) SampleTimestamp(rng *rand.Rand, loc *time.Location) (epochMs int64, tzOffsetMin int) {
	for {
		hourFrac := rng.Float64() * 24.0
		hour := int(hourFrac)
		if rng.Float64() <= dc.Diurnal[hour]/dc.MaxDiurnal {
			remainder := (hourFrac - float64(hour)) * 3600.0 // seconds into the hour
			sec := int(remainder)
			nsec := int((remainder - float64(sec)) * 1e9)
			t := time.Date(dc.Date.Year(), dc.Date.Month(), dc.Date.Day(), hour, 0, sec, nsec, loc)
			_, offsetSec := t.Zone()
			return t.UnixMilli(), offsetSec / 60
		}
	}
}
