// Package population bootstraps the subscriber arena and cell-tower
// catalog consumed by every shard. Bootstrap runs on a single thread
// before sharding so every shard sees identical, immutable data.
package population

import (
	"math/rand"

	"github.com/jihwankim/cdrgen/internal/distributions"
)

// Subscriber is one subscriber's bootstrap identity plus its contact pool.
// Contacts are stored as indices into the shared Population.Subscribers
// slice, never as owning references, so contact-graph cycles are trivially
// representable.
type Subscriber struct {
	MSISDN string
	IMSI   string
	IMEI   string
	MCCMNC string

	ContactIdx     []int
	ContactWeights []float64
	ContactAlias   *distributions.AliasTable

	// CreatedAtMs is a diagnostic timestamp only; it never participates in
	// event synthesis or invariant checks.
	CreatedAtMs int64
}

// Population is the shared, read-only arena built once at startup.
type Population struct {
	Subscribers []Subscriber
	Cells       []Cell
}

// fieldRNGs holds one independent *rand.Rand per identity field, derived
// via seedmix so that, e.g., regenerating only IMEIs never perturbs the
// MSISDN sequence.
type fieldRNGs struct {
	msisdn  *rand.Rand
	imsi    *rand.Rand
	imei    *rand.Rand
	mccmnc  *rand.Rand
	contact *rand.Rand
}

// GenMSISDN generates a random MSISDN matching one of prefixes, 8-15
// digits total. Exported for reuse by the subscriber-history generator
// (internal/history).
func GenMSISDN(rng *rand.Rand, prefixes []string) string {
	prefix := prefixes[rng.Intn(len(prefixes))]
	const minLen, maxLen = 8, 15
	lo := len(prefix) + 1
	if lo < minLen {
		lo = minLen
	}
	if lo > maxLen {
		lo = maxLen
	}
	targetLen := lo
	if maxLen > lo {
		targetLen = lo + rng.Intn(maxLen-lo+1)
	}
	return prefix + randomDigits(rng, targetLen-len(prefix))
}

// GenIMSI generates a random 14-15 digit IMSI under mccmnc.
func GenIMSI(rng *rand.Rand, mccmnc string) string {
	total := 14
	if rng.Intn(2) == 1 {
		total = 15
	}
	if total < len(mccmnc) {
		total = len(mccmnc)
	}
	return mccmnc + randomDigits(rng, total-len(mccmnc))
}

// GenIMEI generates a random 15-digit IMEI with a valid Luhn check digit.
func GenIMEI(rng *rand.Rand) string {
	prefix := randomDigits(rng, 14)
	return prefix + string(luhnCheckDigit(prefix))
}

func randomDigits(rng *rand.Rand, n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('0' + rng.Intn(10))
	}
	return string(buf)
}
