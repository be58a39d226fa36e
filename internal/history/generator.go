package history

import (
	"math/rand"
	"sort"
	"time"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/distributions"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/seedmix"
)

// lifecycleOp is a follow-up event kind a generated line may emit after its
// initial NEW_SUBSCRIBER.
type lifecycleOp int

const (
	opChangeDevice lifecycleOp = iota
	opChangeSim
	opReleaseNumber
)

// avgLifecycleEvents is the mean number of post-creation lifecycle events
// per generated identity line.
const avgLifecycleEvents = 1.5

// Generate synthesizes a subscriber-history store with dbSize identity
// lines spread across dbHistoryDays, starting at startDate. The result
// always satisfies Validate.
func Generate(cfg *config.Config, seed int64, dbSize, dbHistoryDays int, startDate time.Time) []Event {
	rng := rand.New(rand.NewSource(seedmix.Mix(seed, 100)))
	windowMs := int64(dbHistoryDays) * 86_400_000
	if windowMs <= 0 {
		windowMs = 1
	}
	startMs := startDate.UnixMilli()

	events := make([]Event, 0, dbSize*2)
	for i := 0; i < dbSize; i++ {
		events = append(events, generateLine(rng, cfg, startMs, windowMs)...)
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].TimestampMs < events[j].TimestampMs })
	return events
}

// generateLine emits one identity's NEW_SUBSCRIBER plus a random number of
// subsequent lifecycle events, all within [startMs, startMs+windowMs].
func generateLine(rng *rand.Rand, cfg *config.Config, startMs, windowMs int64) []Event {
	creationWindow := windowMs / 4
	if creationWindow <= 0 {
		creationWindow = 1
	}
	t := startMs + rng.Int63n(creationWindow)

	mccmnc := cfg.Population.MCCMNCs[rng.Intn(len(cfg.Population.MCCMNCs))]
	msisdn := population.GenMSISDN(rng, cfg.Population.Prefixes)
	imsi := population.GenIMSI(rng, mccmnc)
	imei := population.GenIMEI(rng)

	line := []Event{{TimestampMs: t, Kind: NewSubscriber, IMSI: imsi, MSISDN: msisdn, IMEI: imei, MCCMNC: mccmnc}}

	active := true
	curImsi, curMsisdn, curImei, curMccmnc := imsi, msisdn, imei, mccmnc

	steps := distributions.Poisson(rng, avgLifecycleEvents)
	for s := 0; s < steps; s++ {
		remaining := startMs + windowMs - t
		if remaining <= 1 {
			break
		}
		t += 1 + rng.Int63n(remaining)

		if !active {
			curMsisdn = population.GenMSISDN(rng, cfg.Population.Prefixes)
			line = append(line, Event{TimestampMs: t, Kind: AssignNumber, IMSI: curImsi, MSISDN: curMsisdn, IMEI: curImei, MCCMNC: curMccmnc})
			active = true
			continue
		}

		switch lifecycleOp(rng.Intn(3)) {
		case opChangeDevice:
			curImei = population.GenIMEI(rng)
			line = append(line, Event{TimestampMs: t, Kind: ChangeDevice, IMSI: curImsi, MSISDN: curMsisdn, IMEI: curImei, MCCMNC: curMccmnc})

		case opChangeSim:
			curImsi = population.GenIMSI(rng, curMccmnc)
			line = append(line, Event{TimestampMs: t, Kind: ChangeSim, IMSI: curImsi, MSISDN: curMsisdn, IMEI: curImei, MCCMNC: curMccmnc})

		case opReleaseNumber:
			line = append(line, Event{TimestampMs: t, Kind: ReleaseNumber, IMSI: curImsi, MSISDN: curMsisdn, IMEI: "", MCCMNC: curMccmnc})
			active = false
		}
	}

	return line
}
