package events

import (
	"math"
	"math/rand"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/distributions"
	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/population"
)

// Generator holds every precomputed weighted-categorical table the three
// event generators share, built once at construction so the hot loop
// never builds alias tables itself.
type Generator struct {
	moShareCall float64
	moShareSMS  float64

	dispositionNames []string
	dispositionAlias *distributions.AliasTable
	callDuration     map[string]config.LogNormalParams

	smsStatusNames []string
	smsStatusAlias *distributions.AliasTable

	smsSegmentNames []string // "1", "2", "3"
	smsSegmentAlias *distributions.AliasTable

	ratNames []string
	ratAlias *distributions.AliasTable

	apnNames []string
	apnAlias *distributions.AliasTable

	dataBytesIn  map[string]config.LogNormalParams
	dataBytesOut map[string]config.LogNormalParams
	dataDuration config.LogNormalParams

	prefixes []string
}

// NewGenerator builds a Generator from the resolved run configuration.
func NewGenerator(cfg *config.Config) *Generator {
	d := cfg.Workload.Distributions

	dispNames, dispWeights := distributions.SortedWeights(d.CallDisposition)
	statusNames, statusWeights := distributions.SortedWeights(d.SMSStatus)
	segNames, segWeights := distributions.SortedWeights(d.SMSSegments)
	ratNames, ratWeights := distributions.SortedWeights(cfg.Cells.RATWeights)
	apnNames, apnWeights := distributions.SortedWeights(d.APNWeights)

	return &Generator{
		moShareCall: cfg.Workload.MOShareCall,
		moShareSMS:  cfg.Workload.MOShareSMS,

		dispositionNames: dispNames,
		dispositionAlias: distributions.NewAliasTable(dispWeights),
		callDuration:     d.CallDurationSec,

		smsStatusNames: statusNames,
		smsStatusAlias: distributions.NewAliasTable(statusWeights),

		smsSegmentNames: segNames,
		smsSegmentAlias: distributions.NewAliasTable(segWeights),

		ratNames: ratNames,
		ratAlias: distributions.NewAliasTable(ratWeights),

		apnNames: apnNames,
		apnAlias: distributions.NewAliasTable(apnWeights),

		dataBytesIn:  d.DataBytesIn,
		dataBytesOut: d.DataBytesOut,
		dataDuration: d.DataDurationSec,

		prefixes: cfg.Population.Prefixes,
	}
}

// identity is the (msisdn, imsi, imei, mccmnc) quadruple resolved for one
// subscriber at one event's start timestamp — either the subscriber's
// bootstrap identity, or a history-store snapshot.
type identity struct {
	msisdn, imsi, imei, mccmnc string
}

// resolveIdentity returns the identity valid at ts for subscriber sub,
// consulting store via lookupKey when a history store is active. The
// second return is false when the event must be skipped because the
// subscriber has no active snapshot at ts.
func resolveIdentity(store *history.Store, lookupKey string, sub *population.Subscriber, ts int64) (identity, bool) {
	if store == nil {
		return identity{msisdn: sub.MSISDN, imsi: sub.IMSI, imei: sub.IMEI, mccmnc: sub.MCCMNC}, true
	}
	if lookupKey == "" {
		return identity{}, false
	}
	snap, ok := store.SnapshotAt(lookupKey, ts)
	if !ok {
		return identity{}, false
	}
	return identity{msisdn: snap.MSISDN, imsi: lookupKey, imei: snap.IMEI, mccmnc: snap.MCCMNC}, true
}

// pickCounterparty returns a destination msisdn for sub, sampling from its
// contact pool when available and falling back to a synthesized msisdn
// otherwise.
func pickCounterparty(rng *rand.Rand, pop *population.Population, sub *population.Subscriber, prefixes []string) string {
	if sub.ContactAlias != nil && len(sub.ContactIdx) > 0 {
		i := sub.ContactAlias.Sample(rng)
		if i >= 0 {
			return pop.Subscribers[sub.ContactIdx[i]].MSISDN
		}
	}
	return population.GenMSISDN(rng, prefixes)
}

// clampDuration clamps a sampled (not intentionally zero) duration so a
// negative or zero draw becomes 1 second instead of a nonsensical value.
func clampDuration(sec float64) int64 {
	d := int64(math.Round(sec))
	if d <= 0 {
		return 1
	}
	return d
}

func pickCell(rng *rand.Rand, cells []population.Cell) string {
	if len(cells) == 0 {
		return ""
	}
	return cells[rng.Intn(len(cells))].CellID
}
