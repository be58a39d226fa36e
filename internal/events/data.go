package events

import (
	"math/rand"
	"time"

	"github.com/jihwankim/cdrgen/internal/config"
	"github.com/jihwankim/cdrgen/internal/distributions"
	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/temporal"
)

// Data synthesizes one DATA event for sub into out. DATA events have no
// counterparty; bytes in/out are scaled by the sampled RAT's log-normal
// parameters.
func (g *Generator) Data(rng *rand.Rand, dc *temporal.DayContext, loc *time.Location, tzName string, pop *population.Population, sub *population.Subscriber, lookupKey string, store *history.Store, out *Event) bool {
	startMs, offsetMin := dc.SampleTimestamp(rng, loc)

	id, ok := resolveIdentity(store, lookupKey, sub, startMs)
	if !ok {
		return false
	}

	rat := g.ratNames[g.ratAlias.Sample(rng)]
	apn := g.apnNames[g.apnAlias.Sample(rng)]

	bytesIn := sampleBytes(rng, g.dataBytesIn, rat)
	bytesOut := sampleBytes(rng, g.dataBytesOut, rat)
	durationSec := clampDuration(distributions.LogNormal(rng, g.dataDuration.Mu, g.dataDuration.Sigma))
	endMs := startMs + durationSec*1000

	out.reset()
	out.Type = "DATA"
	out.MSISDNSrc = id.msisdn
	out.Direction = DirMO
	out.StartTsMs = startMs
	out.EndTsMs = endMs
	out.TZName = tzName
	out.TZOffsetMin = offsetMin
	out.DurationSec = durationSec
	out.MCCMNC = id.mccmnc
	out.IMSI = id.imsi
	out.IMEI = id.imei
	out.CellID = pickCell(rng, pop.Cells)
	out.RecordType = RecordData
	out.DataBytesIn = bytesIn
	out.DataBytesOut = bytesOut
	out.DataDurationSec = durationSec
	out.APN = apn
	out.RAT = rat
	return true
}

func sampleBytes(rng *rand.Rand, params map[string]config.LogNormalParams, rat string) int64 {
	p, ok := params[rat]
	if !ok {
		return 0
	}
	v := distributions.LogNormal(rng, p.Mu, p.Sigma)
	if v <= 0 {
		return 1
	}
	return int64(v)
}
