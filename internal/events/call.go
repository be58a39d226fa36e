package events

import (
	"math/rand"
	"time"

	"github.com/jihwankim/cdrgen/internal/distributions"
	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/temporal"
)

var callCauseByDisposition = map[string]string{
	"ANSWERED":   CauseNormalClearing,
	"NO_ANSWER":  CauseNoAnswer,
	"BUSY":       CauseUserBusy,
	"FAILED":     CauseNetworkFailure,
	"CONGESTION": CauseNetworkCongestion,
}

// Call synthesizes one CALL event for sub into out, returning false if the
// event must be skipped (no active history-store snapshot at the sampled
// instant).
func (g *Generator) Call(rng *rand.Rand, dc *temporal.DayContext, loc *time.Location, tzName string, pop *population.Population, sub *population.Subscriber, lookupKey string, store *history.Store, out *Event) bool {
	startMs, offsetMin := dc.SampleTimestamp(rng, loc)

	id, ok := resolveIdentity(store, lookupKey, sub, startMs)
	if !ok {
		return false
	}

	mo := rng.Float64() < g.moShareCall
	direction := DirMT
	if mo {
		direction = DirMO
	}

	disposition := g.dispositionNames[g.dispositionAlias.Sample(rng)]

	var durationSec int64
	if params, ok := g.callDuration[disposition]; ok {
		durationSec = clampDuration(distributions.LogNormal(rng, params.Mu, params.Sigma))
	}
	endMs := startMs + durationSec*1000

	src, dst := id.msisdn, pickCounterparty(rng, pop, sub, g.prefixes)
	if !mo {
		src, dst = dst, id.msisdn
	}

	out.reset()
	out.Type = "CALL"
	out.MSISDNSrc = src
	out.MSISDNDst = dst
	out.Direction = direction
	out.StartTsMs = startMs
	out.EndTsMs = endMs
	out.TZName = tzName
	out.TZOffsetMin = offsetMin
	out.DurationSec = durationSec
	out.MCCMNC = id.mccmnc
	out.IMSI = id.imsi
	out.IMEI = id.imei
	out.CellID = pickCell(rng, pop.Cells)
	out.RecordType = RecordVoice
	out.Cause = callCauseByDisposition[disposition]
	return true
}
