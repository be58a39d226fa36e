package events

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/jihwankim/cdrgen/internal/history"
	"github.com/jihwankim/cdrgen/internal/population"
	"github.com/jihwankim/cdrgen/internal/temporal"
)

// SMS synthesizes one SMS event for sub into out. End timestamp always
// equals start timestamp; SMS carries no duration.
func (g *Generator) SMS(rng *rand.Rand, dc *temporal.DayContext, loc *time.Location, tzName string, pop *population.Population, sub *population.Subscriber, lookupKey string, store *history.Store, out *Event) bool {
	startMs, offsetMin := dc.SampleTimestamp(rng, loc)

	id, ok := resolveIdentity(store, lookupKey, sub, startMs)
	if !ok {
		return false
	}

	mo := rng.Float64() < g.moShareSMS
	direction := DirMT
	recordType := RecordSMSMT
	if mo {
		direction = DirMO
		recordType = RecordSMSMO
	}

	segments, _ := strconv.Atoi(g.smsSegmentNames[g.smsSegmentAlias.Sample(rng)])
	if segments <= 0 {
		segments = 1
	}
	status := g.smsStatusNames[g.smsStatusAlias.Sample(rng)]

	src, dst := id.msisdn, pickCounterparty(rng, pop, sub, g.prefixes)
	if !mo {
		src, dst = dst, src
	}

	out.reset()
	out.Type = "SMS"
	out.MSISDNSrc = src
	out.MSISDNDst = dst
	out.Direction = direction
	out.StartTsMs = startMs
	out.EndTsMs = startMs
	out.TZName = tzName
	out.TZOffsetMin = offsetMin
	out.DurationSec = 0
	out.MCCMNC = id.mccmnc
	out.IMSI = id.imsi
	out.IMEI = id.imei
	out.CellID = pickCell(rng, pop.Cells)
	out.RecordType = recordType
	out.SMSSegments = segments
	out.SMSStatus = status
	return true
}
