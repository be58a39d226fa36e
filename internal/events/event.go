// Package events implements the CALL, SMS, and DATA generators. Each
// generator shares one temporal.Shaper and one set of precomputed alias
// tables, and writes into a reusable scratch Event record so the
// per-subscriber hot loop allocates nothing beyond the occasional
// synthesized counterparty string.
package events

// Record-type tags, assigned deterministically by event kind. These are
// the literal strings persisted in the CSV record_type field and must not
// be altered once downstream consumers depend on them.
const (
	RecordVoice = "mscVoiceRecord"
	RecordSMSMO = "sgsnSMORecord"
	RecordSMSMT = "sgsnSMTRecord"
	RecordData  = "sgsnPDPRecord"
)

// Direction tags.
const (
	DirMO = "MO"
	DirMT = "MT"
)

// Closing causes, mapped deterministically from CALL disposition.
const (
	CauseNormalClearing    = "NORMAL_CLEARING"
	CauseNoAnswer          = "NO_ANSWER"
	CauseUserBusy          = "USER_BUSY"
	CauseNetworkFailure    = "NETWORK_FAILURE"
	CauseNetworkCongestion = "NETWORK_CONGESTION"
)

// Event is the scratch CDR record shared by all three generators. Callers
// reset and repopulate it for every synthesized record;
// the writer serializes it immediately, so no field here is retained
// beyond one write call.
type Event struct {
	Type        string // "CALL", "SMS", "DATA"
	MSISDNSrc   string
	MSISDNDst   string
	Direction   string
	StartTsMs   int64
	EndTsMs     int64
	TZName      string
	TZOffsetMin int
	DurationSec int64
	MCCMNC      string
	IMSI        string
	IMEI        string
	CellID      string
	RecordType  string
	Cause       string

	SMSSegments int
	SMSStatus   string

	DataBytesIn     int64
	DataBytesOut    int64
	DataDurationSec int64
	APN             string
	RAT             string
}

// reset clears type-specific fields so a generator that doesn't populate
// them (e.g. CALL leaving SMS/DATA fields untouched) never leaks a prior
// event's values into the next one.
func (e *Event) reset() {
	*e = Event{}
}
