package history

import (
	"fmt"

	"github.com/jihwankim/cdrgen/internal/population"
)

// ValidationError aggregates every subscriber-history rule violation found
// by Validate, mirroring internal/config's aggregate-errors shape.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("subscriber-history store invalid: %d error(s), first: %s", len(e.Errors), e.Errors[0])
}

// Validate checks a subscriber-history event log for internal consistency
// and returns a *ValidationError (with every violation collected) or nil.
//
// owner tracks which imsi currently holds each msisdn, so CHANGE_SIM,
// RELEASE_NUMBER, and ASSIGN_NUMBER can be checked against the identity
// that actually holds the number at that point in the log, not just
// whether the number looks assigned.
func Validate(events []Event) error {
	var errs []string

	owner := make(map[string]string)   // msisdn -> currently owning imsi
	knownIMSI := make(map[string]bool) // imsi ever created, or taken over via CHANGE_SIM
	var lastTs int64
	haveLast := false

	for n, e := range events {
		if haveLast && e.TimestampMs < lastTs {
			errs = append(errs, fmt.Sprintf("event %d: timestamp %d is out of order (previous %d)", n, e.TimestampMs, lastTs))
		}
		lastTs = e.TimestampMs
		haveLast = true

		if !validIMSI(e.IMSI) {
			errs = append(errs, fmt.Sprintf("event %d: imsi %q is not 14-15 digits", n, e.IMSI))
		}
		if !validMSISDN(e.MSISDN) {
			errs = append(errs, fmt.Sprintf("event %d: msisdn %q is not 8-15 digits", n, e.MSISDN))
		}
		if e.Kind != ReleaseNumber && !validIMEI(e.IMEI) {
			errs = append(errs, fmt.Sprintf("event %d: imei %q is not a valid 15-digit Luhn number", n, e.IMEI))
		}

		switch e.Kind {
		case NewSubscriber:
			if _, active := owner[e.MSISDN]; active {
				errs = append(errs, fmt.Sprintf("event %d: msisdn %q already active at NEW_SUBSCRIBER", n, e.MSISDN))
			}
			owner[e.MSISDN] = e.IMSI
			knownIMSI[e.IMSI] = true

		case ChangeDevice:
			if cur, ok := owner[e.MSISDN]; !ok || cur != e.IMSI {
				errs = append(errs, fmt.Sprintf("event %d: CHANGE_DEVICE msisdn %q is not currently owned by imsi %q", n, e.MSISDN, e.IMSI))
			}

		case ChangeSim:
			prevImsi, ok := owner[e.MSISDN]
			if !ok {
				errs = append(errs, fmt.Sprintf("event %d: CHANGE_SIM references msisdn %q with no active assignment", n, e.MSISDN))
			} else if !knownIMSI[prevImsi] {
				errs = append(errs, fmt.Sprintf("event %d: CHANGE_SIM msisdn %q previously held by unknown imsi %q", n, e.MSISDN, prevImsi))
			}
			// the new imsi takes over the msisdn; the outgoing imsi no longer
			// owns it, so any later event referencing the old imsi against
			// this msisdn will fail the ownership check above.
			owner[e.MSISDN] = e.IMSI
			knownIMSI[e.IMSI] = true

		case ReleaseNumber:
			if cur, ok := owner[e.MSISDN]; !ok || cur != e.IMSI {
				errs = append(errs, fmt.Sprintf("event %d: RELEASE_NUMBER msisdn %q is not currently owned by imsi %q", n, e.MSISDN, e.IMSI))
			}
			delete(owner, e.MSISDN)

		case AssignNumber:
			if !knownIMSI[e.IMSI] {
				errs = append(errs, fmt.Sprintf("event %d: ASSIGN_NUMBER references unknown imsi %q", n, e.IMSI))
			}
			if _, active := owner[e.MSISDN]; active {
				errs = append(errs, fmt.Sprintf("event %d: msisdn %q already active at ASSIGN_NUMBER", n, e.MSISDN))
			}
			owner[e.MSISDN] = e.IMSI

		default:
			errs = append(errs, fmt.Sprintf("event %d: unknown kind %q", n, e.Kind))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func validIMSI(s string) bool {
	return len(s) >= 14 && len(s) <= 15 && allDigits(s)
}

func validMSISDN(s string) bool {
	return len(s) >= 8 && len(s) <= 15 && allDigits(s)
}

func validIMEI(s string) bool {
	return len(s) == 15 && allDigits(s) && population.LuhnValid(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
