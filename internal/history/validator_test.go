package history

import (
	"strings"
	"testing"
)

const validIMEI = "490154203237518"

func validEvent(ts int64, kind Kind, imsi, msisdn string) Event {
	return Event{TimestampMs: ts, Kind: kind, IMSI: imsi, MSISDN: msisdn, IMEI: validIMEI, MCCMNC: "20404"}
}

func TestValidateAcceptsWellFormedLifecycle(t *testing.T) {
	events := []Event{
		validEvent(1000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(2000, ChangeDevice, "204041234567890", "31612345678"),
		validEvent(3000, ChangeSim, "204049876543210", "31612345678"),
		validEvent(4000, ReleaseNumber, "204049876543210", "31612345678"),
		validEvent(5000, AssignNumber, "204049876543210", "31698765432"),
	}
	if err := Validate(events); err != nil {
		t.Fatalf("expected well-formed lifecycle to validate, got: %v", err)
	}
}

func TestValidateRejectsOutOfOrderTimestamps(t *testing.T) {
	events := []Event{
		validEvent(2000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(1000, ChangeDevice, "204041234567890", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for out-of-order timestamps")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "out of order") {
		t.Fatalf("expected an out-of-order error, got: %v", err)
	}
}

func TestValidateRejectsOverlappingMSISDNAssignment(t *testing.T) {
	events := []Event{
		validEvent(1000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(2000, NewSubscriber, "204049876543210", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for overlapping msisdn assignment")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "already active") {
		t.Fatalf("expected an already-active error, got: %v", err)
	}
}

func TestValidateRejectsBadLuhnIMEI(t *testing.T) {
	events := []Event{
		{TimestampMs: 1000, Kind: NewSubscriber, IMSI: "204041234567890", MSISDN: "31612345678", IMEI: "490154203237519", MCCMNC: "20404"},
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for a bad Luhn check digit")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "Luhn") {
		t.Fatalf("expected a Luhn error, got: %v", err)
	}
}

func TestValidateRejectsChangeSimOnNeverAssignedMSISDN(t *testing.T) {
	events := []Event{
		validEvent(1000, ChangeSim, "204049876543210", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for CHANGE_SIM on an unassigned msisdn")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "no active assignment") {
		t.Fatalf("expected a no-active-assignment error, got: %v", err)
	}
}

func TestValidateRejectsChangeSimAfterRelease(t *testing.T) {
	events := []Event{
		validEvent(1000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(2000, ReleaseNumber, "204041234567890", "31612345678"),
		validEvent(3000, ChangeSim, "204049876543210", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for CHANGE_SIM on a released msisdn")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "no active assignment") {
		t.Fatalf("expected a no-active-assignment error, got: %v", err)
	}
}

func TestValidateRejectsChangeDeviceOnUnknownIdentity(t *testing.T) {
	events := []Event{
		validEvent(1000, ChangeDevice, "204041234567890", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for CHANGE_DEVICE on an unknown identity")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "not currently owned") {
		t.Fatalf("expected a not-currently-owned error, got: %v", err)
	}
}

func TestValidateRejectsChangeDeviceAfterSimSwap(t *testing.T) {
	// Once CHANGE_SIM hands the msisdn to a new imsi, the old imsi can no
	// longer CHANGE_DEVICE against it.
	events := []Event{
		validEvent(1000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(2000, ChangeSim, "204049876543210", "31612345678"),
		validEvent(3000, ChangeDevice, "204041234567890", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for CHANGE_DEVICE from the superseded imsi")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "not currently owned") {
		t.Fatalf("expected a not-currently-owned error, got: %v", err)
	}
}

func TestValidateRejectsAssignNumberOnUnknownIMSI(t *testing.T) {
	events := []Event{
		validEvent(1000, AssignNumber, "204041234567890", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for ASSIGN_NUMBER referencing an unknown imsi")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "unknown imsi") {
		t.Fatalf("expected an unknown-imsi error, got: %v", err)
	}
}

func TestValidateRejectsReleaseNumberOnInactiveMSISDN(t *testing.T) {
	events := []Event{
		validEvent(1000, NewSubscriber, "204041234567890", "31612345678"),
		validEvent(2000, ReleaseNumber, "204041234567890", "31612345678"),
		validEvent(3000, ReleaseNumber, "204041234567890", "31612345678"),
	}
	err := Validate(events)
	if err == nil {
		t.Fatal("expected validation error for a double RELEASE_NUMBER")
	}
	if !containsSubstr(err.(*ValidationError).Errors, "not currently owned") {
		t.Fatalf("expected a not-currently-owned error, got: %v", err)
	}
}

func containsSubstr(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
