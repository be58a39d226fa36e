package history

// KeyIMSIs returns the imsi of each NEW_SUBSCRIBER event in events, in
// file order, deduplicated to first occurrence. It gives the worker
// orchestrator a stable subscriber-index -> imsi mapping: bootstrap
// subscriber i's identity is looked up in the Store under
// KeyIMSIs(events)[i] instead of its own transient bootstrap imsi.
func KeyIMSIs(events []Event) []string {
	seen := make(map[string]bool, len(events))
	keys := make([]string, 0, len(events))
	for _, e := range events {
		if e.Kind != NewSubscriber {
			continue
		}
		if seen[e.IMSI] {
			continue
		}
		seen[e.IMSI] = true
		keys = append(keys, e.IMSI)
	}
	return keys
}
