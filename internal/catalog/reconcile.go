package catalog

// Reconcile partitions a loaded catalogue against the current source
// enumeration. An entry is kept iff its identity is present in source and is
// not a legacy identity; legacy entries are always dropped so they get
// re-ingested under the current identity scheme.
//
// Reconcile is pure: it mutates neither input.
func Reconcile(entries []Entry, source map[string]struct{}, legacy func(id string) bool) (keep, drop []Entry) {
	for _, e := range entries {
		if legacy != nil && legacy(e.ID) {
			drop = append(drop, e)
			continue
		}
		if _, ok := source[e.ID]; ok {
			keep = append(keep, e)
		} else {
			drop = append(drop, e)
		}
	}
	return keep, drop
}
