package domain

import (
	"regexp"
	"sort"
	"time"
)

// FindLatestKit picks the most recently active kit. An empty profileID
// disables the profile filter and a nil definitions slice disables the
// definition filter; the definition is taken from the DNA main-test rule.
// Recency is the newest kit history timestamp. On a tie the kit listed first
// wins.
func FindLatestKit(kits []Kit, profileID string, definitions []TestDefinition) (Kit, bool) {
	var (
		latest     Kit
		latestTime time.Time
		found      bool
	)
	for _, k := range kits {
		if profileID != "" && k.Profile != profileID {
			continue
		}
		if definitions != nil {
			def, ok := mainTestDefinition(k.Tests, true)
			if !ok || !definitionIn(def, definitions...) {
				continue
			}
		}

		t, _ := latestHistoryTime(k.History)
		if !found || t.After(latestTime) {
			latest, latestTime, found = k, t, true
		}
	}
	return latest, found
}

// SortHistoryDesc orders history newest first without touching the input.
func SortHistoryDesc(history []HistoryEntry) []HistoryEntry {
	sorted := make([]HistoryEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime.After(sorted[j].Datetime)
	})
	return sorted
}

var barcodePattern = regexp.MustCompile(`^[A-Za-z0-9]{8,20}$`)

// IsValidBarcode reports whether barcode has the printed kit barcode format.
func IsValidBarcode(barcode string) bool {
	return barcodePattern.MatchString(barcode)
}
