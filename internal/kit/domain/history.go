package domain

import "time"

// FindStatusDate returns the timestamp of the first entry in history whose
// status equals status. The second result is false when no entry matches,
// which means the event has not happened, not that it happened at time zero.
func FindStatusDate(history []HistoryEntry, status string) (time.Time, bool) {
	for _, entry := range history {
		if entry.Status == status {
			return entry.Datetime, true
		}
	}
	return time.Time{}, false
}

// statusDate is FindStatusDate shaped for StageInfo.Date.
func statusDate(history []HistoryEntry, status string) *time.Time {
	t, ok := FindStatusDate(history, status)
	if !ok {
		return nil
	}
	return &t
}

// latestHistoryTime returns the most recent timestamp in history.
func latestHistoryTime(history []HistoryEntry) (time.Time, bool) {
	if len(history) == 0 {
		return time.Time{}, false
	}
	latest := history[0].Datetime
	for _, entry := range history[1:] {
		if entry.Datetime.After(latest) {
			latest = entry.Datetime
		}
	}
	return latest, true
}
