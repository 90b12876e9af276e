package model

// The issues table stores a four-state vocabulary while citizens and
// authorities see a slightly different one. Both tables are kept here as the
// single source of truth; nothing else in the codebase may redefine them.

var statusToExternal = map[string]string{
	string(StatusOpen):       "pending",
	string(StatusInProgress): "in-progress",
	string(StatusResolved):   "resolved",
	string(StatusClosed):     "closed",
}

var statusToInternal = map[string]string{
	"pending":     string(StatusOpen),
	"in-progress": string(StatusInProgress),
	"resolved":    string(StatusResolved),
	"closed":      string(StatusClosed),
}

// ToExternalStatus maps a storage status to the citizen-facing label.
// Unrecognized values pass through unchanged.
func ToExternalStatus(status string) string {
	if mapped, ok := statusToExternal[status]; ok {
		return mapped
	}
	return status
}

// ToInternalStatus maps a citizen-facing label back to the storage status.
// Unrecognized values pass through unchanged.
func ToInternalStatus(status string) string {
	if mapped, ok := statusToInternal[status]; ok {
		return mapped
	}
	return status
}
