package verify

// Report summarizes one verification pass over a data archive.
type Report struct {
	// Archive is the path that was inspected.
	Archive string `json:"archive"`
	// Suffix is the expected entry suffix, matched case-insensitively.
	Suffix string `json:"suffix"`
	// Entries holds every entry name in archive order.
	Entries []string `json:"entries"`
	Total   int      `json:"total"`
	// Mismatched counts entries whose name does not end in Suffix.
	Mismatched int      `json:"mismatched"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// Passed reports whether every entry carried the expected suffix.
func (r *Report) Passed() bool {
	return r.Mismatched == 0
}
