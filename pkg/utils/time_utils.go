package utils

import "time"

// FormatDisplayDate renders the date shown next to the wizard, e.g. "2025-09-24 (Wed)".
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 (Mon)")
}
