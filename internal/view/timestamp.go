package view

import "strings"

// FormatTimestamp turns an ISO-8601 timestamp into "<date> | <time>", with
// sub-second precision and any zone suffix dropped. Input without a date/time
// separator is returned unchanged.
func FormatTimestamp(raw string) string {
	sep := strings.IndexAny(raw, "T ")
	if sep < 0 {
		return raw
	}
	date, clock := raw[:sep], strings.TrimSpace(raw[sep+1:])

	if i := strings.IndexAny(clock, "Z+-"); i >= 0 {
		clock = clock[:i]
	}
	if i := strings.IndexByte(clock, '.'); i >= 0 {
		clock = clock[:i]
	}
	return date + " | " + clock
}
