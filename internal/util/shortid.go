package util

import "strings"

// shortIDLen is the number of leading hex characters kept by ShortID
const shortIDLen = 8

// ShortID trims a UUID string to its first block for compact display.
// Strings that do not look like a UUID are returned unchanged.
func ShortID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx == shortIDLen {
		return id[:idx]
	}
	return id
}
