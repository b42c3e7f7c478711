package giveaway

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(
	`^\s*(?:(\d+)\s*d)?\s*(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?\s*(?:(\d+)\s*s)?\s*$`,
)

// Seconds per d, h, m, s component.
var durationUnits = [...]int64{24 * 60 * 60, 60 * 60, 60, 1}

// maxSeconds is the longest whole-second span a time.Duration can hold.
const maxSeconds = int64(math.MaxInt64 / time.Second)

// ParseDuration converts a human entered duration such as "1h30m", "45m", "2d" or a bare
// number of seconds ("3600") into a whole-second duration. Components must appear in
// d, h, m, s order. It reports false for empty, malformed or non-positive input and for
// totals too large for a time.Duration.
func ParseDuration(text string) (time.Duration, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}

	if isDigits(text) {
		seconds, err := strconv.ParseInt(text, 10, 64)
		if err != nil || seconds <= 0 || seconds > maxSeconds {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	var total int64
	for i, part := range match[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n > (maxSeconds-total)/durationUnits[i] {
			return 0, false
		}
		total += n * durationUnits[i]
	}

	if total <= 0 {
		return 0, false
	}
	return time.Duration(total) * time.Second, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
