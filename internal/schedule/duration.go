package schedule

import (
	"strconv"
	"strings"
	"unicode"
)

// DurationMinutes parses a human-entered treatment duration label into
// minutes. The grammar is an optional "<N> hour(s)" clause followed by
// an optional "<N> minute(s)" clause; a bare number is taken as
// minutes. Ranges keep their lower bound ("20-30 minutes" is 20), and
// labels with no parseable number ("Varies") come out as 0.
func DurationMinutes(label string) int {
	fields := strings.Fields(strings.ToLower(label))

	total := 0
	sawNumber := false
	pending := -1
	for _, f := range fields {
		if n, ok := leadingInt(f); ok {
			pending = n
			sawNumber = true
			continue
		}
		if pending < 0 {
			continue
		}
		switch {
		case strings.HasPrefix(f, "hour"):
			total += pending * 60
			pending = -1
		case strings.HasPrefix(f, "min"):
			total += pending
			pending = -1
		}
	}
	// A trailing bare number with no unit is minutes.
	if pending >= 0 {
		total += pending
	}
	if !sawNumber {
		return 0
	}
	return total
}

// leadingInt extracts the integer prefix of a token, so "20-30" yields
// 20 and "1,5" yields 1.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
