package document

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Number normalizes a provider value to a float64. Numbers pass through,
// strings go through ParseNumber, everything else (null, bool, object, list)
// is 0.
func Number(v gjson.Result) float64 {
	f, _ := LookupNumber(v)
	return f
}

// LookupNumber is Number with an ok flag that is false when the value could
// not be interpreted as a number.
func LookupNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0, false
		}
		return v.Num, true
	case gjson.String:
		return ParseNumber(v.Str)
	default:
		return 0, false
	}
}

// ParseNumber parses numeric strings as the provider formats them:
// "57%" is 57, "12 (4 on target)" is 12 (the token before the qualifier).
// Unparsable input yields (0, false).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
		if j := strings.IndexByte(s, ' '); j >= 0 {
			s = s[:j]
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseMinute parses a match-clock minute such as "62", "62'" or "90+2'".
// Stoppage time is discarded: "45+3'" is 45. Negative or unparsable minutes
// return ok=false so callers can skip the sample.
func ParseMinute(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "'’")
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FormatMinute renders a base minute and optional stoppage offset in the
// provider's "90+2" form.
func FormatMinute(base, added int) string {
	if added > 0 {
		return strconv.Itoa(base) + "+" + strconv.Itoa(added)
	}
	return strconv.Itoa(base)
}
