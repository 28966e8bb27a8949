package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format renders a proposal code for the given internal sequence.
//
// The displayed number is startingValue + seq - 1, so an organization that
// starts counting at 1000 shows "1000" for its first proposal. Each token
// contributes prefix + parameter value + suffix; unknown parameters render
// as the empty string. An empty token list, or a token list whose output
// trims to nothing, falls back to the bare displayed number so the code is
// never empty.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic for a given (seq, startingValue, tokens, now)
func Format(seq, startingValue int64, tokens []Token, now time.Time) string {
	if startingValue <= 0 {
		startingValue = 1
	}
	display := startingValue + seq - 1

	if len(tokens) == 0 {
		return strconv.FormatInt(display, 10)
	}

	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Prefix)
		b.WriteString(resolve(t.Parameter, display, now))
		b.WriteString(t.Suffix)
	}

	code := strings.TrimSpace(b.String())
	if code == "" {
		return strconv.FormatInt(display, 10)
	}
	return code
}

func resolve(p Parameter, display int64, now time.Time) string {
	switch ParseParameter(string(p)) {
	case ParamDay:
		return fmt.Sprintf("%02d", now.Day())
	case ParamMonth:
		return fmt.Sprintf("%02d", int(now.Month()))
	case ParamYear:
		return strconv.Itoa(now.Year())
	case ParamTime:
		return now.Format("1504")
	case ParamNumber:
		return strconv.FormatInt(display, 10)
	default:
		return ""
	}
}
