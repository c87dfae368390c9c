package confl

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numberRegexp matches the grammar of spec §4.2: an optional sign, digits,
// an optional fractional part, and an optional exponent.
var numberRegexp = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// dateRegexp matches spec §3's date grammar: YYYY-MM-DD optionally followed
// by a time-of-day and an optional zone offset.
var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?)?$`)

// dateLayouts covers every combination the grammar of spec §3/§4.2
// allows: 'T' or ' ' as the date/time separator, optional seconds and
// fractional seconds, and an optional zone (Z, numeric offset, or none).
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(t string) (time.Time, bool) {
	if len(t) < 10 || t[0] < '0' || t[0] > '9' {
		return time.Time{}, false
	}
	if len(t) < 8 || t[4] != '-' || t[7] != '-' {
		return time.Time{}, false
	}
	if !dateRegexp.MatchString(t) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// classify implements C1: classify an already-trimmed scalar token.
// Imports (tokens beginning with '@') are reported via isImport so the
// caller (C4) can dispatch to the import resolver (C5) with access to the
// current decode context; classify itself never reads files.
func classify(t string) (Value, bool, string) {
	switch t {
	case "null":
		return Null(), false, ""
	case "undefined":
		return Undefined(), false, ""
	case "true":
		return Bool(true), false, ""
	case "false":
		return Bool(false), false, ""
	}

	if strings.HasPrefix(t, "@") {
		return Value{}, true, t
	}

	if len(t) > 0 && (t[0] == '-' || t[0] == '+' || (t[0] >= '0' && t[0] <= '9')) {
		if numberRegexp.MatchString(t) {
			if n, err := strconv.ParseFloat(t, 64); err == nil {
				return Number(n), false, ""
			}
		}
	}

	if len(t) >= 10 && t[0] >= '0' && t[0] <= '9' {
		if ts, ok := parseDate(t); ok {
			return Date(ts), false, ""
		}
	}

	if len(t) >= 2 && ((t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'')) {
		return String(unquote(t[1:len(t)-1], t[0])), false, ""
	}

	return String(t), false, ""
}

// unquote decodes the escape sequences of spec §4.2: \n \r \t \" \' \\,
// and any other \x decodes to x literally.
func unquote(body string, quote byte) string {
	if !strings.Contains(body, "\\") {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"', '\'', '\\':
			b.WriteByte(body[i])
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
