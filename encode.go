package confl

import (
	"strconv"
	"strings"
)

// Encode implements C6: convert a Value tree back into conformant text.
// It returns empty text for Null or Undefined, a single encoded scalar
// for any other non-container value, and the multi-line object/array
// encoding otherwise.
func Encode(v Value) string {
	switch v.Kind() {
	case KindNull, KindUndefined:
		return ""
	case KindObject:
		body := encodeObjectBody(v, "")
		if body == "" {
			return ""
		}
		return body + "\n"
	case KindArray:
		body := encodeArrayAsValue(v, "")
		if body == "" {
			return ""
		}
		return body + "\n"
	default:
		return encodeScalarToken(v, "") + "\n"
	}
}

// encodeObjectBody emits the lines of every (key, value) entry at indent,
// in insertion order, per spec §4.7.
func encodeObjectBody(v Value, indent string) string {
	if v.obj == nil || len(v.obj.entries) == 0 {
		return ""
	}
	var lines []string
	for _, e := range v.obj.entries {
		lines = append(lines, encodeEntry(e.key, e.value, indent)...)
	}
	return strings.Join(lines, "\n")
}

// encodeEntry renders one (key, value) pair, possibly as several physical
// lines (an object, a multi-line array, a block string, or a
// repeated-key block).
func encodeEntry(key string, value Value, indent string) []string {
	keyToken := encodeKey(key)

	switch value.Kind() {
	case KindArray:
		items := value.Items()
		switch {
		// A singleton array has no repeated occurrence for the decoder
		// to merge back into an array, so it must use the force-array
		// key prefix rather than the repeated-key-block form below
		// (which, for exactly one element, would decode back as a bare
		// value rather than an array of one).
		case len(items) == 1 && items[0].Kind() == KindObject:
			forceLine := indent + "[]" + keyToken
			lines := []string{forceLine}
			body := encodeObjectBody(items[0], indent+"  ")
			if body != "" {
				lines = append(lines, body)
			}
			return lines
		case len(items) == 1:
			return []string{indent + "[]" + keyToken + " " + encodeArrayItem(items[0], indent+"  ")}
		case len(items) > 1 && containsObject(items):
			// At least one element is an Object: the repeated-key-block
			// form is the only layout decode ever merges back into an
			// array (§4.4), and it merges whatever occupies each
			// occurrence — object or not — so every element gets its
			// own "key" line here, not just the object ones. A leading
			// Array element is wrapped so it is written with the "[]key"
			// prefix; otherwise decode would append later occurrences into
			// that array instead of alongside it.
			var lines []string
			for i, elem := range items {
				if i == 0 && elem.Kind() == KindArray {
					elem = Array([]Value{elem})
				}
				lines = append(lines, encodeEntry(key, elem, indent)...)
			}
			return lines
		default:
			return encodeArrayEntry(keyToken, items, indent)
		}

	case KindObject:
		line := indent + keyToken
		body := encodeObjectBody(value, indent+"  ")
		if body == "" {
			return []string{line}
		}
		return []string{line, body}

	case KindString:
		if strings.Contains(value.Str(), "\n") {
			return encodeBlockStringEntry(keyToken, value.Str(), indent)
		}
		return []string{indent + keyToken + " " + encodeInlineString(value.Str())}

	default:
		return []string{indent + keyToken + " " + encodeScalarToken(value, indent)}
	}
}

// encodeArrayEntry renders "key <array>", choosing inline layout when the
// array is short and plain, multi-line otherwise (spec §4.7).
func encodeArrayEntry(keyToken string, items []Value, indent string) []string {
	if isInlineCandidate(items) {
		return []string{indent + keyToken + " " + encodeInlineArrayBody(items)}
	}

	lines := []string{indent + keyToken + " ["}
	lines = append(lines, encodeMultilineArrayItems(items, indent+"  ")...)
	lines = append(lines, indent+"]")
	return lines
}

// encodeArrayAsValue renders a bare array value (used for Encode on a
// top-level Array; arrays nested inside arrays are always rendered inline
// by encodeInlineArrayBody instead).
func encodeArrayAsValue(v Value, indent string) string {
	items := v.Items()
	if isInlineCandidate(items) {
		return indent + encodeInlineArrayBody(items)
	}
	lines := []string{indent + "["}
	lines = append(lines, encodeMultilineArrayItems(items, indent+"  ")...)
	lines = append(lines, indent+"]")
	return strings.Join(lines, "\n")
}

// encodeMultilineArrayItems renders the item lines of a multi-line array
// (the part between "[" and "]"), shared by encodeArrayEntry (a keyed
// array) and encodeArrayAsValue (a bare one). An Object item has no
// enclosing key to repeat the way encodeEntry's array case does, so it
// falls back to encodeBareObjectItem instead.
func encodeMultilineArrayItems(items []Value, itemIndent string) []string {
	var lines []string
	for _, item := range items {
		switch {
		case item.Kind() == KindString && strings.Contains(item.Str(), "\n"):
			lines = append(lines, encodeBlockStringItem(item.Str(), itemIndent)...)
		case item.Kind() == KindObject:
			lines = append(lines, encodeBareObjectItem(item, itemIndent)...)
		default:
			lines = append(lines, itemIndent+encodeArrayItem(item, itemIndent))
		}
	}
	return lines
}

// encodeBareObjectItem renders an Object occupying an array slot that has
// no enclosing key — a top-level array-of-objects, or an object nested
// inside another array. confl has no anonymous object literal (an Object
// reaches an array slot on decode only through an import), so there is no key to
// repeat the way encodeEntry's array case does; this renders a "{"/"}"
// delimited block instead, purely so Marshal-produced trees like this
// don't lose data on encode. Decode does not understand "{" outside this
// position, so text produced here does not round-trip through Decode —
// unlike the keyed repeated-key-block form, which does.
func encodeBareObjectItem(v Value, indent string) []string {
	lines := []string{indent + "{"}
	body := encodeObjectBody(v, indent+"  ")
	if body != "" {
		lines = append(lines, body)
	}
	lines = append(lines, indent+"}")
	return lines
}

// encodeInlineObjectBody is encodeBareObjectItem's single-line counterpart,
// used when an object-containing array is rendered inline (nested inside
// another array that itself stayed inline).
func encodeInlineObjectBody(v Value) string {
	if v.obj == nil || len(v.obj.entries) == 0 {
		return "{}"
	}
	parts := make([]string, len(v.obj.entries))
	for i, e := range v.obj.entries {
		parts[i] = encodeKey(e.key) + " " + encodeInlineValue(e.value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// encodeInlineValue renders any Value for a single-line context (an inline
// array or inline object body), recursing into nested containers.
func encodeInlineValue(v Value) string {
	switch v.Kind() {
	case KindArray:
		return encodeInlineArrayBody(v.Items())
	case KindObject:
		return encodeInlineObjectBody(v)
	case KindString:
		return encodeInlineString(v.Str())
	default:
		return encodeScalarToken(v, "")
	}
}

// isInlineCandidate decides inline vs multi-line array layout. A
// multi-line array's item lines can only ever hold a scalar or (via
// """) a block string (spec §4.1's array-item dispatch has no case for
// a nested array or object item); an array containing a nested Array
// element must therefore stay inline no matter its length, or a
// round trip through the multi-line form would flatten that element
// to a plain string.
func isInlineCandidate(items []Value) bool {
	if len(items) == 0 {
		return true
	}
	hasArray := false
	hasMultilineString := false
	for _, item := range items {
		if item.Kind() == KindObject {
			return false
		}
		if item.Kind() == KindString && strings.Contains(item.Str(), "\n") {
			hasMultilineString = true
		}
		if item.Kind() == KindArray {
			hasArray = true
		}
	}
	if hasArray {
		return true
	}
	return !hasMultilineString && len(items) <= 3
}

// encodeArrayItem encodes a single array item that is not a multi-line
// block string: scalars quote-as-needed, nested arrays always render
// fully inline, since the wire format has no multi-line-array-within-
// multi-line-array notation.
func encodeArrayItem(v Value, indent string) string {
	if v.Kind() == KindArray {
		return encodeInlineArrayBody(v.Items())
	}
	if v.Kind() == KindObject {
		return encodeInlineObjectBody(v)
	}
	if v.Kind() == KindString {
		return encodeInlineString(v.Str())
	}
	return encodeScalarToken(v, indent)
}

// encodeInlineArrayBody renders items as a bracketed, comma-separated
// inline array body (C2's inverse).
func encodeInlineArrayBody(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = encodeInlineValue(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func containsObject(items []Value) bool {
	for _, item := range items {
		if item.Kind() == KindObject {
			return true
		}
	}
	return false
}

// encodeBlockStringEntry renders "key \"\"\"" followed by the indented
// body and closing terminator, for an object entry whose value is a
// multi-line string.
func encodeBlockStringEntry(keyToken, s string, indent string) []string {
	lines := []string{indent + keyToken + ` """`}
	bodyIndent := indent + "  "
	for _, l := range strings.Split(s, "\n") {
		lines = append(lines, bodyIndent+l)
	}
	lines = append(lines, indent+`"""`)
	return lines
}

// encodeBlockStringItem renders a multi-line array item as a block
// string: a '"""' line, the indented body, and the closing terminator,
// all at the array's item indent (mirroring C3 in reverse).
func encodeBlockStringItem(s string, indent string) []string {
	lines := []string{indent + `"""`}
	bodyIndent := indent + "  "
	for _, l := range strings.Split(s, "\n") {
		lines = append(lines, bodyIndent+l)
	}
	lines = append(lines, indent+`"""`)
	return lines
}

// encodeKey renders a key, quoting it if it doesn't match the bare key
// grammar [A-Za-z0-9_-]+ (this should not normally happen for
// decoder-produced trees, since the decoder never accepts such a key,
// but Marshal can be asked to emit arbitrary Go map keys).
func encodeKey(key string) string {
	if validKeyRegexp.MatchString(key) {
		return key
	}
	return quoteString(key)
}

// encodeInlineString encodes a string for a context that cannot use a
// block string (inline array bodies, nested-array items): newlines are
// escaped rather than triggering multi-line layout.
func encodeInlineString(s string) string {
	if needsQuote(s) || strings.Contains(s, "\n") {
		return quoteString(s)
	}
	return s
}

// needsQuote implements the quoting rules of spec §4.7.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, " \t") {
		return true
	}
	if s[0] >= '0' && s[0] <= '9' {
		return true
	}
	switch s {
	case "true", "false", "null", "undefined":
		return true
	}
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return true
	}
	return false
}

// quoteString double-quotes s, escaping '"', '\\', '\n', '\r', '\t'.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// encodeScalarToken encodes a non-string, non-container scalar, or a
// String whose caller has already established cannot use a block string
// at this position.
func encodeScalarToken(v Value, _ string) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		if v.BoolValue() {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindDate:
		return v.Time().UTC().Format("2006-01-02T15:04:05.000Z")
	case KindString:
		return encodeInlineString(v.Str())
	default:
		return ""
	}
}
