package confl_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/confl-dev/confl"
)

func mustDecode(t *testing.T, text string) confl.Value {
	t.Helper()
	v, err := confl.Decode(text, confl.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode(%q): %v", text, err)
	}
	return v
}

func TestDecodeBasicScalars(t *testing.T) {
	got := mustDecode(t, "name \"John\"\nage 30\nactive true\n")
	want := confl.Object().
		Set("name", confl.String("John")).
		Set("age", confl.Number(30)).
		Set("active", confl.Bool(true))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNestedAndBlockString(t *testing.T) {
	input := "user\n  name \"John\"\n  bio \"\"\"\n    Line 1\n    Line 2\n  \"\"\"\n"
	got := mustDecode(t, input)
	want := confl.Object().Set("user", confl.Object().
		Set("name", confl.String("John")).
		Set("bio", confl.String("Line 1\nLine 2")))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRepeatedKeysMerge(t *testing.T) {
	got := mustDecode(t, "item \"first\"\nitem \"second\"\nitem \"third\"\n")
	want := confl.Object().Set("item", confl.Array([]confl.Value{
		confl.String("first"), confl.String("second"), confl.String("third"),
	}))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeForcedSingletonArray(t *testing.T) {
	got := mustDecode(t, "[]items \"only\"\n")
	want := confl.Object().Set("items", confl.Array([]confl.Value{confl.String("only")}))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMultilineArrayWithBlockString(t *testing.T) {
	input := strings.Join([]string{
		`messages [`,
		`  "short"`,
		`  """`,
		`    longer`,
		`    text`,
		`  """`,
		`  "tail"`,
		`]`,
		``,
	}, "\n")
	got := mustDecode(t, input)
	want := confl.Object().Set("messages", confl.Array([]confl.Value{
		confl.String("short"), confl.String("longer\ntext"), confl.String("tail"),
	}))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalidKeyReportsPosition(t *testing.T) {
	_, err := confl.Decode("\nvalid \"ok\"\nbad@key \"x\"\n", confl.DecodeOptions{})
	if err == nil {
		t.Fatalf("expected an error")
	}
	de, ok := err.(*confl.DecodeError)
	if !ok {
		t.Fatalf("expected *confl.DecodeError, got %T", err)
	}
	if de.Kind != confl.InvalidKey {
		t.Errorf("Kind = %v, want InvalidKey", de.Kind)
	}
	if de.LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", de.LineNumber)
	}
	if !strings.Contains(de.LineContent, "bad@key") {
		t.Errorf("LineContent = %q, want it to contain %q", de.LineContent, "bad@key")
	}
}

func TestDecodeEmptyInputYieldsEmptyObject(t *testing.T) {
	got := mustDecode(t, "")
	if got.Kind() != confl.KindObject || got.Len() != 0 {
		t.Fatalf("got %#v, want empty object", got)
	}
}

func TestDecodeBlankAndCommentLinesDoNotAffectNesting(t *testing.T) {
	input := "a\n  # a comment\n\n  b 1\n"
	got := mustDecode(t, input)
	want := confl.Object().Set("a", confl.Object().Set("b", confl.Number(1)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyArrayVariants(t *testing.T) {
	for _, input := range []string{"items []\n", "items [ ]\n", "items [\n]\n"} {
		got := mustDecode(t, input)
		want := confl.Object().Set("items", confl.Array(nil))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("input %q: mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestDecodeBlockStringTerminatorInsideBody(t *testing.T) {
	input := "note \"\"\"\n  before\n    \"\"\"\n  after\n\"\"\"\n"
	got := mustDecode(t, input)
	v, ok := got.Get("note")
	if !ok || v.Kind() != confl.KindString {
		t.Fatalf("got %#v, want a string note", got)
	}
	want := "before\n  \"\"\"\nafter"
	if v.Str() != want {
		t.Fatalf("note = %q, want %q", v.Str(), want)
	}
}

func TestDecodeNumbers(t *testing.T) {
	input := "a +5\nb -3.5\nc 1e10\nd -2.5E-3\n"
	got := mustDecode(t, input)
	want := confl.Object().
		Set("a", confl.Number(5)).
		Set("b", confl.Number(-3.5)).
		Set("c", confl.Number(1e10)).
		Set("d", confl.Number(-2.5e-3))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalidDateFallsBackToString(t *testing.T) {
	got := mustDecode(t, "d 2024-13-99\n")
	v, ok := got.Get("d")
	if !ok || v.Kind() != confl.KindString || v.Str() != "2024-13-99" {
		t.Fatalf("got %#v, want plain string 2024-13-99", v)
	}
}

func TestDecodeValidDate(t *testing.T) {
	got := mustDecode(t, "when 2024-01-02T03:04:05Z\n")
	v, ok := got.Get("when")
	if !ok || v.Kind() != confl.KindDate {
		t.Fatalf("got %#v, want a date", v)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !v.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", v.Time(), want)
	}
}

func TestDecodeInlineArrayNestedAndQuoted(t *testing.T) {
	got := mustDecode(t, `row [1, "two, three", [4, 5], null]` + "\n")
	want := confl.Object().Set("row", confl.Array([]confl.Value{
		confl.Number(1),
		confl.String("two, three"),
		confl.Array([]confl.Value{confl.Number(4), confl.Number(5)}),
		confl.Null(),
	}))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeInlineArrayUnclosedString(t *testing.T) {
	_, err := confl.Decode("row [1, \"oops]\n", confl.DecodeOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	de := err.(*confl.DecodeError)
	if de.Kind != confl.UnclosedArray && de.Kind != confl.UnclosedString {
		t.Errorf("Kind = %v, want UnclosedArray or UnclosedString", de.Kind)
	}
}

func TestDecodeUnclosedMultilineArray(t *testing.T) {
	_, err := confl.Decode("row [\n  1\n  2\n", confl.DecodeOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	de := err.(*confl.DecodeError)
	if de.Kind != confl.UnclosedArray {
		t.Errorf("Kind = %v, want UnclosedArray", de.Kind)
	}
}

func TestDecodeUndefinedAndNull(t *testing.T) {
	got := mustDecode(t, "a null\nb undefined\n")
	if v, _ := got.Get("a"); !v.IsNull() {
		t.Errorf("a should be Null, got %#v", v)
	}
	if v, _ := got.Get("b"); !v.IsUndefined() {
		t.Errorf("b should be Undefined, got %#v", v)
	}
}

func TestDecodeQuotedStringEscapes(t *testing.T) {
	got := mustDecode(t, `s "a\nb\tc\"d\\e"` + "\n")
	v, _ := got.Get("s")
	want := "a\nb\tc\"d\\e"
	if v.Str() != want {
		t.Errorf("got %q, want %q", v.Str(), want)
	}
}

func TestDecodeEmptyObjectValue(t *testing.T) {
	got := mustDecode(t, "section\n")
	v, ok := got.Get("section")
	if !ok || v.Kind() != confl.KindObject || v.Len() != 0 {
		t.Fatalf("got %#v, want an empty object", v)
	}
}

func TestDecodeDedentOfMultipleLevels(t *testing.T) {
	input := "a\n  b\n    c 1\nd 2\n"
	got := mustDecode(t, input)
	want := confl.Object().
		Set("a", confl.Object().Set("b", confl.Object().Set("c", confl.Number(1)))).
		Set("d", confl.Number(2))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
