package confl_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/confl-dev/confl"
)

func TestToPlainConvertsDates(t *testing.T) {
	in := confl.Object().
		Set("when", confl.Date(time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC))).
		Set("name", confl.String("John"))
	got := confl.ToPlain(in)

	when, _ := got.Get("when")
	if when.Kind() != confl.KindString || when.Str() != "2024-06-15T10:30:00.000Z" {
		t.Errorf("when = %#v", when)
	}
	name, _ := got.Get("name")
	if name.Str() != "John" {
		t.Errorf("name = %#v", name)
	}
}

func TestToPlainRecursesIntoArraysAndObjects(t *testing.T) {
	in := confl.Object().Set("items", confl.Array([]confl.Value{
		confl.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		confl.Object().Set("at", confl.Date(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))),
	}))
	got := confl.ToPlain(in)

	items, _ := got.Get("items")
	if items.Items()[0].Kind() != confl.KindString {
		t.Errorf("items[0] = %#v, want string", items.Items()[0])
	}
	nested := items.Items()[1]
	at, _ := nested.Get("at")
	if at.Kind() != confl.KindString {
		t.Errorf("at = %#v, want string", at)
	}
}

func TestToPlainLeavesNonDatesUnchanged(t *testing.T) {
	in := confl.Object().
		Set("a", confl.Number(1)).
		Set("b", confl.Bool(true)).
		Set("c", confl.Null())
	got := confl.ToPlain(in)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestToPlainDoesNotMutateInput(t *testing.T) {
	in := confl.Object().Set("items", confl.Array([]confl.Value{confl.Number(1)}))
	_ = confl.ToPlain(in)
	items, _ := in.Get("items")
	if items.Items()[0].Float() != 1 {
		t.Errorf("input was mutated: %#v", items)
	}
}
