package braid

import "testing"

func TestTableStackShadowing(t *testing.T) {
	ts := NewTableStack(map[string]any{"a": 1, "b": 2})
	ts2 := ts.Push(map[string]any{"b": 3})

	v, ok := ts2.Get("a")
	if !ok || v != 1 {
		t.Fatalf("a = %v, %v; want 1, true", v, ok)
	}
	v, ok = ts2.Get("b")
	if !ok || v != 3 {
		t.Fatalf("b = %v, %v; want 3 (top frame shadows), true", v, ok)
	}
}

func TestTableStackCloneSharesFrames(t *testing.T) {
	ts := NewTableStack(map[string]any{"a": 1})
	clone := ts.Clone()
	clone.Set("a", 2)

	v, _ := ts.Get("a")
	if v != 2 {
		t.Fatalf("a = %v; want 2 (clone shares frame references)", v)
	}
}

func TestTableStackPushIsolatesWrites(t *testing.T) {
	ts := NewTableStack(map[string]any{"a": 1})
	pushed := ts.Push(map[string]any{"c": 3})
	pushed.Set("a", 99)

	v, _ := ts.Get("a")
	if v != 1 {
		t.Fatalf("a = %v; want 1 (Push's new frame owns writes, not shared ancestor)", v)
	}
}

func TestTableStackContainsFalsyQuirk(t *testing.T) {
	ts := NewTableStack(map[string]any{"zero": 0, "empty": "", "set": 1})
	if ts.Contains("zero") {
		t.Error("Contains(\"zero\") = true; want false (preserves source's falsy-but-present quirk)")
	}
	if ts.Contains("empty") {
		t.Error("Contains(\"empty\") = true; want false")
	}
	if !ts.Contains("set") {
		t.Error("Contains(\"set\") = false; want true")
	}
	if !ts.Has("zero") {
		t.Error("Has(\"zero\") = false; want true (pure presence)")
	}
}

func TestTableStackFlatTopPrecedence(t *testing.T) {
	ts := NewTableStack(map[string]any{"a": 1, "b": 2})
	ts = ts.Push(map[string]any{"b": 3, "c": 4})

	flat := ts.Flat()
	if flat["a"] != 1 || flat["b"] != 3 || flat["c"] != 4 {
		t.Fatalf("Flat() = %v; want a=1 b=3 c=4", flat)
	}
}
