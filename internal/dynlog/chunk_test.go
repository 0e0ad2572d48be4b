package dynlog

import (
	"errors"
	"reflect"
	"testing"
)

func TestChunk_PushPopIsStack(t *testing.T) {
	c := NewChunk("c1")
	c.PushLine("a")
	c.PushLines("b", "c")
	before := c.Lines()

	c.PushLine("d")
	got, ok := c.PopLine()
	if !ok || got != "d" {
		t.Fatalf("PopLine() = %q, %v; want \"d\", true", got, ok)
	}
	if !reflect.DeepEqual(c.Lines(), before) {
		t.Fatalf("push then pop changed lines: got %v, want %v", c.Lines(), before)
	}
	if c.ID() != "c1" {
		t.Fatalf("ID() = %q, want c1", c.ID())
	}
}

func TestChunk_PushLinesMatchesRepeatedPushLine(t *testing.T) {
	lines := []string{"x", "", "x", "y"}
	a := NewChunk("")
	a.PushLines(lines...)
	b := NewChunk("")
	for _, l := range lines {
		b.PushLine(l)
	}
	if !reflect.DeepEqual(a.Lines(), b.Lines()) {
		t.Fatalf("PushLines = %v, repeated PushLine = %v", a.Lines(), b.Lines())
	}
	if a.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (duplicates allowed)", a.Len())
	}
}

func TestChunk_PopLineOnEmpty(t *testing.T) {
	c := NewChunk("empty")
	if line, ok := c.PopLine(); ok || line != "" {
		t.Fatalf("PopLine() on empty = %q, %v; want \"\", false", line, ok)
	}
}

func TestChunk_ClearLinesKeepsID(t *testing.T) {
	c := NewChunk("keep")
	c.PushLines("a", "b")
	c.ClearLines()
	if c.Len() != 0 {
		t.Fatalf("Len() after ClearLines = %d", c.Len())
	}
	if c.ID() != "keep" {
		t.Fatalf("ID() after ClearLines = %q", c.ID())
	}
	c.PushLine("again")
	if got := c.Lines(); !reflect.DeepEqual(got, []string{"again"}) {
		t.Fatalf("Lines() = %v", got)
	}
}

func TestChunk_SetLine(t *testing.T) {
	c := NewChunk("c")
	c.PushLines("a", "b", "c")

	if err := c.SetLine(1, "B"); err != nil {
		t.Fatalf("SetLine(1): %v", err)
	}
	if got := c.Lines(); !reflect.DeepEqual(got, []string{"a", "B", "c"}) {
		t.Fatalf("Lines() = %v", got)
	}

	for _, idx := range []int{-1, 3, 100} {
		if err := c.SetLine(idx, "z"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("SetLine(%d) err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if got := c.Lines(); !reflect.DeepEqual(got, []string{"a", "B", "c"}) {
		t.Fatalf("failed SetLine mutated chunk: %v", got)
	}
}

func TestChunk_LinesReturnsCopy(t *testing.T) {
	c := NewChunk("c")
	c.PushLine("a")
	lines := c.Lines()
	lines[0] = "mutated"
	if got, _ := c.Line(0); got != "a" {
		t.Fatalf("Line(0) = %q, caller mutation leaked into chunk", got)
	}
	if _, err := c.Line(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Line(1) err = %v, want ErrIndexOutOfRange", err)
	}
}
