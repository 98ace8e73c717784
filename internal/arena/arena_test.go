package arena

import (
	"bytes"
	"testing"
)

func TestAppendAndBytes(t *testing.T) {
	a := New(0)
	s1 := a.Append([]byte("hello"))
	s2 := a.Append([]byte("world"))

	if !bytes.Equal(a.Bytes(s1), []byte("hello")) {
		t.Fatalf("s1 = %q, want %q", a.Bytes(s1), "hello")
	}
	if !bytes.Equal(a.Bytes(s2), []byte("world")) {
		t.Fatalf("s2 = %q, want %q", a.Bytes(s2), "world")
	}
	if a.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", a.Len())
	}
}

func TestSpanStableAcrossGrowth(t *testing.T) {
	a := New(1) // force repeated reallocation
	s1 := a.Append([]byte("a"))
	for i := 0; i < 1000; i++ {
		a.Append([]byte("x"))
	}
	if got := string(a.Bytes(s1)); got != "a" {
		t.Fatalf("s1 after growth = %q, want %q", got, "a")
	}
}

func TestReset(t *testing.T) {
	a := New(0)
	a.Append([]byte("data"))
	a.Reset()
	if a.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", a.Len())
	}
}
