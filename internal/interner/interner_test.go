package interner

import (
	"bytes"
	"testing"
)

func TestInternDedup(t *testing.T) {
	i := New()
	a, err := i.InternString("hello")
	if err != nil {
		t.Fatalf("Intern(hello): %v", err)
	}
	b, err := i.InternString("hello")
	if err != nil {
		t.Fatalf("Intern(hello) again: %v", err)
	}
	if a != b {
		t.Fatalf("Intern(hello) twice produced different ids: %v != %v", a, b)
	}

	c, err := i.InternString("world")
	if err != nil {
		t.Fatalf("Intern(world): %v", err)
	}
	if c == a {
		t.Fatalf("distinct content got the same id")
	}
}

func TestGetRoundTrip(t *testing.T) {
	i := New()
	id, _ := i.InternString("payload")
	got, ok := i.Get(id)
	if !ok {
		t.Fatalf("Get(%v) not found", id)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("Get(%v) = %q, want %q", id, got, "payload")
	}
}

func TestFindNonInserting(t *testing.T) {
	i := New()
	if _, ok := i.Find([]byte("absent")); ok {
		t.Fatalf("Find found an entry that was never interned")
	}
	if i.Len() != 0 {
		t.Fatalf("Find must not insert; Len() = %d, want 0", i.Len())
	}
}

func TestStrictRejectsInvalidUTF8(t *testing.T) {
	i := New(Strict)
	_, err := i.Intern([]byte{0xff, 0xfe})
	if err != ErrNonCanonicalString {
		t.Fatalf("Intern(invalid utf8) = %v, want ErrNonCanonicalString", err)
	}
}

func TestInvalidIdGetFails(t *testing.T) {
	i := New()
	if _, ok := i.Get(9999); ok {
		t.Fatalf("Get on out-of-range id should fail")
	}
}
