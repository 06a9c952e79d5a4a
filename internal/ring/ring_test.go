package ring

import "testing"

func TestWriteReadFIFOOrder(t *testing.T) {
	b := New[int](4)
	for i := 0; i < 4; i++ {
		if !b.Write(i) {
			t.Fatalf("write %d: unexpected full", i)
		}
	}
	if !b.Full() {
		t.Fatalf("expected full after 4 writes into capacity-4 buffer")
	}
	if b.Write(99) {
		t.Fatalf("expected write to fail when full")
	}
	for i := 0; i < 4; i++ {
		v, ok := b.Read()
		if !ok {
			t.Fatalf("read %d: unexpected empty", i)
		}
		if v != i {
			t.Fatalf("read %d: got %d, want %d", i, v, i)
		}
	}
	if !b.Empty() {
		t.Fatalf("expected empty after draining all writes")
	}
	if _, ok := b.Read(); ok {
		t.Fatalf("expected read to fail when empty")
	}
}

// TestOverflowExactly64 mirrors end-to-end scenario 6: pushing 65 messages
// into a 64-entry ring with no consumer succeeds for exactly the first 64.
func TestOverflowExactly64(t *testing.T) {
	b := New[byte](64)
	succeeded := 0
	for i := 0; i < 65; i++ {
		if b.Write(byte(i)) {
			succeeded++
		}
	}
	if succeeded != 64 {
		t.Fatalf("expected exactly 64 successful writes, got %d", succeeded)
	}
	if !b.Full() {
		t.Fatalf("expected buffer full")
	}
}

func TestWrapAround(t *testing.T) {
	b := New[int](3)
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			if !b.Write(round*10 + i) {
				t.Fatalf("round %d item %d: unexpected full", round, i)
			}
		}
		for i := 0; i < 3; i++ {
			v, ok := b.Read()
			if !ok || v != round*10+i {
				t.Fatalf("round %d item %d: got %d,%v", round, i, v, ok)
			}
		}
	}
}
