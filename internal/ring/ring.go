// Package ring implements a fixed-capacity single-producer/single-consumer
// queue used for the MIDI-input-thread to audio-callback handoff. Both
// Write and Read are wait-free: no locks, no allocation, no blocking.
package ring

// Buffer is a bounded SPSC FIFO queue of capacity N (it holds at most N
// items even though the backing slots array has N+1 entries — one slot is
// always left empty so the full/empty states are distinguishable without
// a separate counter).
//
// Exactly one goroutine may call Write; exactly one (a different, or the
// same) goroutine may call Read. Mixing multiple writers or multiple
// readers is undefined behavior, matching the single-producer/
// single-consumer contract in the data model.
type Buffer[T any] struct {
	slots []T
	write uint32
	read  uint32
}

// New creates a Buffer holding at most capacity items.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		slots: make([]T, capacity+1),
	}
}

// Cap returns the number of items the buffer can hold before Write starts
// reporting full.
func (b *Buffer[T]) Cap() int {
	return len(b.slots) - 1
}

func (b *Buffer[T]) mod() uint32 {
	return uint32(len(b.slots))
}

// Empty reports whether the buffer currently holds no items.
func (b *Buffer[T]) Empty() bool {
	return b.read == b.write
}

// Full reports whether the buffer has reached capacity.
func (b *Buffer[T]) Full() bool {
	return b.write == (b.read+uint32(len(b.slots))-1)%b.mod()
}

// Write appends an item. It returns false (without blocking) when the
// buffer is full; the item is silently dropped by the caller in that
// case — a full ring on the MIDI path is a transient condition, not a
// panic or a logged failure on the audio thread.
func (b *Buffer[T]) Write(item T) bool {
	if b.Full() {
		return false
	}
	b.slots[b.write] = item
	b.write = (b.write + 1) % b.mod()
	return true
}

// Read removes and returns the oldest item. ok is false when the buffer
// was empty, in which case the returned value is the zero value of T.
func (b *Buffer[T]) Read() (item T, ok bool) {
	if b.Empty() {
		return item, false
	}
	item = b.slots[b.read]
	var zero T
	b.slots[b.read] = zero
	b.read = (b.read + 1) % b.mod()
	return item, true
}

// Len returns the number of items currently queued.
func (b *Buffer[T]) Len() int {
	return int((b.write - b.read + b.mod()) % b.mod())
}
