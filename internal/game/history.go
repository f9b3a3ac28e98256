// Package game tracks a played game: the current board, the position
// history since the last irreversible move, and the draw rules that need it.
package game

import "fmt"

// DefaultHistoryCapacity bounds the positions kept between irreversible
// moves. The fifty-move rule ends a game long before it fills.
const DefaultHistoryCapacity = 150

// MinHistoryCapacity holds every position the fifty-move rule can still
// repeat plus the current one.
const MinHistoryCapacity = 101

// History is a bounded stack of position hashes. Its storage is allocated
// once; Push panics rather than grow past capacity.
type History struct {
	hashes []uint64
}

// NewHistory returns an empty history holding at most capacity hashes.
func NewHistory(capacity int) *History {
	return &History{hashes: make([]uint64, 0, capacity)}
}

// Push appends a hash. Overflowing the capacity is a programming error.
func (h *History) Push(hash uint64) {
	if len(h.hashes) == cap(h.hashes) {
		panic(fmt.Sprintf("game: history capacity %d exceeded", cap(h.hashes)))
	}
	h.hashes = append(h.hashes, hash)
}

// Shift pushes hash, dropping the oldest entry when the history is full.
func (h *History) Shift(hash uint64) {
	if n := len(h.hashes); n > 0 && n == cap(h.hashes) {
		copy(h.hashes, h.hashes[1:])
		h.hashes[n-1] = hash
		return
	}
	h.Push(hash)
}

// Pop removes and returns the most recent hash.
func (h *History) Pop() (uint64, bool) {
	n := len(h.hashes)
	if n == 0 {
		return 0, false
	}
	hash := h.hashes[n-1]
	h.hashes = h.hashes[:n-1]
	return hash, true
}

// Last returns the most recent hash without removing it.
func (h *History) Last() (uint64, bool) {
	if len(h.hashes) == 0 {
		return 0, false
	}
	return h.hashes[len(h.hashes)-1], true
}

// Clear empties the history, keeping its storage.
func (h *History) Clear() {
	h.hashes = h.hashes[:0]
}

func (h *History) Len() int { return len(h.hashes) }
func (h *History) Cap() int { return cap(h.hashes) }

// Count returns how many times hash occurs.
func (h *History) Count(hash uint64) int {
	n := 0
	for _, x := range h.hashes {
		if x == hash {
			n++
		}
	}
	return n
}

// Hashes returns a copy of the stored hashes, oldest first.
func (h *History) Hashes() []uint64 {
	return append([]uint64(nil), h.hashes...)
}

// Clone returns an independent history with the same capacity.
func (h *History) Clone() *History {
	c := NewHistory(cap(h.hashes))
	c.hashes = append(c.hashes, h.hashes...)
	return c
}

// Tail returns a history holding the newest n hashes with room for extra
// more pushes.
func (h *History) Tail(n, extra int) *History {
	start := max(len(h.hashes)-n, 0)
	t := NewHistory(len(h.hashes) - start + extra)
	t.hashes = append(t.hashes, h.hashes[start:]...)
	return t
}
