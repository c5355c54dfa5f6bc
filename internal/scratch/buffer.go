// Package scratch provides a bounded, append-only string arena. The
// original C++ implementation uses a single static byte buffer plus a
// hand-rolled Seq<T> so that no allocator call happens on the hook hot
// path. Go's garbage collector makes that exact constraint moot, but we
// keep the bounded-arena shape so overflow is a checked error instead of
// silent truncation, and so the argv/envp rewrite path has one place
// that enforces a size limit the way the original's buffer.cc does.
package scratch

import "fmt"

// ErrOverflow is returned when appending would exceed the arena's bound.
var ErrOverflow = fmt.Errorf("scratch: buffer overflow")

// Arena is a bounded, append-only collection of strings.
type Arena struct {
	limit   int
	entries []string
	used    int
}

// NewArena creates an Arena that rejects appends once the combined byte
// length of its entries would exceed limit.
func NewArena(limit int) *Arena {
	return &Arena{limit: limit}
}

// Append adds s to the arena, returning ErrOverflow if doing so would
// exceed the configured limit. On overflow the arena is left unchanged.
func (a *Arena) Append(s string) error {
	if a.used+len(s) > a.limit {
		return ErrOverflow
	}
	a.entries = append(a.entries, s)
	a.used += len(s)
	return nil
}

// AppendAll appends every string in ss, stopping at the first overflow.
func (a *Arena) AppendAll(ss ...string) error {
	for _, s := range ss {
		if err := a.Append(s); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the strings appended so far, in order.
func (a *Arena) Entries() []string {
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len reports the number of bytes used so far.
func (a *Arena) Len() int {
	return a.used
}
