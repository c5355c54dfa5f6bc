package symbind

import "testing"

func TestResolveCachesLookup(t *testing.T) {
	calls := 0
	old := lookup
	lookup = func(name string) (uintptr, bool) {
		calls++
		return 0xdead, true
	}
	defer func() { lookup = old }()

	// isolate from any prior test's cache entries
	mu.Lock()
	cache = make(map[string]uintptr)
	mu.Unlock()

	addr1, ok1 := Resolve("execve")
	addr2, ok2 := Resolve("execve")
	if !ok1 || !ok2 || addr1 != addr2 {
		t.Fatalf("got %v/%v %v/%v", addr1, ok1, addr2, ok2)
	}
	if calls != 1 {
		t.Fatalf("expected 1 underlying lookup, got %d", calls)
	}
}

func TestResolveMissingSymbol(t *testing.T) {
	old := lookup
	lookup = func(name string) (uintptr, bool) { return 0, false }
	defer func() { lookup = old }()

	mu.Lock()
	cache = make(map[string]uintptr)
	mu.Unlock()

	if _, ok := Resolve("not_a_real_symbol"); ok {
		t.Fatal("expected not found")
	}
}
