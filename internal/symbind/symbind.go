// Package symbind resolves the genuine libc symbols behind the ones this
// library interposes, caching each lookup, grounded on the original
// implementation's linker.cc (dynamic_linker<T>(dlsym(RTLD_NEXT, name))).
// A benign double-resolve race on first use from two threads is
// accepted: both threads would resolve the same address and one just
// overwrites the cache entry with an identical value.
package symbind

import "sync"

var (
	mu    sync.Mutex
	cache = make(map[string]uintptr)
)

// lookup is swapped out in tests; the real implementation (symbind_linux.go,
// symbind_darwin.go) calls dlsym via cgo.
var lookup = dlsymNext

// Resolve returns the address of the original libc symbol named name, or
// ok=false if the dynamic linker could not find it.
func Resolve(name string) (uintptr, bool) {
	mu.Lock()
	if addr, ok := cache[name]; ok {
		mu.Unlock()
		return addr, true
	}
	mu.Unlock()

	addr, ok := lookup(name)
	if !ok {
		return 0, false
	}

	mu.Lock()
	cache[name] = addr
	mu.Unlock()
	return addr, true
}
