//go:build linux

package platform

const (
	// PreloadKey is the dynamic-linker environment variable that must
	// list this library first for interception to survive into a child.
	PreloadKey = "LD_PRELOAD"

	// DefaultSearchPath is used when PATH is absent from the
	// environment and the confstr(_CS_PATH, ...) fallback from glibc is
	// not reachable without calling a possibly-interposed libc helper.
	// This matches glibc's own _CS_PATH default.
	DefaultSearchPath = "/bin:/usr/bin"
)
