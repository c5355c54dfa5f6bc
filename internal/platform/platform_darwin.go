//go:build darwin

package platform

const (
	// PreloadKey is the dyld environment variable used for interposition
	// on macOS; unlike LD_PRELOAD it is a pure path list with no other
	// dyld-specific syntax we need to special-case.
	PreloadKey = "DYLD_INSERT_LIBRARIES"

	// DefaultSearchPath mirrors the _CS_PATH confstr default on macOS.
	DefaultSearchPath = "/usr/bin:/bin:/usr/sbin:/sbin"
)
