package proxy

import (
	"os"
	"strings"

	"github.com/fogsong233/catter/internal/platform"
)

func stdio() (*os.File, *os.File, *os.File) {
	return os.Stdin, os.Stdout, os.Stderr
}

// cleanEnv strips the preload key, the two session keys and the proxy
// marker from env. For WRAP the child runs as-is, without reinjecting
// preload, so it must not inherit this process's own hooking; for INJECT
// fresh preload and session entries are appended afterwards, and the
// child must not inherit the marker, which would make its hooks
// short-circuit.
func cleanEnv(env []string) []string {
	drop := map[string]bool{
		platform.PreloadKey:     true,
		platform.KeyProxyPath:   true,
		platform.KeyCommandID:   true,
		platform.KeyProxyMarker: true,
	}
	out := make([]string, 0, len(env))
	for _, e := range env {
		key, _, ok := strings.Cut(e, "=")
		if ok && drop[key] {
			continue
		}
		out = append(out, e)
	}
	return out
}
