// Package session holds the values the preload library must carry across
// every intercepted call: the proxy path, the command id assigned by the
// controller, and the raw environment entries that need to survive into
// every child process.
package session

import (
	"github.com/fogsong233/catter/internal/envutil"
	"github.com/fogsong233/catter/internal/platform"
)

// Session is immutable once built by Load. A zero-value Session is
// invalid.
type Session struct {
	// ProxyPath is the absolute path of the proxy executable.
	ProxyPath string
	// SelfID is the opaque, ASCII-integer id the controller assigned to
	// this process.
	SelfID string
	// NecessaryEntries holds the two raw "KEY=VALUE" strings that must
	// be present in every rewritten child environment, in the order
	// [proxy path entry, command id entry].
	NecessaryEntries [2]string
	// SelfLibPath is the absolute path of the preload library itself;
	// only meaningful on Linux, where the preload key's value must list
	// it explicitly (on Darwin DYLD_INSERT_LIBRARIES is set up the same
	// way by the proxy that spawned this process).
	SelfLibPath string
	// LogDir, if non-empty, enables the best-effort per-thread recorder.
	LogDir string
}

// Load reads the session out of a process environment. The returned
// Session is invalid (Valid() == false) if either required key is
// missing or empty; callers must still use it (for its NecessaryEntries,
// which remain zero) to build an error report rather than failing
// outright.
func Load(env []string) Session {
	var s Session

	if v, ok := envutil.ValueOf(env, platform.KeyProxyPath); ok {
		s.ProxyPath = v
	}
	if v, ok := envutil.ValueOf(env, platform.KeyCommandID); ok {
		s.SelfID = v
	}
	if !s.Valid() {
		return s
	}

	if e, ok := envutil.EntryOf(env, platform.KeyProxyPath); ok {
		s.NecessaryEntries[0] = e
	}
	if e, ok := envutil.EntryOf(env, platform.KeyCommandID); ok {
		s.NecessaryEntries[1] = e
	}
	if v, ok := envutil.ValueOf(env, platform.KeyHookLibPath); ok {
		s.SelfLibPath = v
	}
	if v, ok := envutil.ValueOf(env, platform.KeyLogDir); ok {
		s.LogDir = v
	}

	return s
}

// Valid reports whether both required fields are present; only a valid
// Session permits rewriting.
func (s Session) Valid() bool {
	return s.ProxyPath != "" && s.SelfID != ""
}
