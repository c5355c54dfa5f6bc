// Package envinject implements the environment-preservation algorithm
// that makes sure the preload mechanism and the two session entries
// survive into a child's environment, without ever reallocating the
// caller's array in place.
package envinject

import (
	"strings"

	"github.com/fogsong233/catter/internal/envutil"
	"github.com/fogsong233/catter/internal/scratch"
	"github.com/fogsong233/catter/internal/session"
)

// scratchLimit bounds the library-private copy built when envp must be
// extended, mirroring the hook's static-scratch discipline.
const scratchLimit = 4 * 4096

// Apply returns env rewritten so preloadKey (e.g. "LD_PRELOAD") lists
// libPath (prepended as the first element when it is missing, left in
// place when it is already an element) and both of sess's
// NecessaryEntries are present. It never mutates env in place, and it returns env
// unchanged when it already satisfies both conditions.
func Apply(env []string, preloadKey, libPath string, sess session.Session) ([]string, error) {
	arena := scratch.NewArena(scratchLimit)

	idx := envutil.IndexOf(env, preloadKey)
	if idx < 0 {
		return buildFresh(env, preloadKey, libPath, sess, arena)
	}

	current, _ := envutil.ValueOf(env, preloadKey)
	out := env
	if !envutil.ContainsListElement(current, ':', libPath) {
		newValue := libPath
		if current != "" {
			newValue = libPath + ":" + current
		}
		entry := preloadKey + "=" + newValue
		if err := arena.Append(entry); err != nil {
			return nil, err
		}
		out = replaceAt(env, idx, entry)
	}

	return ensureSessionEntries(out, sess, arena)
}

func buildFresh(env []string, preloadKey, libPath string, sess session.Session, arena *scratch.Arena) ([]string, error) {
	out := make([]string, 0, len(env)+3)
	for _, e := range sess.NecessaryEntries {
		if e == "" {
			continue
		}
		if err := arena.Append(e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	entry := preloadKey + "=" + libPath
	if err := arena.Append(entry); err != nil {
		return nil, err
	}
	out = append(out, entry)
	out = append(out, env...)
	return out, nil
}

// ensureSessionEntries makes sure each of sess.NecessaryEntries appears
// in env with its expected value, copying env on first write so the
// caller's array (or the slice handed in by the preload-key step) is
// never mutated in place.
func ensureSessionEntries(env []string, sess session.Session, arena *scratch.Arena) ([]string, error) {
	out := env
	copied := false
	for _, want := range sess.NecessaryEntries {
		if want == "" {
			continue
		}
		key, val, ok := strings.Cut(want, "=")
		if !ok {
			continue
		}
		if got, present := envutil.ValueOf(out, key); present && got == val {
			continue
		}
		if err := arena.Append(want); err != nil {
			return nil, err
		}
		if !copied {
			fresh := make([]string, len(out))
			copy(fresh, out)
			out = fresh
			copied = true
		}
		if idx := envutil.IndexOf(out, key); idx >= 0 {
			out[idx] = want
		} else {
			out = append(out, want)
		}
	}
	return out, nil
}

func replaceAt(env []string, idx int, entry string) []string {
	out := make([]string, len(env))
	copy(out, env)
	out[idx] = entry
	return out
}
