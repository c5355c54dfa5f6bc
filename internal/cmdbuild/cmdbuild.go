// Package cmdbuild constructs the argv the Executor hands to the genuine
// exec/posix_spawn symbol: either the well-formed proxy invocation, or an
// error-report invocation that carries a diagnostic string instead of a
// separated command.
package cmdbuild

import (
	"fmt"
	"strings"

	"github.com/fogsong233/catter/internal/scratch"
	"github.com/fogsong233/catter/internal/session"
)

// Kind tags which shape a RewriteResult's argv takes.
type Kind int

const (
	// KindProxy is a well-formed "<proxy> -p <id> -- <exe> <args…>".
	KindProxy Kind = iota
	// KindErrorReport carries a single diagnostic string and no "--".
	KindErrorReport
)

// RewriteResult is the tagged union the Executor produces: Proxy{path,
// argv} or ErrorReport{path, argv}. Path is always the proxy executable;
// Kind selects how the proxy must interpret Argv.
type RewriteResult struct {
	Kind Kind
	Path string
	Argv []string
}

// scratchLimit bounds the arena used while assembling argv, sized to a
// few multiples of PATH_MAX.
const scratchLimit = 4 * 4096

// ProxyCommand builds the well-formed proxy invocation:
// "<proxy> -p <self_id> -- <exePath> <argv[1:]>". argv[0] of the original
// call is dropped in favor of exePath, because many callers pass a bare
// name there while the proxy and controller want the already-resolved
// path.
func ProxyCommand(sess session.Session, exePath string, argv []string) (RewriteResult, error) {
	arena := scratch.NewArena(scratchLimit)
	if err := arena.AppendAll(sess.ProxyPath, "-p", sess.SelfID, "--", exePath); err != nil {
		return RewriteResult{}, err
	}
	if len(argv) > 1 {
		if err := arena.AppendAll(argv[1:]...); err != nil {
			return RewriteResult{}, err
		}
	}

	entries := arena.Entries()
	return RewriteResult{
		Kind: KindProxy,
		Path: sess.ProxyPath,
		Argv: entries,
	}, nil
}

// ErrorCommand builds the error-report invocation:
// "<proxy> -p <self_id> <diagnostic>" (no "--"). The diagnostic format is:
//
//	Catter Proxy Error: <message>
//	 in command: <exePath> <args…>
func ErrorCommand(sess session.Session, message string, exePath string, argv []string) (RewriteResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Catter Proxy Error: %s\n in command: %s ", message, exePath)
	// argv[0] of the caller's original vector is dropped, same as
	// ProxyCommand: it is usually just the bare name, redundant with
	// exePath which the resolver already produced (or, on a resolution
	// failure, the name the caller asked for in the first place).
	if len(argv) > 1 {
		for _, a := range argv[1:] {
			b.WriteString(a)
			b.WriteByte(' ')
		}
	}

	arena := scratch.NewArena(scratchLimit)
	if err := arena.AppendAll(sess.ProxyPath, "-p", sess.SelfID, b.String()); err != nil {
		return RewriteResult{}, err
	}

	return RewriteResult{
		Kind: KindErrorReport,
		Path: sess.ProxyPath,
		Argv: arena.Entries(),
	}, nil
}
