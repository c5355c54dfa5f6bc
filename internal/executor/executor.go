// Package executor is the Executor glue: for each intercepted entry
// point it validates the session, resolves the target executable, builds
// the proxy invocation, injects the preload environment, records the
// attempt, and invokes the genuine libc symbol. It implements the full
// call/failure state machine without depending on cgo, so it is
// unit-testable on its own.
package executor

import (
	"errors"
	"syscall"

	"github.com/fogsong233/catter/internal/cmdbuild"
	"github.com/fogsong233/catter/internal/envinject"
	"github.com/fogsong233/catter/internal/recorder"
	"github.com/fogsong233/catter/internal/resolve"
	"github.com/fogsong233/catter/internal/session"
)

// ErrSymbolMissing is returned by an Invoker when the original libc
// symbol could not be located, mapping to errno ENOSYS.
var ErrSymbolMissing = errors.New("executor: original symbol unresolved")

// Resolver mirrors one of the resolve package's lookup functions
// (FromCurrentDirectory, FromSearchPath, FromPath) — which one to use is
// chosen by the caller per entry point.
type Resolver func(path string) (string, error)

// Invoker calls the genuine libc symbol with the rewritten path, argv,
// and envp. Like the real exec*(2) family it only returns when the call
// failed; nil is never returned for an entry point that truly replaces
// the process image (posix_spawn* is the exception and always returns).
type Invoker func(path string, argv, envp []string) error

// HookResult is what the cgo boundary in cmd/catterhook needs to set the
// process errno and hook return value. A zero Errno means the original
// call succeeded (or, for exec*, never returned at all).
type HookResult struct {
	Failed bool
	Errno  syscall.Errno
}

// Executor drives one intercepted call for one loaded preload library
// instance.
type Executor struct {
	Sess       session.Session
	PreloadKey string
	Recorder   *recorder.Recorder
	Invoke     Invoker

	// PID and TID identify the calling thread for the recorder; set once
	// at construction since a loaded library instance lives in one
	// process.
	PID int
	TID int
}

// New returns an Executor ready to drive one hook call. rec may be nil,
// in which case recording is a no-op: recording is always best-effort.
func New(sess session.Session, preloadKey string, rec *recorder.Recorder, invoke Invoker, pid, tid int) *Executor {
	return &Executor{
		Sess:       sess,
		PreloadKey: preloadKey,
		Recorder:   rec,
		Invoke:     invoke,
		PID:        pid,
		TID:        tid,
	}
}

// Handle runs one intercepted call through validate -> resolve -> rewrite
// -> inject -> record -> invoke. path is the literal argument the caller
// passed (not yet resolved); resolveFn performs whichever lookup is
// appropriate for this entry point.
func (e *Executor) Handle(resolveFn Resolver, path string, argv, envp []string) HookResult {
	if path == "" {
		return HookResult{Failed: true, Errno: syscall.EFAULT}
	}

	result, overflowed := e.buildCommand(resolveFn, path, argv)
	if overflowed {
		return HookResult{Failed: true, Errno: syscall.EFAULT}
	}

	newEnvp := envp
	if e.Sess.Valid() {
		injected, err := envinject.Apply(envp, e.PreloadKey, e.Sess.SelfLibPath, e.Sess)
		if err != nil {
			// Buffer overflow while injecting: fall back to an
			// error-report invocation so the controller still learns
			// about the attempt.
			result, _ = cmdbuild.ErrorCommand(e.Sess, "environment rewrite exceeded scratch buffer", path, argv)
			newEnvp = envp
		} else {
			newEnvp = injected
		}
	}

	e.Recorder.RecordCommand(e.PID, e.TID, result.Argv)

	if err := e.Invoke(result.Path, result.Argv, newEnvp); err != nil {
		e.Recorder.RecordError(e.PID, e.TID, err.Error())
		if errors.Is(err, ErrSymbolMissing) {
			return HookResult{Failed: true, Errno: syscall.ENOSYS}
		}
		var errno syscall.Errno
		if errors.As(err, &errno) {
			return HookResult{Failed: true, Errno: errno}
		}
		return HookResult{Failed: true, Errno: syscall.EIO}
	}

	return HookResult{}
}

// buildCommand validates the session and resolves the target: invalid
// session or resolution failure both fall back to an error-report
// command rather than failing the hook outright.
func (e *Executor) buildCommand(resolveFn Resolver, path string, argv []string) (cmdbuild.RewriteResult, bool) {
	if !e.Sess.Valid() {
		result, err := cmdbuild.ErrorCommand(e.Sess, "invalid environment of hook library, lost required value", path, argv)
		return result, err != nil
	}

	resolved, err := resolveFn(path)
	if err != nil {
		result, buildErr := cmdbuild.ErrorCommand(e.Sess, "Unable to locate executable", path, argv)
		return result, buildErr != nil
	}

	result, err := cmdbuild.ProxyCommand(e.Sess, resolved, argv)
	if err != nil {
		fallback, buildErr := cmdbuild.ErrorCommand(e.Sess, "command rewrite exceeded scratch buffer", path, argv)
		return fallback, buildErr != nil
	}
	return result, false
}

// ResolverFor picks the lookup appropriate for an entry point:
// execve/posix_spawn take the path literally, while the *p variants
// additionally search PATH.
func ResolverFor(searchesPath bool, env []string) Resolver {
	if !searchesPath {
		return resolve.FromCurrentDirectory
	}
	return func(path string) (string, error) {
		return resolve.FromPath(path, env)
	}
}
