// Package proxy implements the decision-dispatch half of the proxy
// executable: given a parsed command and an RPC client, it asks the
// controller what to do and runs DROP/WRAP/INJECT accordingly.
// Argument-grammar parsing (ParseArgs) lives in parse.go; dispatch goes
// through the Decider and Spawner interfaces so it is unit-testable
// without a real process tree.
package proxy

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"

	"github.com/fogsong233/catter/internal/platform"
	"github.com/fogsong233/catter/internal/resolve"
	"github.com/fogsong233/catter/internal/rpcproto"
)

// ErrNotParsed is returned by ParseArgs when the grammar
// "-p <id> ( -- <exe> <args...> | <diagnostic> )" is not satisfied.
var ErrNotParsed = errors.New("proxy: malformed arguments")

// ParsedArgs is the result of parsing the proxy's own argv.
type ParsedArgs struct {
	ParentID   rpcproto.CommandID
	IsDiagnostic bool
	Diagnostic string
	Exe        string
	Args       []string
}

// Decider is the controller RPC surface the proxy needs; satisfied by
// *rpcclient.Client.
type Decider interface {
	MakeDecision(ctx context.Context, parentID rpcproto.CommandID, cmd rpcproto.Command) (rpcproto.DecisionResult, error)
	ReportError(ctx context.Context, parentID rpcproto.CommandID, message string) error
	Finish(ctx context.Context, commandID rpcproto.CommandID, exitCode int) error
}

// Spawner launches a WRAP/INJECT command and waits for it, returning the
// exit code. injectEnv is non-nil only for INJECT.
type Spawner interface {
	Run(exe string, args []string, injectEnv []string) (int, error)
}

// Run executes the full resolve/decide/dispatch/finish sequence for one
// already-parsed invocation and returns the process exit code.
func Run(ctx context.Context, parsed ParsedArgs, decider Decider, spawner Spawner, sess Session) int {
	if parsed.IsDiagnostic {
		if err := decider.ReportError(ctx, parsed.ParentID, parsed.Diagnostic); err != nil {
			return -1
		}
		return -1
	}

	resolvedExe, err := resolve.FromPath(parsed.Exe, nil)
	if err != nil {
		resolvedExe = parsed.Exe
	}

	decision, err := decider.MakeDecision(ctx, parsed.ParentID, rpcproto.Command{
		Executable: resolvedExe,
		Args:       parsed.Args,
	})
	if err != nil {
		_ = decider.ReportError(ctx, parsed.ParentID, err.Error())
		return -1
	}

	exitCode := dispatch(decision, spawner, sess)

	if decision.Action == rpcproto.ActionInject {
		_ = decider.Finish(ctx, decision.NewCmdID, exitCode)
	}
	return exitCode
}

// Session carries what INJECT needs to reinstate the preload mechanism
// for the command it spawns.
type Session struct {
	HookLibPath string
	ProxyPath   string
}

func dispatch(decision rpcproto.DecisionResult, spawner Spawner, sess Session) int {
	switch decision.Action {
	case rpcproto.ActionDrop:
		return 0
	case rpcproto.ActionWrap:
		code, err := spawner.Run(decision.Command.Executable, decision.Command.Args, nil)
		if err != nil {
			return -1
		}
		return code
	case rpcproto.ActionInject:
		env := injectEnvironment(decision.NewCmdID, sess)
		code, err := spawner.Run(decision.Command.Executable, decision.Command.Args, env)
		if err != nil {
			return -1
		}
		return code
	default:
		return -1
	}
}

func injectEnvironment(newID rpcproto.CommandID, sess Session) []string {
	return []string{
		platform.PreloadKey + "=" + sess.HookLibPath,
		platform.KeyProxyPath + "=" + sess.ProxyPath,
		platform.KeyCommandID + "=" + strconv.FormatInt(newID, 10),
	}
}

// ExecSpawner runs commands via os/exec, the real Spawner used by
// cmd/catter-proxy.
type ExecSpawner struct{}

func (ExecSpawner) Run(exe string, args []string, injectEnv []string) (int, error) {
	cmd := exec.Command(exe, args...)
	if injectEnv != nil {
		cmd.Env = append(cleanEnv(os.Environ()), injectEnv...)
	} else {
		cmd.Env = cleanEnv(os.Environ())
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdio()
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
