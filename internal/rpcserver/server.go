// Package rpcserver is a minimal reference controller built on a
// jhttp.NewBridge pattern. It exists only so this repo's own tests and
// the optional cmd/catter-devctl convenience binary have something real
// to talk to over the make_decision/report_error/finish RPC contract —
// the actual policy engine that decides DROP/INJECT/WRAP is out of scope
// for this repo and is expected to be supplied by a real controller
// process.
package rpcserver

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/fogsong233/catter/internal/rpcproto"
)

// Policy decides what to do with an intercepted command. The default
// Server always returns ActionWrap; tests and cmd/catter-devctl may
// supply their own.
type Policy func(parentID rpcproto.CommandID, cmd rpcproto.Command) rpcproto.Action

// AlwaysWrap is the default Policy: run every command unmodified.
func AlwaysWrap(rpcproto.CommandID, rpcproto.Command) rpcproto.Action {
	return rpcproto.ActionWrap
}

// Server implements the three controller RPC methods over a jrpc2/jhttp
// bridge.
type Server struct {
	policy Policy

	mu       sync.Mutex
	finished map[rpcproto.CommandID]int
	errored  []rpcproto.ErrorReport
}

// New returns a Server using policy to answer MakeDecision calls. A nil
// policy defaults to AlwaysWrap.
func New(policy Policy) *Server {
	if policy == nil {
		policy = AlwaysWrap
	}
	return &Server{
		policy:   policy,
		finished: make(map[rpcproto.CommandID]int),
	}
}

// MakeDecision is the jrpc2 handler for make_decision.
func (s *Server) MakeDecision(ctx context.Context, req rpcproto.DecisionRequest) (rpcproto.DecisionResult, error) {
	action := s.policy(req.ParentID, req.Command)
	newID := newCommandID()
	logrus.WithFields(logrus.Fields{
		"parent_id": req.ParentID,
		"exe":       req.Command.Executable,
		"action":    action,
	}).Debug("rpcserver: decision")

	return rpcproto.DecisionResult{
		Action:   action,
		Command:  req.Command,
		NewCmdID: newID,
	}, nil
}

// ReportError is the jrpc2 handler for report_error.
func (s *Server) ReportError(ctx context.Context, req rpcproto.ErrorReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errored = append(s.errored, req)
	logrus.WithField("parent_id", req.ParentID).Warn("rpcserver: " + req.Message)
	return nil
}

// Finish is the jrpc2 handler for finish.
func (s *Server) Finish(ctx context.Context, req rpcproto.FinishReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished[req.CommandID] = req.ExitCode
	return nil
}

// Errors returns every ErrorReport received so far, for test assertions.
func (s *Server) Errors() []rpcproto.ErrorReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rpcproto.ErrorReport, len(s.errored))
	copy(out, s.errored)
	return out
}

// ExitCodeOf returns the exit code reported for commandID, if any.
func (s *Server) ExitCodeOf(commandID rpcproto.CommandID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.finished[commandID]
	return code, ok
}

func newCommandID() rpcproto.CommandID {
	// Fold the first 8 bytes of a ULID's random component down to a signed
	// int64 command id: plenty of entropy for a per-process tree key,
	// and keeps the wire type a plain integer.
	entropy := ulid.Make().Entropy()
	var n int64
	for _, b := range entropy[:8] {
		n = (n << 8) | int64(b)
	}
	if n < 0 {
		n = -n
	}
	return n
}

// Serve starts an HTTP bridge exposing Server's methods, listening on
// addr.
func (s *Server) Serve(addr string) error {
	bridge := jhttp.NewBridge(handler.Map{
		"MakeDecision": handler.New(s.MakeDecision),
		"ReportError":  handler.New(s.ReportError),
		"Finish":       handler.New(s.Finish),
	}, &jhttp.BridgeOptions{
		Server: &jrpc2.ServerOptions{},
	})
	defer bridge.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return http.Serve(ln, bridge)
}
