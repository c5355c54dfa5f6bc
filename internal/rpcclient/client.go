// Package rpcclient is the proxy's RPC binding to the controller: a
// jrpc2 client talking JSON-RPC over an HTTP bridge. The controller
// itself — the process on the other end that actually decides
// DROP/INJECT/WRAP — is out of scope for this repo; this package only
// implements the three calls of the make_decision/report_error/finish
// contract.
package rpcclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/fogsong233/catter/internal/rpcproto"
)

// ConnectTimeout bounds each dial of the underlying connection. New does
// not dial; the first call does.
const ConnectTimeout = 5 * time.Second

// Client talks to the controller over JSON-RPC/HTTP.
type Client struct {
	rpc *jrpc2.Client
}

var noResult interface{}

// New returns a Client bound to network/addr (e.g. "tcp",
// "127.0.0.1:4242"). It does not connect: an unreachable controller
// surfaces as an error from the first call, not from New.
func New(network, addr string) (*Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns: 2,
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: ConnectTimeout}
				return d.DialContext(ctx, network, addr)
			},
		},
	}

	ch := jhttp.NewChannel("http://catterrpc", &jhttp.ChannelOptions{
		Client: httpClient,
	})
	return &Client{rpc: jrpc2.NewClient(ch, nil)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// MakeDecision asks the controller what to do with cmd, on behalf of
// parentID (the command id of the process that spawned it).
func (c *Client) MakeDecision(ctx context.Context, parentID rpcproto.CommandID, cmd rpcproto.Command) (rpcproto.DecisionResult, error) {
	req := rpcproto.DecisionRequest{ParentID: parentID, Command: cmd}
	var res rpcproto.DecisionResult
	if err := c.rpc.CallResult(ctx, "MakeDecision", req, &res); err != nil {
		return rpcproto.DecisionResult{}, err
	}
	return res, nil
}

// ReportError is a one-way notification that something went wrong while
// handling parentID's command.
func (c *Client) ReportError(ctx context.Context, parentID rpcproto.CommandID, message string) error {
	return c.rpc.CallResult(ctx, "ReportError", rpcproto.ErrorReport{
		ParentID: parentID,
		Message:  message,
	}, &noResult)
}

// Finish is a one-way notification that commandID's process has exited.
func (c *Client) Finish(ctx context.Context, commandID rpcproto.CommandID, exitCode int) error {
	return c.rpc.CallResult(ctx, "Finish", rpcproto.FinishReport{
		CommandID: commandID,
		ExitCode:  exitCode,
	}, &noResult)
}
