package rpcclient_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/fogsong233/catter/internal/rpcclient"
	"github.com/fogsong233/catter/internal/rpcproto"
	"github.com/fogsong233/catter/internal/rpcserver"
)

func startServer(t *testing.T, srv *rpcserver.Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	go srv.Serve(addr)
	// give the listener a moment to bind before the client dials.
	time.Sleep(50 * time.Millisecond)
	return addr
}

func TestMakeDecisionRoundTrip(t *testing.T) {
	srv := rpcserver.New(rpcserver.AlwaysWrap)
	addr := startServer(t, srv)

	client, err := rpcclient.New("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := client.MakeDecision(ctx, 1, rpcproto.Command{Executable: "/bin/echo", Args: []string{"hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != rpcproto.ActionWrap {
		t.Fatalf("got action %q", result.Action)
	}
}

func TestReportErrorAndFinish(t *testing.T) {
	srv := rpcserver.New(rpcserver.AlwaysWrap)
	addr := startServer(t, srv)

	client, err := rpcclient.New("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.ReportError(ctx, 1, "boom"); err != nil {
		t.Fatal(err)
	}
	if err := client.Finish(ctx, 2, 7); err != nil {
		t.Fatal(err)
	}

	errs := srv.Errors()
	if len(errs) != 1 || errs[0].Message != "boom" {
		t.Fatalf("got %v", errs)
	}
	if code, ok := srv.ExitCodeOf(2); !ok || code != 7 {
		t.Fatalf("got %d %v", code, ok)
	}
}
