// Command catter-devctl hosts the minimal always-WRAP reference
// controller (internal/rpcserver) so the proxy and hook library can be
// exercised end-to-end without a real controller. It is a development
// convenience, not part of the core interception pipeline.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fogsong233/catter/internal/rpcserver"
)

func main() {
	addr := os.Getenv("CATTER_CONTROLLER_ADDR")
	if addr == "" {
		addr = "127.0.0.1:4242"
	}

	server := rpcserver.New(rpcserver.AlwaysWrap)
	logrus.WithField("addr", addr).Info("catter-devctl: listening")
	if err := server.Serve(addr); err != nil {
		logrus.WithError(err).Fatal("catter-devctl: server exited")
	}
}
