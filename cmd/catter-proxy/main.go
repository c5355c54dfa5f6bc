// Command catter-proxy is the per-call supervisor a hooked process
// actually execs into: it marks itself so its own spawns are not
// re-hooked, parses the "-p <id> -- <exe> <args…>" grammar, asks the
// controller for a decision, and dispatches DROP/WRAP/INJECT.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fogsong233/catter/internal/platform"
	"github.com/fogsong233/catter/internal/proxy"
	"github.com/fogsong233/catter/internal/rpcclient"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: mark self so any spawn this process makes (e.g. the
	// controller-selected command itself, if INJECT is later chosen via
	// a library that happens to share this binary's LD_PRELOAD) is not
	// intercepted recursively.
	os.Setenv(platform.KeyProxyMarker, "1")

	addr := os.Getenv("CATTER_CONTROLLER_ADDR")
	if addr == "" {
		addr = "127.0.0.1:4242"
	}
	client, err := rpcclient.New("tcp", addr)
	if err != nil {
		logrus.WithError(err).Error("catter-proxy: failed to reach controller")
		return -1
	}
	defer client.Close()

	parsed, err := proxy.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Println("Usage: catter-proxy -p <parent-id> -- <exe> [args...]")
		return 0
	}

	sess := proxy.Session{
		HookLibPath: os.Getenv("CATTER_HOOK_LIB_PATH"),
		ProxyPath:   selfPath(),
	}

	return proxy.Run(context.Background(), parsed, client, proxy.ExecSpawner{}, sess)
}

func selfPath() string {
	if path, err := os.Executable(); err == nil {
		return path
	}
	return os.Args[0]
}
