// cmd/catterhook builds the preloaded shared library (-buildmode=c-shared)
// that replaces libc's exec*/posix_spawn* family for every process that
// loads it. Package main is required by c-shared mode; all real logic
// lives in internal packages so it stays unit-testable without cgo.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/fogsong233/catter/internal/envutil"
	"github.com/fogsong233/catter/internal/executor"
	"github.com/fogsong233/catter/internal/platform"
	"github.com/fogsong233/catter/internal/recorder"
	"github.com/fogsong233/catter/internal/session"
)

// loaded guards on_load/on_unload against running more than once even
// under a racing dlopen/dlclose.
var loaded atomic.Bool

var globalSession session.WriteOnce[session.Session]
var globalRecorder *recorder.Recorder

func isProxyProcess(env []string) bool {
	_, ok := envutil.ValueOf(env, platform.KeyProxyMarker)
	return ok
}

// on_load and on_unload are invoked automatically by shim.c's
// constructor/destructor wrappers; they are exported so cgo can see them
// from that separate translation unit.

//export on_load
func on_load() {
	if loaded.Swap(true) {
		return
	}
	env := os.Environ()
	sess := session.Load(env)
	globalSession.Store(sess)
	if sess.Valid() && sess.LogDir != "" {
		globalRecorder = recorder.New(sess.LogDir)
	}
	configureLogging()
}

//export on_unload
func on_unload() {
	if !loaded.Swap(false) {
		return
	}
	if globalRecorder != nil {
		globalRecorder.Close()
	}
}

func configureLogging() {
	if path, ok := os.LookupEnv("CATTER_DEBUG_LOG"); ok && path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			logrus.SetOutput(f)
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	}
}

func newExecutor(invoke executor.Invoker) *executor.Executor {
	return executor.New(globalSession.Load(), platform.PreloadKey, globalRecorder, invoke, os.Getpid(), currentTID())
}

func cArgvToSlice(argv **C.char) []string {
	if argv == nil {
		return nil
	}
	var out []string
	for i := 0; ; i++ {
		p := cIndex(argv, i)
		if p == nil {
			break
		}
		out = append(out, C.GoString(p))
	}
	return out
}

func cIndex(argv **C.char, i int) *C.char {
	base := uintptr(unsafe.Pointer(argv))
	elem := base + uintptr(i)*unsafe.Sizeof(base)
	return *(**C.char)(unsafe.Pointer(elem))
}

func sliceToCArgv(ss []string) **C.char {
	argv := C.malloc(C.size_t(len(ss)+1) * C.size_t(unsafe.Sizeof(uintptr(0))))
	base := (**C.char)(argv)
	for i, s := range ss {
		elem := uintptr(unsafe.Pointer(base)) + uintptr(i)*unsafe.Sizeof(uintptr(0))
		*(**C.char)(unsafe.Pointer(elem)) = C.CString(s)
	}
	elem := uintptr(unsafe.Pointer(base)) + uintptr(len(ss))*unsafe.Sizeof(uintptr(0))
	*(**C.char)(unsafe.Pointer(elem)) = nil
	return base
}

func freeCArgv(argv **C.char, n int) {
	for i := 0; i < n; i++ {
		C.free(unsafe.Pointer(cIndex(argv, i)))
	}
	C.free(unsafe.Pointer(argv))
}

