package main

/*
#include <stdlib.h>
#include <spawn.h>

extern char **environ;

extern int catter_call_execve(void *fp, const char *path, char *const argv[], char *const envp[]);
extern int catter_call_execvp(void *fp, const char *file, char *const argv[]);
extern int catter_call_execvpe(void *fp, const char *file, char *const argv[], char *const envp[]);
extern int catter_call_execvP(void *fp, const char *file, const char *search_path, char *const argv[]);
extern int catter_call_posix_spawn(void *fp, pid_t *pid, const char *path,
                                    const posix_spawn_file_actions_t *file_actions,
                                    const posix_spawnattr_t *attrp,
                                    char *const argv[], char *const envp[]);
*/
import "C"

import (
	"syscall"
	"unsafe"

	"github.com/fogsong233/catter/internal/executor"
	"github.com/fogsong233/catter/internal/resolve"
	"github.com/fogsong233/catter/internal/symbind"
)

// withRewrite is the shared body for every non-variadic, non-spawn entry
// point: guard against the proxy process re-hooking itself, resolve,
// rewrite, inject, record, and invoke. shortCircuit is the invoker used
// when the calling process is itself the proxy: it must delegate to the
// *same-named* genuine libc symbol with the caller's unchanged path and
// argv, since only that symbol performs the PATH search (or lack of
// one) the original entry point promised. The rewritten-to-proxy path
// always goes through the genuine execve instead, because by that point
// the path is already a resolved, literal executable.
func withRewrite(searchesPath bool, path string, argv, envp []string, shortCircuit executor.Invoker) {
	env := envp
	if env == nil {
		env = cEnviron()
	}

	if isProxyProcess(env) {
		shortCircuit(path, argv, env)
		return
	}

	resolver := executor.ResolverFor(searchesPath, env)
	ex := newExecutor(makeExecveInvoker())
	result := ex.Handle(resolver, path, argv, env)
	if result.Failed {
		setErrno(result.Errno)
	}
}

func cEnviron() []string {
	return cArgvToSlice((**C.char)(unsafe.Pointer(C.environ)))
}

//export execve
func execve(path *C.char, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cArgvToSlice(argv)
	goEnvp := cArgvToSlice(envp)

	withRewrite(false, goPath, goArgv, goEnvp, makeExecveInvoker())
	return -1
}

//export execv
func execv(path *C.char, argv **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cArgvToSlice(argv)

	// execv doesn't search PATH and has no explicit envp of its own, so
	// delegating through the genuine execve with the process's current
	// environment is equivalent to calling the genuine execv.
	withRewrite(false, goPath, goArgv, nil, makeExecveInvoker())
	return -1
}

//export execvp
func execvp(file *C.char, argv **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cArgvToSlice(argv)

	withRewrite(true, goFile, goArgv, nil, makeExecvpInvoker())
	return -1
}

//export execvpe
func execvpe(file *C.char, argv **C.char, envp **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cArgvToSlice(argv)
	goEnvp := cArgvToSlice(envp)

	withRewrite(true, goFile, goArgv, goEnvp, makeExecvpeInvoker())
	return -1
}

//export execvP
func execvP(file *C.char, searchPath *C.char, argv **C.char) C.int {
	goFile := C.GoString(file)
	goSearchPath := C.GoString(searchPath)
	goArgv := cArgvToSlice(argv)
	env := cEnviron()

	if isProxyProcess(env) {
		makeExecvPInvoker(goSearchPath)(goFile, goArgv, env)
		return -1
	}

	resolver := func(f string) (string, error) { return resolve.FromSearchPath(f, goSearchPath) }
	ex := newExecutor(makeExecveInvoker())
	result := ex.Handle(resolver, goFile, goArgv, env)
	if result.Failed {
		setErrno(result.Errno)
	}
	return -1
}

//export exect
func exect(path *C.char, argv **C.char, envp **C.char) C.int {
	return execve(path, argv, envp)
}

//export posix_spawn
func posix_spawn(pid *C.pid_t, path *C.char, fileActions *C.posix_spawn_file_actions_t, attrp *C.posix_spawnattr_t, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cArgvToSlice(argv)
	goEnvp := cArgvToSlice(envp)

	result := runSpawn(false, goPath, goArgv, goEnvp, pid, fileActions, attrp)
	return C.int(result)
}

//export posix_spawnp
func posix_spawnp(pid *C.pid_t, file *C.char, fileActions *C.posix_spawn_file_actions_t, attrp *C.posix_spawnattr_t, argv **C.char, envp **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cArgvToSlice(argv)
	goEnvp := cArgvToSlice(envp)

	result := runSpawn(true, goFile, goArgv, goEnvp, pid, fileActions, attrp)
	return C.int(result)
}

func runSpawn(searchesPath bool, path string, argv, envp []string, pid *C.pid_t, fileActions *C.posix_spawn_file_actions_t, attrp *C.posix_spawnattr_t) int {
	env := envp
	if env == nil {
		env = cEnviron()
	}

	var spawnErrno int

	if isProxyProcess(env) {
		// Delegate to the same-named genuine symbol: posix_spawnp
		// performs the PATH search posix_spawn does not, so the
		// short-circuit must preserve which one the caller actually used.
		symbolName := "posix_spawn"
		if searchesPath {
			symbolName = "posix_spawnp"
		}
		makeSpawnInvoker(symbolName, &spawnErrno, pid, fileActions, attrp)(path, argv, env)
		return spawnErrno
	}

	resolver := executor.ResolverFor(searchesPath, env)
	ex := newExecutor(makeSpawnInvoker("posix_spawn", &spawnErrno, pid, fileActions, attrp))
	result := ex.Handle(resolver, path, argv, env)
	if result.Failed {
		return int(result.Errno)
	}
	return spawnErrno
}

func makeSpawnInvoker(symbolName string, spawnErrno *int, pid *C.pid_t, fileActions *C.posix_spawn_file_actions_t, attrp *C.posix_spawnattr_t) executor.Invoker {
	return func(rewrittenPath string, rewrittenArgv, rewrittenEnvp []string) error {
		cPath := C.CString(rewrittenPath)
		defer C.free(unsafe.Pointer(cPath))
		cArgv := sliceToCArgv(rewrittenArgv)
		defer freeCArgv(cArgv, len(rewrittenArgv))
		cEnvp := sliceToCArgv(rewrittenEnvp)
		defer freeCArgv(cEnvp, len(rewrittenEnvp))

		fp, ok := symbind.Resolve(symbolName)
		if !ok {
			return executor.ErrSymbolMissing
		}
		rc := C.catter_call_posix_spawn(unsafe.Pointer(fp), pid, cPath, fileActions, attrp, cArgv, cEnvp)
		if rc != 0 {
			*spawnErrno = int(rc)
			return syscall.Errno(rc)
		}
		return nil
	}
}

func makeExecveInvoker() executor.Invoker {
	return func(path string, argv, envp []string) error {
		cPath := C.CString(path)
		defer C.free(unsafe.Pointer(cPath))
		cArgv := sliceToCArgv(argv)
		defer freeCArgv(cArgv, len(argv))
		cEnvp := sliceToCArgv(envp)
		defer freeCArgv(cEnvp, len(envp))

		fp, ok := symbind.Resolve("execve")
		if !ok {
			return executor.ErrSymbolMissing
		}
		rc := C.catter_call_execve(unsafe.Pointer(fp), cPath, cArgv, cEnvp)
		if rc != 0 {
			return syscall.Errno(rc)
		}
		return nil
	}
}

func makeExecvpInvoker() executor.Invoker {
	return func(file string, argv, _ []string) error {
		cFile := C.CString(file)
		defer C.free(unsafe.Pointer(cFile))
		cArgv := sliceToCArgv(argv)
		defer freeCArgv(cArgv, len(argv))

		fp, ok := symbind.Resolve("execvp")
		if !ok {
			return executor.ErrSymbolMissing
		}
		rc := C.catter_call_execvp(unsafe.Pointer(fp), cFile, cArgv)
		if rc != 0 {
			return syscall.Errno(rc)
		}
		return nil
	}
}

func makeExecvpeInvoker() executor.Invoker {
	return func(file string, argv, envp []string) error {
		cFile := C.CString(file)
		defer C.free(unsafe.Pointer(cFile))
		cArgv := sliceToCArgv(argv)
		defer freeCArgv(cArgv, len(argv))
		cEnvp := sliceToCArgv(envp)
		defer freeCArgv(cEnvp, len(envp))

		fp, ok := symbind.Resolve("execvpe")
		if !ok {
			return executor.ErrSymbolMissing
		}
		rc := C.catter_call_execvpe(unsafe.Pointer(fp), cFile, cArgv, cEnvp)
		if rc != 0 {
			return syscall.Errno(rc)
		}
		return nil
	}
}

func makeExecvPInvoker(searchPath string) executor.Invoker {
	return func(file string, argv, _ []string) error {
		cFile := C.CString(file)
		defer C.free(unsafe.Pointer(cFile))
		cSearchPath := C.CString(searchPath)
		defer C.free(unsafe.Pointer(cSearchPath))
		cArgv := sliceToCArgv(argv)
		defer freeCArgv(cArgv, len(argv))

		fp, ok := symbind.Resolve("execvP")
		if !ok {
			return executor.ErrSymbolMissing
		}
		rc := C.catter_call_execvP(unsafe.Pointer(fp), cFile, cSearchPath, cArgv)
		if rc != 0 {
			return syscall.Errno(rc)
		}
		return nil
	}
}

// catterDispatchExecl, catterDispatchExeclp and catterDispatchExecle are
// called from shim.c once it has normalized the variadic argument list
// into a NULL-terminated argv.

//export catterDispatchExecl
func catterDispatchExecl(path *C.char, argv **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cArgvToSlice(argv)
	invoke := makeExecveInvoker()
	withRewrite(false, goPath, goArgv, nil, invoke)
	return -1
}

//export catterDispatchExeclp
func catterDispatchExeclp(file *C.char, argv **C.char) C.int {
	goFile := C.GoString(file)
	goArgv := cArgvToSlice(argv)
	// execlp searches PATH, so its short-circuit must delegate to execvp,
	// not execve.
	withRewrite(true, goFile, goArgv, nil, makeExecvpInvoker())
	return -1
}

//export catterDispatchExecle
func catterDispatchExecle(path *C.char, argv **C.char, envp **C.char) C.int {
	goPath := C.GoString(path)
	goArgv := cArgvToSlice(argv)
	goEnvp := cArgvToSlice(envp)
	invoke := makeExecveInvoker()
	withRewrite(false, goPath, goArgv, goEnvp, invoke)
	return -1
}

