// Package platform centralizes the per-OS constants the interception
// pipeline needs: environment variable keys, path separators, and the
// PATH_MAX-style bound used to reject over-long resolver candidates.
package platform

const (
	// KeyProxyPath is the environment key the preload library reads to
	// learn the absolute path of the proxy executable.
	KeyProxyPath = "__key_catter_proxy_path_v1"

	// KeyCommandID is the environment key carrying the ASCII command id
	// assigned by the controller to this invocation.
	KeyCommandID = "__key_catter_command_id_v1"

	// KeyProxyMarker, when present (any non-empty value) in the proxy's
	// own environment, tells the hook library to short-circuit and call
	// the original libc symbol directly.
	KeyProxyMarker = "exec_is_catter_proxy_v1"

	// ErrorLinePrefix marks a recorder-file line as a diagnostic rather
	// than a captured command.
	ErrorLinePrefix = "linux or mac error found in hook:"

	// KeyHookLibPath carries the preload library's own absolute path, so
	// the Executor can ensure it is reinstated first in the preload key
	// of a rewritten child environment.
	KeyHookLibPath = "__catter_hook_lib_path_v1"

	// KeyLogDir, when present, enables the best-effort per-thread
	// recorder and names the directory its files are written under.
	KeyLogDir = "__catter_file_to_append_v1"

	// DirSeparator separates path components.
	DirSeparator = '/'

	// ListSeparator separates entries in PATH-style search lists.
	ListSeparator = ':'

	// PathMax mirrors POSIX PATH_MAX; candidates whose assembled length
	// would reach or exceed it are rejected so the trailing NUL a libc
	// implementation would require never overflows.
	PathMax = 4096
)
