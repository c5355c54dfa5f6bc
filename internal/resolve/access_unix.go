//go:build linux || darwin

package resolve

import "golang.org/x/sys/unix"

// unixAccessExecutable checks X_OK for the current effective UID/GID,
// mirroring the access(2) check execvp itself performs instead of
// trusting the mode bits alone (which would miss ACLs, mount options
// such as noexec, and effective-vs-real UID differences).
func unixAccessExecutable(path string) error {
	return unix.Access(path, unix.X_OK)
}
