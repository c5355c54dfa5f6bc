// Package resolve reimplements the libc execvp/execvpe executable lookup
// rules: a file containing a directory separator is used as-is, otherwise
// each entry of a search path is tried in order. It exists so the hook
// library can decide which binary to run before the real exec call ever
// happens, without depending on anything the interposed libc might have
// redirected.
package resolve

import (
	"errors"
	"os"
	"strings"

	"github.com/fogsong233/catter/internal/envutil"
	"github.com/fogsong233/catter/internal/platform"
)

// Sentinel errno-kinds surfaced when resolution fails.
var (
	ErrNotFound      = errors.New("executable not found")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrNotExecutable  = errors.New("not executable")
)

func containsDirSeparator(file string) bool {
	return strings.IndexByte(file, platform.DirSeparator) >= 0
}

// FromCurrentDirectory treats file as a path (relative or absolute) and
// requires it to exist, be a regular file, and be executable by the
// current effective UID.
func FromCurrentDirectory(file string) (string, error) {
	info, err := os.Stat(file)
	if err != nil {
		return "", ErrNotFound
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegularFile
	}
	if err := unixAccessExecutable(file); err != nil {
		return "", ErrNotExecutable
	}
	return file, nil
}

// FromSearchPath mirrors execvp's behavior given an explicit search path:
// if file contains a directory separator it is used as-is; otherwise each
// ':'-separated, non-empty segment of searchPath is tried in order, and
// the first candidate that exists, is a regular file, and is executable
// wins.
func FromSearchPath(file string, searchPath string) (string, error) {
	if containsDirSeparator(file) {
		return FromCurrentDirectory(file)
	}

	for _, dir := range envutil.SplitList(searchPath, platform.ListSeparator) {
		// +1 for the separator, +1 for the trailing NUL a libc caller
		// would need to store.
		if len(file)+len(dir)+2 > platform.PathMax {
			continue
		}
		candidate := dir + "/" + file
		if resolved, err := FromCurrentDirectory(candidate); err == nil {
			return resolved, nil
		}
	}
	return "", ErrNotFound
}

// FromPath resolves file using the PATH entry of env, falling back to the
// platform's default search path when PATH is absent — the confstr
// equivalent used by execvp when PATH is unset.
func FromPath(file string, env []string) (string, error) {
	if containsDirSeparator(file) {
		return FromCurrentDirectory(file)
	}

	if pathValue, ok := envutil.ValueOf(env, "PATH"); ok {
		return FromSearchPath(file, pathValue)
	}
	if platform.DefaultSearchPath != "" {
		return FromSearchPath(file, platform.DefaultSearchPath)
	}
	return "", ErrNotFound
}
