// Package recorder implements an optional, best-effort per-thread log:
// one append-only file per "<pid>-<tid>" under a session-provided
// directory, each line either a captured command or an error-prefixed
// diagnostic.
package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fogsong233/catter/internal/platform"
	"github.com/sirupsen/logrus"
)

// Recorder writes one file per (pid, tid) under dir, opened once and
// reused for every subsequent record from the same thread, so writers
// for distinct threads never contend on the same file.
type Recorder struct {
	dir string

	mu    sync.Mutex
	files map[string]*os.File
}

// New returns a Recorder rooted at dir. dir is created lazily on first
// write so a Recorder can be constructed even when logging ends up
// disabled for this process.
func New(dir string) *Recorder {
	return &Recorder{dir: dir, files: make(map[string]*os.File)}
}

// RecordCommand appends a captured command line for the given
// (pid, tid). Failures are logged and swallowed: recording must never
// abort the real exec call.
func (r *Recorder) RecordCommand(pid, tid int, argv []string) {
	r.writeLine(pid, tid, joinArgv(argv))
}

// RecordError appends an error-prefixed diagnostic line.
func (r *Recorder) RecordError(pid, tid int, message string) {
	r.writeLine(pid, tid, platform.ErrorLinePrefix+message)
}

func (r *Recorder) writeLine(pid, tid int, line string) {
	if r == nil || r.dir == "" {
		return
	}
	f, err := r.fileFor(pid, tid)
	if err != nil {
		logrus.WithError(err).Debug("recorder: failed to open file, dropping record")
		return
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		logrus.WithError(err).Debug("recorder: failed to append record")
	}
}

func (r *Recorder) fileFor(pid, tid int) (*os.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%d-%d", pid, tid)
	if f, ok := r.files[key]; ok {
		return f, nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(r.dir, key), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	r.files[key] = f
	return f, nil
}

// Close flushes and closes every file this Recorder has opened.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, f := range r.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Line is one entry read back from a recorder file by ReadFile.
type Line struct {
	IsError bool
	Text    string
}

// ReadFile reads one "<pid>-<tid>" recorder file back into its Lines, for
// cmd/catter-collect.
func ReadFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.HasPrefix(text, platform.ErrorLinePrefix) {
			lines = append(lines, Line{IsError: true, Text: strings.TrimPrefix(text, platform.ErrorLinePrefix)})
			continue
		}
		lines = append(lines, Line{Text: text})
	}
	return lines, scanner.Err()
}

// ParseFileName splits a recorder file's base name "<pid>-<tid>" back
// into its two integers.
func ParseFileName(name string) (pid, tid int, ok bool) {
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	p, err1 := strconv.Atoi(parts[0])
	t, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return p, t, true
}

func joinArgv(argv []string) string {
	out := ""
	for i, a := range argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
