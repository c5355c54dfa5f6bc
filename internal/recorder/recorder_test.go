package recorder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderAppendsPerThreadFile(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	defer r.Close()

	r.RecordCommand(100, 200, []string{"/bin/echo", "hi"})
	r.RecordError(100, 200, "boom")

	data, err := os.ReadFile(filepath.Join(dir, "100-200"))
	if err != nil {
		t.Fatal(err)
	}
	want := "/bin/echo hi\nlinux or mac error found in hook:boom\n"
	if string(data) != want {
		t.Fatalf("got %q want %q", string(data), want)
	}
}

func TestRecorderSeparatesThreads(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	defer r.Close()

	r.RecordCommand(1, 2, []string{"a"})
	r.RecordCommand(1, 3, []string{"b"})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 files, got %d", len(entries))
	}
}

func TestReadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	r.RecordCommand(10, 20, []string{"/bin/ls", "-l"})
	r.RecordError(10, 20, "boom")
	r.Close()

	lines, err := ReadFile(filepath.Join(dir, "10-20"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %v", lines)
	}
	if lines[0].IsError || lines[0].Text != "/bin/ls -l" {
		t.Fatalf("got %+v", lines[0])
	}
	if !lines[1].IsError || lines[1].Text != "boom" {
		t.Fatalf("got %+v", lines[1])
	}
}

func TestParseFileName(t *testing.T) {
	pid, tid, ok := ParseFileName("123-456")
	if !ok || pid != 123 || tid != 456 {
		t.Fatalf("got %d %d %v", pid, tid, ok)
	}
	if _, _, ok := ParseFileName("not-a-pid-tid-file"); ok {
		t.Fatal("expected rejection")
	}
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *Recorder
	r.RecordCommand(1, 1, []string{"x"})
	r.RecordError(1, 1, "y")
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}
