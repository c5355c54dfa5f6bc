package proxy

import "testing"

func TestParseArgsWellFormedCommand(t *testing.T) {
	parsed, err := ParseArgs([]string{"-p", "42", "--", "/bin/echo", "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if parsed.ParentID != 42 || parsed.IsDiagnostic {
		t.Fatalf("got %+v", parsed)
	}
	if parsed.Exe != "/bin/echo" || len(parsed.Args) != 2 {
		t.Fatalf("got %+v", parsed)
	}
}

func TestParseArgsDiagnosticWhenNoSeparator(t *testing.T) {
	parsed, err := ParseArgs([]string{"-p", "1", "Catter Proxy Error: boom"})
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.IsDiagnostic || parsed.Diagnostic != "Catter Proxy Error: boom" {
		t.Fatalf("got %+v", parsed)
	}
}

func TestParseArgsRejectsMissingFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"42", "--", "/bin/true"}); err != ErrNotParsed {
		t.Fatalf("got %v", err)
	}
}

func TestParseArgsRejectsNonIntegerID(t *testing.T) {
	if _, err := ParseArgs([]string{"-p", "abc", "--", "/bin/true"}); err != ErrNotParsed {
		t.Fatalf("got %v", err)
	}
}
