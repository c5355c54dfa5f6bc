package session

import "testing"

func TestLoadValidSession(t *testing.T) {
	env := []string{
		"__key_catter_proxy_path_v1=/opt/c/proxy",
		"__key_catter_command_id_v1=42",
		"HOME=/root",
	}

	s := Load(env)
	if !s.Valid() {
		t.Fatal("expected valid session")
	}
	if s.ProxyPath != "/opt/c/proxy" || s.SelfID != "42" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.NecessaryEntries[0] != "__key_catter_proxy_path_v1=/opt/c/proxy" {
		t.Fatalf("unexpected entry[0]: %q", s.NecessaryEntries[0])
	}
	if s.NecessaryEntries[1] != "__key_catter_command_id_v1=42" {
		t.Fatalf("unexpected entry[1]: %q", s.NecessaryEntries[1])
	}
}

func TestLoadInvalidSessionMissingKeys(t *testing.T) {
	s := Load([]string{"HOME=/root"})
	if s.Valid() {
		t.Fatal("expected invalid session")
	}
}

func TestLoadInvalidSessionEmptyValue(t *testing.T) {
	s := Load([]string{
		"__key_catter_proxy_path_v1=",
		"__key_catter_command_id_v1=42",
	})
	if s.Valid() {
		t.Fatal("empty proxy path must be invalid")
	}
}

func TestWriteOnce(t *testing.T) {
	var w WriteOnce[Session]
	if w.Loaded() {
		t.Fatal("expected not loaded")
	}

	s := Load([]string{
		"__key_catter_proxy_path_v1=/opt/c/proxy",
		"__key_catter_command_id_v1=42",
	})
	if !w.Store(s) {
		t.Fatal("expected first store to win")
	}
	if w.Store(Session{}) {
		t.Fatal("expected second store to lose")
	}
	if w.Load().SelfID != "42" {
		t.Fatal("expected first stored value to be retained")
	}
}
