package envinject

import (
	"testing"

	"github.com/fogsong233/catter/internal/session"
)

func testSession() session.Session {
	return session.Session{
		ProxyPath:        "/opt/c/proxy",
		SelfID:           "42",
		NecessaryEntries: [2]string{"__key_catter_proxy_path_v1=/opt/c/proxy", "__key_catter_command_id_v1=42"},
		SelfLibPath:      "/opt/c/lib.so",
	}
}

func TestApplyBuildsFreshWhenKeyAbsent(t *testing.T) {
	sess := testSession()
	out, err := Apply(nil, "LD_PRELOAD", sess.SelfLibPath, sess)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{
		"__key_catter_proxy_path_v1=/opt/c/proxy": true,
		"__key_catter_command_id_v1=42":           true,
		"LD_PRELOAD=/opt/c/lib.so":                true,
	}
	if len(out) != 3 {
		t.Fatalf("got %v", out)
	}
	for _, e := range out {
		if !want[e] {
			t.Fatalf("unexpected entry %q", e)
		}
	}
}

func TestApplyPrependsWhenKeyPresentWithoutLib(t *testing.T) {
	sess := testSession()
	env := []string{"LD_PRELOAD=/usr/lib/other.so", "PATH=/bin"}
	out, err := Apply(env, "LD_PRELOAD", sess.SelfLibPath, sess)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := lookup(out, "LD_PRELOAD")
	if !ok || v != "/opt/c/lib.so:/usr/lib/other.so" {
		t.Fatalf("got LD_PRELOAD=%q", v)
	}
	if _, ok := lookup(out, "PATH"); !ok {
		t.Fatal("PATH entry dropped")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	sess := testSession()
	env := []string{
		"LD_PRELOAD=/opt/c/lib.so:/usr/lib/other.so",
		"__key_catter_proxy_path_v1=/opt/c/proxy",
		"__key_catter_command_id_v1=42",
	}
	out, err := Apply(env, "LD_PRELOAD", sess.SelfLibPath, sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(env) {
		t.Fatalf("got %v want unchanged %v", out, env)
	}
	for i := range env {
		if out[i] != env[i] {
			t.Fatalf("got %v want unchanged %v", out, env)
		}
	}
}

func TestApplyDoesNotMutateCallerSlice(t *testing.T) {
	sess := testSession()
	env := []string{"LD_PRELOAD=/usr/lib/other.so"}
	snapshot := append([]string(nil), env...)
	if _, err := Apply(env, "LD_PRELOAD", sess.SelfLibPath, sess); err != nil {
		t.Fatal(err)
	}
	for i := range env {
		if env[i] != snapshot[i] {
			t.Fatalf("caller slice mutated: %v", env)
		}
	}
}

func lookup(env []string, key string) (string, bool) {
	for _, e := range env {
		if len(e) > len(key) && e[:len(key)] == key && e[len(key)] == '=' {
			return e[len(key)+1:], true
		}
	}
	return "", false
}
