package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComposeAndStrip(t *testing.T) {
	content := Compose([]string{"Detailed quote", "Lines starting with '#' are ignored."}, "weight: 10\n  # indented comment\nserviceLevel: Standard")
	want := "# Detailed quote\n# Lines starting with '#' are ignored.\nweight: 10\n  # indented comment\nserviceLevel: Standard\n"
	if content != want {
		t.Fatalf("Compose=%q", content)
	}
	body, ok := StripComments(content)
	if !ok {
		t.Fatalf("expected content")
	}
	if body != "weight: 10\nserviceLevel: Standard\n" {
		t.Fatalf("StripComments=%q", body)
	}
	if _, ok := StripComments("# only\n\n  \n"); ok {
		t.Fatalf("comments only should be empty")
	}
}

func TestTempPathUsesRuntimeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	p, err := TempPath("quote.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "freightdesk", "quote.yaml") {
		t.Fatalf("TempPath=%q", p)
	}
}

func TestOpenAtRunsEditor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "form.yaml")
	script := filepath.Join(dir, "ed.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'weight: 5' >> \"$1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VISUAL", script)

	out, changed, err := OpenAt(path, []byte("# form\n"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	if !changed || string(out) != "# form\nweight: 5\n" {
		t.Fatalf("changed=%v out=%q", changed, out)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("perm: %v %v", err, info)
	}
}
