package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapa.toml")
	content := `top = "VecAdd"
work = "build"
sources = ["kernel/main.go"]
tags = ["hls"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := loadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := manifest{
		Top:     "VecAdd",
		Work:    "build",
		Sources: []string{"kernel/main.go"},
		Tags:    []string{"hls"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapa.toml")
	if err := os.WriteFile(path, []byte("bogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadManifest(path); err == nil {
		t.Fatalf("expected unknown-key error")
	}
}

func TestLoadManifestExplicitMustExist(t *testing.T) {
	if _, err := loadManifest(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing explicit manifest")
	}
}

func TestLoadManifestDefaultIsOptional(t *testing.T) {
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
	m, err := loadManifest("")
	if err != nil {
		t.Fatalf("missing default manifest should not error: %v", err)
	}
	if m.Top != "" || m.Work != "" {
		t.Errorf("expected zero manifest, got %+v", m)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"compile", "graph"} {
		if !names[want] {
			t.Errorf("missing subcommand %s", want)
		}
	}
}
