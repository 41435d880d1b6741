package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
language: lisp
max_depth: 200
load_paths:
  - lib
  - shared/prelude
libraries:
  stdlib: https://example.com/kamin-stdlib.git
  local:
    path: vendor/local
  pinned:
    git: https://example.com/pinned.git
    tag: v1.2.0
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manifest.Language != "lisp" {
		t.Fatalf("unexpected language %q", manifest.Language)
	}
	if manifest.MaxDepth != 200 {
		t.Fatalf("unexpected max_depth %d", manifest.MaxDepth)
	}
	if len(manifest.LoadPaths) != 2 || manifest.LoadPaths[1] != "shared/prelude" {
		t.Fatalf("unexpected load paths %v", manifest.LoadPaths)
	}

	names := manifest.LibraryNames()
	if len(names) != 3 || names[0] != "stdlib" || names[1] != "local" || names[2] != "pinned" {
		t.Fatalf("unexpected library order %v", names)
	}
	// The scalar shorthand is a git URL tracking the remote HEAD.
	stdlib := manifest.Libraries["stdlib"]
	if stdlib.Git != "https://example.com/kamin-stdlib.git" || stdlib.Rev != "" || stdlib.Tag != "" || stdlib.Branch != "" {
		t.Fatalf("unexpected spec %#v", stdlib)
	}
	if manifest.Libraries["pinned"].Tag != "v1.2.0" {
		t.Fatalf("unexpected spec %#v", manifest.Libraries["pinned"])
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
language: basic
interpreter: tree-walking
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected error for unknown top-level field")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
language: fortran
max_depth: -1
libraries:
  broken:
    path: vendor/broken
    git: https://example.com/broken.git
  unpinnable:
    git: https://example.com/x.git
    tag: v1
    branch: main
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	expected := []string{
		`unknown language "fortran"`,
		"max_depth must not be negative",
		"libraries.broken: path and git are mutually exclusive",
		"libraries.unpinnable: rev, tag, and branch are mutually exclusive",
	}
	for _, issue := range expected {
		found := false
		for _, got := range verr.Issues {
			if strings.Contains(got, issue) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing issue %q in %v", issue, verr.Issues)
		}
	}
}

func TestLoadManifestRejectsDuplicateLibraries(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
language: basic
libraries:
  dup: https://example.com/a.git
  dup: https://example.com/b.git
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected error for duplicate library name")
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected error for empty manifest")
	}
}

func TestFindManifestWalksUpward(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "language: basic\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != path {
		t.Fatalf("expected %s, got %s", path, found)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
