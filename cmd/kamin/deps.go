package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mikkela/kamin/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "kamin deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		return runDepsInstall(false)
	case "update":
		return runDepsInstall(true)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// runDepsInstall fetches every git library the manifest declares. With
// force, locked entries are refetched; without it, an existing checkout
// matching the lockfile is kept.
func runDepsInstall(force bool) int {
	manifestPath, err := driver.FindManifest(".")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%s not found\n", driver.ManifestName)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	lockPath := filepath.Join(filepath.Dir(manifestPath), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		lock = driver.NewLockfile(manifest.Language, cliToolVersion)
	}

	cacheDir := driver.CacheDir(manifestPath)
	fetched := 0
	for _, name := range manifest.LibraryNames() {
		spec := manifest.Libraries[name]
		if spec == nil || spec.Git == "" {
			continue
		}
		entry, kept, err := ensureLibrary(cacheDir, name, spec, lock, force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "library %s: %v\n", name, err)
			return 1
		}
		lock.Upsert(entry)
		if kept {
			fmt.Fprintf(os.Stdout, "%s %s (cached)\n", name, entry.Commit)
		} else {
			fmt.Fprintf(os.Stdout, "%s %s\n", name, entry.Commit)
			fetched++
		}
	}

	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "fetched %d library(ies)\n", fetched)
	return 0
}

// ensureLibrary returns the locked entry for one git library, cloning and
// checking out when the cache cannot satisfy it.
func ensureLibrary(cacheDir, name string, spec *driver.LibrarySpec, lock *driver.Lockfile, force bool) (*driver.LockedLibrary, bool, error) {
	target := driver.LibraryDir(cacheDir, name)

	if !force {
		if locked, ok := lock.Find(name); ok && locked.Commit != "" {
			if info, err := os.Stat(target); err == nil && info.IsDir() {
				checksum, err := driver.DirChecksum(target)
				if err == nil && checksum == locked.Checksum {
					return locked, true, nil
				}
			}
		}
	}

	commit, err := checkout(target, spec)
	if err != nil {
		return nil, false, err
	}
	checksum, err := driver.DirChecksum(target)
	if err != nil {
		return nil, false, err
	}
	return &driver.LockedLibrary{
		Name:     name,
		Commit:   commit,
		Source:   fmt.Sprintf("git+%s@%s", spec.Git, commit),
		Checksum: checksum,
	}, false, nil
}

// checkout clones spec.Git into a scratch directory, resolves the pinned
// revision, and moves the result into target.
func checkout(target string, spec *driver.LibrarySpec) (string, error) {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp(parent, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               spec.Git,
		Depth:             0,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", spec.Git, err)
	}

	revision := revisionFromSpec(spec)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.RemoveAll(target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}

func revisionFromSpec(spec *driver.LibrarySpec) plumbing.Revision {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + strings.TrimSpace(spec.Tag))
	case spec.Branch != "":
		return plumbing.Revision("refs/heads/" + strings.TrimSpace(spec.Branch))
	default:
		return plumbing.Revision("HEAD")
	}
}
