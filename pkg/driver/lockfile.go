package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lockfile models kamin.lock: the resolved state of every git library the
// manifest declares, so later installs reproduce the same sources.
type Lockfile struct {
	Path      string
	Language  string
	Generated string
	Tool      string
	Libraries []*LockedLibrary
}

// LockedLibrary captures one resolved library entry.
type LockedLibrary struct {
	Name     string
	Commit   string
	Source   string
	Checksum string
}

// NewLockfile constructs a lockfile seeded for the given language.
func NewLockfile(language, tool string) *Lockfile {
	return &Lockfile{
		Language:  strings.TrimSpace(language),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Libraries: []*LockedLibrary{},
	}
}

// LoadLockfile parses kamin.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the locked entry for name, if present.
func (l *Lockfile) Find(name string) (*LockedLibrary, bool) {
	for _, lib := range l.Libraries {
		if lib != nil && lib.Name == name {
			return lib, true
		}
	}
	return nil, false
}

// Upsert replaces or appends the entry for lib.Name.
func (l *Lockfile) Upsert(lib *LockedLibrary) {
	for i, existing := range l.Libraries {
		if existing != nil && existing.Name == lib.Name {
			l.Libraries[i] = lib
			return
		}
	}
	l.Libraries = append(l.Libraries, lib)
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Language = strings.TrimSpace(l.Language)
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Libraries, func(i, j int) bool {
		return l.Libraries[i].Name < l.Libraries[j].Name
	})
	for _, lib := range l.Libraries {
		if lib == nil {
			continue
		}
		lib.Name = strings.TrimSpace(lib.Name)
		lib.Commit = strings.TrimSpace(lib.Commit)
		lib.Source = strings.TrimSpace(lib.Source)
		lib.Checksum = strings.TrimSpace(lib.Checksum)
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	libs := make([]lockfileLibrary, 0, len(l.Libraries))
	for _, lib := range l.Libraries {
		if lib == nil {
			continue
		}
		libs = append(libs, lockfileLibrary{
			Name:     lib.Name,
			Commit:   lib.Commit,
			Source:   lib.Source,
			Checksum: lib.Checksum,
		})
	}
	return lockfileDisk{
		Language:  l.Language,
		Generated: l.Generated,
		Tool:      l.Tool,
		Libraries: libs,
	}
}

type lockfileDisk struct {
	Language  string            `yaml:"language"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Libraries []lockfileLibrary `yaml:"libraries"`
}

type lockfileLibrary struct {
	Name     string `yaml:"name"`
	Commit   string `yaml:"commit"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Language:  strings.TrimSpace(d.Language),
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Libraries: make([]*LockedLibrary, 0, len(d.Libraries)),
	}
	for _, lib := range d.Libraries {
		lock.Libraries = append(lock.Libraries, &LockedLibrary{
			Name:     strings.TrimSpace(lib.Name),
			Commit:   strings.TrimSpace(lib.Commit),
			Source:   strings.TrimSpace(lib.Source),
			Checksum: strings.TrimSpace(lib.Checksum),
		})
	}
	lock.normalize()
	return lock
}
