package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of preloadable source files.
const SourceExt = ".kam"

// CacheDirName is the per-workspace cache directory holding fetched git
// libraries.
const CacheDirName = ".kamin"

// CacheDir returns the library cache directory for a manifest.
func CacheDir(manifestPath string) string {
	return filepath.Join(filepath.Dir(manifestPath), CacheDirName)
}

// LibraryDir returns the cache directory one named library checks out into.
func LibraryDir(cacheDir, name string) string {
	return filepath.Join(cacheDir, "lib", sanitizeSegment(name))
}

// Loader resolves the source files a session preloads before its first
// interactive form: manifest load paths first, then declared libraries in
// manifest order.
type Loader struct {
	paths []string
}

// NewLoader builds the search paths for manifest, resolving path libraries
// relative to the manifest and git libraries through the cache.
func NewLoader(manifest *Manifest, cacheDir string) *Loader {
	root := filepath.Dir(manifest.Path)
	var paths []string
	for _, p := range manifest.LoadPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}
	for _, name := range manifest.LibraryNames() {
		lib := manifest.Libraries[name]
		if lib == nil {
			continue
		}
		if lib.Path != "" {
			p := lib.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			paths = append(paths, p)
			continue
		}
		paths = append(paths, LibraryDir(cacheDir, name))
	}
	return &Loader{paths: paths}
}

// Sources returns every preloadable source file under the search paths, in
// path order with files sorted within each path. A missing git-library
// checkout is reported so the user knows to run deps install.
func (l *Loader) Sources() ([]string, error) {
	var out []string
	for _, root := range l.paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w (run deps install for git libraries)", root, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, SourceExt) {
				out = append(out, root)
			}
			continue
		}
		var files []string
		err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), SourceExt) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("loader: walk %s: %w", root, err)
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// DirChecksum hashes every file under path by name and content, giving the
// lockfile a stable fingerprint for a checkout.
func DirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "library"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "library"
	}
	return out
}
