package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the workspace manifest file name.
const ManifestName = "kamin.yml"

// LockfileName is the resolved-library lockfile name.
const LockfileName = "kamin.lock"

// Manifest represents the parsed contents of kamin.yml: which surface
// language a workspace runs, evaluation limits, and the source libraries
// it preloads.
type Manifest struct {
	Path      string
	Language  string
	MaxDepth  int
	LoadPaths []string
	Libraries map[string]*LibrarySpec

	libraryOrder []string
}

// LibrarySpec describes one source-library dependency: either a local path
// or a git repository, optionally pinned to a rev, tag, or branch.
type LibrarySpec struct {
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// ValidationError aggregates manifest problems so a user sees them all at
// once.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest %s invalid:\n  - %s", e.Path, strings.Join(e.Issues, "\n  - "))
}

// LoadManifest parses and validates kamin.yml at path.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Languages a manifest may select. The CLI maps these onto bundles.
var knownLanguages = map[string]bool{
	"basic": true,
	"apl":   true,
	"lisp":  true,
}

func (m *Manifest) validate() error {
	errs := ValidationError{Path: m.Path}
	if m.Language == "" {
		errs.Issues = append(errs.Issues, "language must be provided")
	} else if !knownLanguages[m.Language] {
		errs.Issues = append(errs.Issues, fmt.Sprintf("unknown language %q", m.Language))
	}
	if m.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, "max_depth must not be negative")
	}
	for i, path := range m.LoadPaths {
		if strings.TrimSpace(path) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("load_paths[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.libraryOrder {
		lib := m.Libraries[name]
		if lib == nil {
			continue
		}
		lib.normalize()
		for _, issue := range lib.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("libraries.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// LibraryNames returns the declared library names in manifest order.
func (m *Manifest) LibraryNames() []string {
	out := make([]string, len(m.libraryOrder))
	copy(out, m.libraryOrder)
	return out
}

func (s *LibrarySpec) normalize() {
	s.Path = strings.TrimSpace(s.Path)
	s.Git = strings.TrimSpace(s.Git)
	s.Rev = strings.TrimSpace(s.Rev)
	s.Tag = strings.TrimSpace(s.Tag)
	s.Branch = strings.TrimSpace(s.Branch)
}

func (s *LibrarySpec) validate() []string {
	var issues []string
	switch {
	case s.Path != "" && s.Git != "":
		issues = append(issues, "path and git are mutually exclusive")
	case s.Path == "" && s.Git == "":
		issues = append(issues, "either path or git must be provided")
	}
	if s.Path != "" && (s.Rev != "" || s.Tag != "" || s.Branch != "") {
		issues = append(issues, "rev, tag, and branch only apply to git libraries")
	}
	if s.Git != "" {
		pins := 0
		for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
			if pin != "" {
				pins++
			}
		}
		// An unpinned git library tracks the remote HEAD.
		if pins > 1 {
			issues = append(issues, "rev, tag, and branch are mutually exclusive")
		}
	}
	return issues
}

// FindManifest walks from dir upward looking for kamin.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", os.ErrNotExist
		}
		abs = parent
	}
}

//-----------------------------------------------------------------------------
// On-disk shape
//-----------------------------------------------------------------------------

type manifestFile struct {
	Language  string     `yaml:"language"`
	MaxDepth  int        `yaml:"max_depth"`
	LoadPaths []string   `yaml:"load_paths"`
	Libraries libraryMap `yaml:"libraries"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	libraries := make(map[string]*LibrarySpec, len(mf.Libraries.specs))
	for name, spec := range mf.Libraries.specs {
		libraries[name] = spec.clone()
	}
	order := make([]string, len(mf.Libraries.order))
	copy(order, mf.Libraries.order)

	return &Manifest{
		Path:         path,
		Language:     strings.TrimSpace(mf.Language),
		MaxDepth:     mf.MaxDepth,
		LoadPaths:    append([]string(nil), mf.LoadPaths...),
		Libraries:    libraries,
		libraryOrder: order,
	}
}

func (s *LibrarySpec) clone() *LibrarySpec {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// libraryMap preserves declaration order and accepts the shorthand
// `name: <git url>` alongside the full mapping form.
type libraryMap struct {
	specs map[string]*LibrarySpec
	order []string
}

func (lm *libraryMap) UnmarshalYAML(value *yaml.Node) error {
	lm.specs = make(map[string]*LibrarySpec)
	lm.order = nil
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("libraries must be a mapping")
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		name := strings.TrimSpace(keyNode.Value)
		if name == "" {
			return fmt.Errorf("libraries must not use empty keys")
		}
		if _, exists := lm.specs[name]; exists {
			return fmt.Errorf("library %q declared twice", name)
		}
		spec := &LibrarySpec{}
		switch valNode.Kind {
		case yaml.ScalarNode:
			spec.Git = strings.TrimSpace(valNode.Value)
		case yaml.MappingNode:
			var raw struct {
				Path   string `yaml:"path"`
				Git    string `yaml:"git"`
				Rev    string `yaml:"rev"`
				Tag    string `yaml:"tag"`
				Branch string `yaml:"branch"`
			}
			if err := valNode.Decode(&raw); err != nil {
				return fmt.Errorf("library %q: %w", name, err)
			}
			spec.Path = raw.Path
			spec.Git = raw.Git
			spec.Rev = raw.Rev
			spec.Tag = raw.Tag
			spec.Branch = raw.Branch
		default:
			return fmt.Errorf("library %q must be a string or mapping", name)
		}
		lm.specs[name] = spec
		lm.order = append(lm.order, name)
	}
	return nil
}
