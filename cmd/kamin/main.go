package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikkela/kamin/pkg/driver"
)

const cliToolVersion = "kamin-cli 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: kamin <command> [arguments]

Commands:
  run [-lang name] <file>   evaluate every form in a source file
  repl [-lang name]         interactive session with line editing
  deps install              fetch the manifest's git libraries
  deps update               refetch git libraries, ignoring the lockfile
  version                   print the tool version

Without a manifest (kamin.yml), -lang selects the language; with one, the
manifest decides and -lang overrides.`)
}

// sessionSetup carries everything resolved before a session starts.
type sessionSetup struct {
	language string
	maxDepth int
	manifest *driver.Manifest
}

// resolveSetup locates a manifest near dir (if any) and applies the -lang
// override.
func resolveSetup(dir, langOverride string) (*sessionSetup, error) {
	setup := &sessionSetup{language: langOverride}

	manifestPath, err := driver.FindManifest(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		setup.manifest = manifest
		setup.maxDepth = manifest.MaxDepth
		if setup.language == "" {
			setup.language = manifest.Language
		}
	}

	if setup.language == "" {
		return nil, fmt.Errorf("no language selected: provide -lang or a %s manifest", driver.ManifestName)
	}
	return setup, nil
}

// preload evaluates every manifest library source into the session before
// user forms run.
func preload(s *session, manifest *driver.Manifest) error {
	if manifest == nil {
		return nil
	}
	loader := driver.NewLoader(manifest, driver.CacheDir(manifest.Path))
	sources, err := loader.Sources()
	if err != nil {
		return err
	}
	for _, path := range sources {
		if err := s.loadFile(path); err != nil {
			return fmt.Errorf("preload %s: %w", path, err)
		}
	}
	return nil
}

func runEntry(args []string) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	lang := flags.String("lang", "", "surface language (basic, apl, lisp)")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "kamin run requires exactly one source file")
		return 1
	}
	path := flags.Arg(0)

	setup, err := resolveSetup(filepath.Dir(path), *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	s, err := newSession(setup.language, setup.maxDepth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := preload(s, setup.manifest); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	values, err := s.evalSource(string(source))
	for _, val := range values {
		fmt.Fprintln(os.Stdout, val.Display())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
