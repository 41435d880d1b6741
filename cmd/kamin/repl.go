package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/mikkela/kamin/pkg/reader"
)

const (
	historyFile = ".kamin_history"
	promptMain  = "-> "
	promptCont  = ".. "
)

func runRepl(args []string) int {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	lang := flags.String("lang", "", "surface language (basic, apl, lisp)")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		return 1
	}

	setup, err := resolveSetup(".", *lang)
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

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFilePath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "kamin %s (%s)\nCtrl+C cancels input, Ctrl+D exits.\n", cliToolVersion, s.language)

	var pending strings.Builder
	for {
		prompt := promptMain
		if pending.Len() > 0 {
			prompt = promptCont
		}
		input, err := line.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			pending.Reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(os.Stdout)
			return 0
		case err != nil:
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return 1
		}

		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(input)
		src := pending.String()
		if strings.TrimSpace(src) == "" {
			pending.Reset()
			continue
		}

		val, err := s.evalForm(src)
		if errors.Is(err, reader.ErrIncomplete) {
			continue
		}
		pending.Reset()
		line.AppendHistory(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(os.Stdout, val.Display())
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
