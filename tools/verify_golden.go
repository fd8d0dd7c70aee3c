//go:build ignore

// verify_golden.go — cross-check the compiler's output against a
// directory of golden fixtures.
// Run: go run tools/verify_golden.go <fixtures-dir>
//
// Each fixture is a pair of files sharing a basename: "<name>.src" (a
// DSP description) and "<name>.expected" (the flat assembler text the
// compiler must produce for it). Every mismatch is reported to stderr
// before the tool exits non-zero, so a single run surfaces every
// failing fixture rather than just the first.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oisee/aicadsp/internal/emit"
	"github.com/oisee/aicadsp/internal/lexer"
	"github.com/oisee/aicadsp/internal/lower"
	"github.com/oisee/aicadsp/internal/peephole"
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/verify"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: go run tools/verify_golden.go <fixtures-dir>\n")
		os.Exit(1)
	}
	dir := os.Args[1]

	names, err := fixtureNames(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan %s: %v\n", dir, err)
		os.Exit(1)
	}

	matches, mismatches := 0, 0
	for _, name := range names {
		got, err := compileFixture(filepath.Join(dir, name+".src"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: compile error: %v\n", name, err)
			mismatches++
			continue
		}
		want, err := os.ReadFile(filepath.Join(dir, name+".expected"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: missing .expected: %v\n", name, err)
			mismatches++
			continue
		}
		if strings.TrimSpace(got) == strings.TrimSpace(string(want)) {
			matches++
			continue
		}
		mismatches++
		fmt.Fprintf(os.Stderr, "MISMATCH %s:\n--- got ---\n%s\n--- want ---\n%s\n", name, got, want)
	}

	fmt.Fprintf(os.Stderr, "\nResults: %d matches, %d mismatches out of %d fixtures\n",
		matches, mismatches, matches+mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "ALL FIXTURES PASSED\n")
}

// fixtureNames returns the sorted, deduplicated basenames of every
// "*.src" file in dir.
func fixtureNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".src") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".src"))
	}
	sort.Strings(names)
	return names, nil
}

// compileFixture runs the full pipeline over one source file and
// returns the emitted text.
func compileFixture(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	p := program.New()
	l := lower.New(p)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := lexer.Classify(scanner.Text())
		switch line.Kind {
		case lexer.Madrs:
			p.MadrsLines = append(p.MadrsLines, line.Text)
		case lexer.Statement:
			if err := l.Process(line.Text); err != nil {
				if _, ok := err.(*lower.SemanticError); ok {
					return "", err
				}
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	peephole.LoadPipeline(p)
	peephole.TrickleDown(p)
	peephole.DropNops(p)

	if err := verify.All(p); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := emit.Emit(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}
