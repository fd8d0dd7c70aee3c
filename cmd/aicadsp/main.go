// Command aicadsp compiles a high-level AICA DSP description into the
// downstream assembler's flat microcode text.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/oisee/aicadsp/internal/emit"
	"github.com/oisee/aicadsp/internal/lexer"
	"github.com/oisee/aicadsp/internal/lower"
	"github.com/oisee/aicadsp/internal/peephole"
	"github.com/oisee/aicadsp/internal/program"
	"github.com/oisee/aicadsp/internal/verify"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool
	var dumpJSON string

	rootCmd := &cobra.Command{
		Use:   "aicadsp <input> <output>",
		Short: "Compile an AICA DSP description into microcode assembler text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compile(args[0], args[1], verbose, dumpJSON)
		},
	}
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a summary of the compiled program")
	rootCmd.Flags().StringVar(&dumpJSON, "dump-json", "", "Also write the compiled program as JSON to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func compile(inputPath, outputPath string, verbose bool, dumpJSON string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	p := program.New()
	l := lower.New(p)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := lexer.Classify(scanner.Text())
		switch line.Kind {
		case lexer.Blank, lexer.Comment:
			continue
		case lexer.Madrs:
			p.MadrsLines = append(p.MadrsLines, line.Text)
		case lexer.Statement:
			if err := l.Process(line.Text); err != nil {
				var semErr *lower.SemanticError
				if errors.As(err, &semErr) {
					return err
				}
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "lowered: %d steps, %d MADRS lines\n", p.Len(), len(p.MadrsLines))
	}

	peephole.LoadPipeline(p)
	if verbose {
		fmt.Fprintf(os.Stderr, "load_pipeline: %d steps\n", p.Len())
	}
	peephole.TrickleDown(p)
	if verbose {
		fmt.Fprintf(os.Stderr, "trickle_down: %d steps\n", p.Len())
	}
	peephole.DropNops(p)
	if verbose {
		fmt.Fprintf(os.Stderr, "drop_nops: %d steps\n", p.Len())
	}

	if err := verify.All(p); err != nil {
		return fmt.Errorf("compiled program failed its own invariants: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := emit.Emit(out, p); err != nil {
		return err
	}

	if dumpJSON != "" {
		jf, err := os.Create(dumpJSON)
		if err != nil {
			return err
		}
		defer jf.Close()
		if err := program.WriteJSON(jf, p); err != nil {
			return err
		}
	}
	return nil
}
