package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Sushisource/fsmgen/codegen"
	"github.com/Sushisource/fsmgen/dsl"
)

func dot(args []string) error {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	in := fs.String("in", "", "Input definition file (required)")
	out := fs.String("out", "", "Output DOT file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmgen dot [options]

Render a definition as a Graphviz digraph.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	source, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	def, err := dsl.ParseDefinition(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}

	graph := codegen.GenerateDOT(def)
	if *out == "" {
		fmt.Print(graph)
		return nil
	}
	return os.WriteFile(*out, []byte(graph), 0o644)
}
