package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Sushisource/fsmgen/dsl"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	in := fs.String("in", "", "Input definition file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmgen validate [options]

Parse and validate a definition without generating code.

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

	fmt.Printf("%s: machine %s, %d states, %d events, %d transitions\n",
		*in, def.Name, len(def.StateNames()), len(def.Events()), len(def.Transitions))
	for _, state := range def.StateNames() {
		group := def.TransitionsFrom(state)
		if len(group) == 0 {
			fmt.Printf("  %s (terminal)\n", state)
			continue
		}
		fmt.Printf("  %s\n", state)
		for _, t := range group {
			fmt.Printf("    %s\n", t)
		}
	}
	return nil
}
