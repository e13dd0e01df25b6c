package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Sushisource/fsmgen/codegen"
	"github.com/Sushisource/fsmgen/dsl"
)

// target is one machine to compile, either from flags or a manifest entry.
type target struct {
	In      string `mapstructure:"in"`
	Out     string `mapstructure:"out"`
	Package string `mapstructure:"package"`
}

func generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	in := fs.String("in", "", "Input definition file")
	out := fs.String("out", "", "Output Go file (default: stdout)")
	pkg := fs.String("pkg", "", "Package name for the generated file")
	manifest := fs.String("config", "", "YAML manifest listing machines to generate")
	verbose := fs.Bool("verbose", false, "Log compile stages")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmgen generate [options]

Compile a transition-table definition to Go source.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Compile one definition
  fsmgen generate -in cardreader.fsm -pkg cardreader -out cardreader_gen.go

  # Compile every machine listed in a manifest
  fsmgen generate -config fsmgen.yaml

Manifest format (fsmgen.yaml):
  machines:
    - in: cardreader.fsm
      out: cardreader_gen.go
      package: cardreader
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	targets, err := resolveTargets(*manifest, *in, *out, *pkg)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if err := generateOne(t, logger); err != nil {
			return err
		}
	}
	return nil
}

func resolveTargets(manifest, in, out, pkg string) ([]target, error) {
	if manifest == "" {
		if in == "" {
			return nil, fmt.Errorf("either -in or -config is required")
		}
		if pkg == "" {
			return nil, fmt.Errorf("-pkg is required")
		}
		return []target{{In: in, Out: out, Package: pkg}}, nil
	}

	v := viper.New()
	v.SetConfigFile(manifest)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var targets []target
	if err := v.UnmarshalKey("machines", &targets); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("manifest %s lists no machines", manifest)
	}
	base := filepath.Dir(manifest)
	for i, t := range targets {
		if t.In == "" || t.Package == "" {
			return nil, fmt.Errorf("manifest entry %d: in and package are required", i)
		}
		// Manifest paths are relative to the manifest file.
		if !filepath.IsAbs(t.In) {
			targets[i].In = filepath.Join(base, t.In)
		}
		if t.Out != "" && !filepath.IsAbs(t.Out) {
			targets[i].Out = filepath.Join(base, t.Out)
		}
	}
	return targets, nil
}

func generateOne(t target, logger *zap.Logger) error {
	source, err := os.ReadFile(t.In)
	if err != nil {
		return err
	}
	logger.Info("parsing definition", zap.String("in", t.In))

	def, err := dsl.ParseDefinition(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", t.In, err)
	}
	logger.Info("model built",
		zap.String("machine", def.Name),
		zap.Int("states", len(def.StateNames())),
		zap.Int("events", len(def.Events())),
		zap.Int("transitions", len(def.Transitions)))

	code, err := codegen.Generate(def, codegen.Options{
		Package: t.Package,
		Source:  filepath.Base(t.In),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", t.In, err)
	}

	if t.Out == "" {
		fmt.Print(code)
		return nil
	}
	if err := os.WriteFile(t.Out, []byte(code), 0o644); err != nil {
		return err
	}
	logger.Info("generated", zap.String("out", t.Out), zap.Int("bytes", len(code)))
	return nil
}
