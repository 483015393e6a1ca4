package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	schematype "github.com/reoring/schematype"
	"github.com/reoring/schematype/config"
	"github.com/reoring/schematype/internal/gen"
	"github.com/reoring/schematype/ir"
	"github.com/reoring/schematype/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "generate":
		generateCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `schematype CLI

Usage:
  schematype generate -config schematype.yaml
  schematype schema

Subcommands:
  generate  translate the configured JSON Schema documents into typing stubs
  schema    print the JSON Schema of the configuration file format`)
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var cfgPath string
	var verbose bool
	fs.StringVar(&cfgPath, "config", "schematype.yaml", "configuration file")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	for _, item := range cfg.Generate {
		if err := generateOne(logger, cfg, item); err != nil {
			fatalf("generate %s: %v", item.Source, err)
		}
	}
}

func generateOne(logger *slog.Logger, cfg *config.Config, item config.GenerateItem) error {
	doc, err := jsonschema.Load(item.Source)
	if err != nil {
		return err
	}

	draft := schematype.Draft7
	if obj, ok := jsonschema.AsObject(doc); ok {
		if uri, ok := obj.String("$schema"); ok {
			draft = schematype.DetectDraft(uri)
		}
	}
	opts := schematype.Options{}
	if item.APIArguments.AdditionalProperties == config.AdditionalPropertiesAlways {
		opts.AdditionalProperties = schematype.Always
	}

	resolver := jsonschema.NewResolver("", doc)
	resolver.SetLoader(fileLoader(filepath.Dir(item.Source)))

	api := schematype.New(draft, resolver, opts)
	logger.Debug("translating", "source", item.Source, "draft", draft.String())

	root, err := api.TypeOf(doc, item.RootName)
	if err != nil {
		return err
	}

	out, err := gen.Render([]ir.Type{root}, gen.Options{
		Headers:     cfg.Headers,
		NameMapping: item.NameMapping,
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(item.Destination); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(item.Destination, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info("generated", "source", item.Source, "destination", item.Destination)
	return nil
}

// fileLoader resolves external document URIs against the root document's
// directory, so sibling schema files referenced by relative $refs load
// without any extra configuration.
func fileLoader(dir string) jsonschema.Loader {
	return func(uri string) (any, error) {
		path := strings.TrimPrefix(uri, "file://")
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return jsonschema.Load(path)
	}
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	_ = fs.Parse(args)
	out, err := config.Schema()
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(string(out))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "schematype: "+format+"\n", a...)
	os.Exit(1)
}
