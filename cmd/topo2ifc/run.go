package main

import (
	"fmt"
	"os"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/rdf"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
	"github.com/topo2ifc/topo2ifc/pkg/vocab"
)

// loadConfig returns config.Default() merged with a YAML file when
// configPath is non-empty.
func loadConfig(configPath string) (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadStore parses the Turtle-subset input file into an in-memory triple
// store.
func loadStore(inputPath string) (rdf.Store, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	store, err := rdf.ParseTurtleSubset(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing turtle: %w", err)
	}
	return store, nil
}

func printValidationReport(r *validation.Report) {
	fmt.Fprintln(os.Stderr, r.Summary)
	for _, e := range r.Errors {
		fmt.Fprintf(os.Stderr, "  ERROR [%s] %s: %s\n", e.Level, e.Code, e.Message)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(os.Stderr, "  WARN  [%s] %s: %s\n", w.Level, w.Code, w.Message)
	}
}

// vocabRegistry is the sole recognized registry; the CLI driver wires no
// vocabulary selection flag since the extractor always recognizes all
// four vocabularies at once.
func vocabRegistry() vocab.Registry {
	return vocab.Default()
}
