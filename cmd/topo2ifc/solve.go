package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/topo2ifc/topo2ifc/pkg/ifcexport"
	"github.com/topo2ifc/topo2ifc/pkg/pipeline"
)

func runSolve(inputPath, configPath, outPath, debugDir string, singleStorey bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if singleStorey {
		cfg.SingleStoreyMode = true
	}
	if debugDir != "" {
		cfg.DebugOutputDir = debugDir
	}

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	projectName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	result, err := pipeline.Run(context.Background(), store, vocabRegistry(), projectName, cfg)
	if err != nil {
		return err
	}

	if len(result.Report.Warnings) > 0 {
		printValidationReport(result.Report)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := (ifcexport.TextWriter{}).Write(out, result.Model); err != nil {
		return fmt.Errorf("%w", &pipeline.Error{Kind: pipeline.ErrExportFailure, Message: err.Error()})
	}
	return nil
}
