package main

import (
	"fmt"

	"github.com/topo2ifc/topo2ifc/pkg/pipeline"
)

func runValidate(inputPath, configPath string) error {
	if _, err := loadConfig(configPath); err != nil {
		return err
	}

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	_, report, err := pipeline.ValidateOnly(store, vocabRegistry())
	if err != nil {
		return err
	}

	printValidationReport(report)
	if !report.Valid {
		return fmt.Errorf("topology validation failed: %s", report.Summary)
	}
	return nil
}
