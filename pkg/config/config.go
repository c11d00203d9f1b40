// Package config loads the pipeline's configuration record: geometric
// defaults, solver selection and tuning, and optional debug output.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Solver selects which layout solver the pipeline runs.
type Solver string

const (
	SolverHeuristic Solver = "HEURISTIC"
	SolverCP        Solver = "CP"
)

// Config holds every tunable the pipeline recognizes, each with the
// documented default.
type Config struct {
	CeilingHeight float64 `yaml:"ceiling_height" json:"ceiling_height"`
	WallThickness float64 `yaml:"wall_thickness" json:"wall_thickness"`
	SlabThickness float64 `yaml:"slab_thickness" json:"slab_thickness"`

	DoorWidth  float64 `yaml:"door_width" json:"door_width"`
	DoorHeight float64 `yaml:"door_height" json:"door_height"`

	DefaultTargetArea float64 `yaml:"default_target_area" json:"default_target_area"`
	MinSideLength     float64 `yaml:"min_side_length" json:"min_side_length"`

	GridUnit         float64 `yaml:"grid_unit" json:"grid_unit"`
	SingleStoreyMode bool    `yaml:"single_storey_mode" json:"single_storey_mode"`

	Solver             Solver `yaml:"solver" json:"solver"`
	SolverTimeLimitSec int    `yaml:"solver_time_limit_sec" json:"solver_time_limit_sec"`
	Seed               int64  `yaml:"seed" json:"seed"`

	AreaSlackFactor            float64 `yaml:"area_slack_factor" json:"area_slack_factor"`
	ObjectiveAreaWeight        float64 `yaml:"objective_area_weight" json:"objective_area_weight"`
	ObjectiveCompactnessWeight float64 `yaml:"objective_compactness_weight" json:"objective_compactness_weight"`

	DebugOutputDir string `yaml:"debug_output_dir" json:"debug_output_dir,omitempty"`
	MaxIter        int    `yaml:"max_iter" json:"max_iter,omitempty"`

	// Tolerance is the coordinate-equality epsilon geometric comparisons use.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// Default returns the zero-config defaults from §6.
func Default() Config {
	return Config{
		CeilingHeight: 2.8,
		WallThickness: 0.15,
		SlabThickness: 0.20,

		DoorWidth:  0.90,
		DoorHeight: 2.00,

		DefaultTargetArea: 15.0,
		MinSideLength:     1.5,

		GridUnit:         0.05,
		SingleStoreyMode: false,

		Solver:             SolverHeuristic,
		SolverTimeLimitSec: 30,
		Seed:               42,

		AreaSlackFactor:            1.15,
		ObjectiveAreaWeight:        10,
		ObjectiveCompactnessWeight: 1,

		Tolerance: 0.001,
	}
}

// Load reads a YAML configuration file, merging it over Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// MaxIterFor returns MaxIter if set, otherwise the documented default of
// 200 iterations per space.
func (c Config) MaxIterFor(numSpaces int) int {
	if c.MaxIter > 0 {
		return c.MaxIter
	}
	return 200 * numSpaces
}
