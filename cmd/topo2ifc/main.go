package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "topo2ifc",
		Short: "RDF building topology to IFC4 layout pipeline",
	}

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func solveCmd() *cobra.Command {
	var configPath, outPath, debugDir string
	var singleStorey bool

	cmd := &cobra.Command{
		Use:   "solve [input.ttl]",
		Short: "Run the full pipeline and write an IFC text serialization",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSolve(args[0], configPath, outPath, debugDir, singleStorey)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the IFC text output (default: stdout)")
	cmd.Flags().StringVar(&debugDir, "debug-dir", "", "directory to write layout/report debug artifacts to")
	cmd.Flags().BoolVar(&singleStorey, "single-storey", false, "keep only the lowest storey")
	return cmd
}

func validateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate [input.ttl]",
		Short: "Run extraction and topology validation only",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	return cmd
}
