package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gcm-pipeline/internal/gcm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "gcm <input_file>",
		Short: "Cluster an edge list with the external GCM binary",
		Long: "Stages an edge list into a scratch workspace, runs the external\n" +
			"formatter, preparation script and GCM clustering binary against it,\n" +
			"and writes the cluster assignments remapped to the original node\n" +
			"labels. Exits non-zero when no output file was produced.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gcm.LoadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			logger := gcm.NewLogger(cfg)
			return gcm.NewPipeline(cfg, logger).Run(cmd.Context(), args[0])
		},
	}
	cmd.Flags().String("output_dir", ".", "directory to save the output file")
	cmd.Flags().String("output_file", "clustering_output.txt", "filename for the output file")
	cmd.Flags().Int("seed", 12345, "random seed for GCM")
	cmd.Flags().Float64("chi", 0.0, "value of chi")
	cmd.Flags().String("sep", "space", "edge list separator: space, comma or semicolon")
	cmd.Flags().Duration("step_timeout", 0, "per-step timeout for external programs (0 = none)")
	cmd.Flags().StringVar(&configFile, "config", "", "path to a config file")
	return cmd
}
