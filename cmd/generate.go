package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/miokari/smartppt/internal/config"
	"github.com/miokari/smartppt/internal/pipeline"
	"github.com/miokari/smartppt/internal/pptx"
)

func newGenerateCmd() *cobra.Command {
	var output string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the slide deck from the configured image folders",
		Long: `Scans every configured folder in order, classifies its images by
aspect ratio, packs them onto A3-landscape pages, and saves the result
as a PPTX file. A per-folder summary is printed at the end.

When no configuration file exists yet, a default one is written and the
run stops so you can review the folder paths first.`,
		Example: `  # Use config.yaml in the current directory
  smartppt generate

  # Use a different configuration and output path
  smartppt generate --config photos.yaml --output family_album.pptx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if errors.Is(err, config.ErrCreatedDefault) {
				fmt.Printf("Created default configuration: %s\n", configPath)
				fmt.Println("Review the image folder paths, then run generate again.")
				return nil
			}
			if err != nil {
				return err
			}
			if output != "" {
				cfg.OutputPPT = output
			}

			runner := pipeline.NewRunner(cfg)
			canvas := runner.Canvas()
			sink := pptx.New(canvas.Width, canvas.Height)

			slog.Info("Starting layout run", "folders", len(cfg.ImageFolders), "output", cfg.OutputPPT)
			summary := runner.Run(sink)

			// The summary is always reported, even when the save below fails.
			pipeline.PrintReport(os.Stdout, summary)

			if reportPath != "" {
				if err := pipeline.WriteSummary(reportPath, summary); err != nil {
					slog.Warn("Failed to write summary file", "path", reportPath, "error", err)
				}
			}

			if err := sink.Save(cfg.OutputPPT); err != nil {
				return fmt.Errorf("failed to save presentation: %w", err)
			}

			if info, err := os.Stat(cfg.OutputPPT); err == nil {
				fmt.Printf("Saved %s (%.1f MB)\n", cfg.OutputPPT, float64(info.Size())/1024/1024)
			} else {
				fmt.Printf("Saved %s\n", cfg.OutputPPT)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the configured output path")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the run summary as YAML to this path")

	return cmd
}
