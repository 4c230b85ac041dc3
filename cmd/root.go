package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smartppt",
		Short: "Lay out folders of images into fixed-size slide decks",
		Long: `Smartppt turns an ordered list of image folders into an A3-landscape
slide deck. Images are grouped by shape: each page pairs one square or
landscape image with one portrait, and leftover portraits fill rows of
up to three. Folders are laid out strictly one after another and never
share a page.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the run configuration")

	// Add subcommands
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}
