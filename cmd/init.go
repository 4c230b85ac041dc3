package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miokari/smartppt/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Writes the default configuration so you can edit the image folder
paths before the first generate run. Refuses to overwrite an existing
file unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := config.Write(configPath, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration: %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}
