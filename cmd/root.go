package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFile    string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cards-loader",
		Short: "Load and serve themed card collections",
		Long: `cards-loader fetches a card data set (config.json, themes.json and one
cards/<theme>.json per theme) from a base path, caches it in memory and either
serves it over HTTP or prints it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Missing .env is fine, env vars might be set directly
			if err := godotenv.Load(opts.envFile); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				log.Printf("Note: %s not loaded", opts.envFile)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newFetchCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
