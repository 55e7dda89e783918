package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/status-im/cards-loader/config"
	"github.com/status-im/cards-loader/httpclient"
	"github.com/status-im/cards-loader/loader"
	"github.com/status-im/cards-loader/metrics"
)

type fetchOptions struct {
	themeID string
	asJSON  bool
	timeout time.Duration
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch [base-path]",
		Short: "Load the card data once and print it",
		Long: `Fetch loads config.json, themes.json and every theme's cards from the base
path and prints a summary, or the data itself with --json. The base path
argument overrides the configured one; local directories are supported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			if len(args) == 1 {
				cfg.Loader.BasePath = args[0]
			}

			basePath, err := cfg.Loader.ResolvedBasePath()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			return runFetch(ctx, cmd.OutOrStdout(), newCLILoader(cfg, basePath), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.themeID, "theme", "t", "", "load only this theme's cards")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the loaded data as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall time limit")

	return cmd
}

func newCLILoader(cfg *config.Config, basePath string) *loader.DataLoader {
	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceCLI)
	client := httpclient.NewClient(httpclient.RetryOptions{
		MaxRetries:        cfg.HTTPClient.MaxRetries,
		BaseBackoff:       cfg.HTTPClient.BaseBackoff,
		LogPrefix:         "Fetch-HTTP",
		ConnectionTimeout: cfg.HTTPClient.ConnectionTimeout,
		RequestTimeout:    cfg.HTTPClient.RequestTimeout,
	}, metricsWriter, nil)

	return loader.New(basePath,
		loader.WithHTTPClient(client),
		loader.WithMetricsWriter(metricsWriter),
	)
}

func runFetch(ctx context.Context, out io.Writer, l *loader.DataLoader, opts *fetchOptions) error {
	if opts.themeID != "" {
		cards, err := l.LoadThemeCards(ctx, opts.themeID)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return writeJSON(out, cards)
		}
		color.New(color.FgGreen).Fprintf(out, "✔ ")
		fmt.Fprintf(out, "Theme %s: %d cards\n", opts.themeID, len(cards))
		return nil
	}

	data, err := l.LoadAll(ctx)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(out, data)
	}

	printStats(out, l.BasePath(), l.GetStats())
	return nil
}

func writeJSON(out io.Writer, value interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func printStats(out io.Writer, basePath string, stats loader.Stats) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Fprintf(out, "Loaded %s\n", basePath)
	fmt.Fprintf(out, "Themes: %d\n", stats.Themes)
	fmt.Fprintf(out, "Total cards: %d\n", stats.TotalCards)

	themeIDs := make([]string, 0, len(stats.CardsByTheme))
	for themeID := range stats.CardsByTheme {
		themeIDs = append(themeIDs, themeID)
	}
	sort.Strings(themeIDs)

	for _, themeID := range themeIDs {
		count := stats.CardsByTheme[themeID]
		marker := green
		if count == 0 {
			marker = yellow
		}
		marker.Fprintf(out, "  %-20s", themeID)
		fmt.Fprintf(out, " %d\n", count)
	}
}
