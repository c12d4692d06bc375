package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vpnpick/internal/shared/config"
	"vpnpick/internal/shared/logger"
	"vpnpick/internal/shared/types"
	"vpnpick/serverpool"
	"vpnpick/serverpool/model"
	"vpnpick/serverpool/scraper"
	"vpnpick/serverpool/storage"
)

var htmlFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Log in, scrape the server table and write the best server IP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateAccount(cfg); err != nil {
			return fmt.Errorf("%w: %v", model.ErrConfiguration, err)
		}
		return execute(cmd, cfg, scraper.NewDashboardScraper(cfg.AccountConf, cfg.ScrapeConf))
	},
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Select the best server from a saved downloads page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return execute(cmd, cfg, scraper.NewHTMLTableSource(htmlFile, cfg.TableSelector))
	},
}

func execute(cmd *cobra.Command, cfg *types.Config, source scraper.TableSource) error {
	writer := storage.NewFileResultWriter(cfg.OutputFile)
	m := serverpool.NewManager(serverpool.Options{
		CatalogFile:    cfg.CatalogFile,
		ExcludedFile:   cfg.ExcludedFile,
		AllowedRegions: model.NewAllowedRegions(cfg.AllowedRegions...),
	}, source, writer)

	report, err := m.RunOnce(cmd.Context())
	if err != nil {
		if errors.Is(err, model.ErrNoQualifyingServer) {
			logger.Warn().Str("source", source.Name()).Msg("Run finished without a qualifying server.")
		} else {
			logger.Error().Err(err).Str("source", source.Name()).Msg("Run failed.")
		}
		return err
	}
	logger.Info().
		Str("run_id", report.RunID).
		Int("rows", report.Rows).
		Int("skipped", report.Skipped).
		Msg("Run complete.")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- RESULT ---")
	fmt.Fprintf(out, "Lowest Utilization Server Key: %s\n", report.Result.Identifier)
	fmt.Fprintf(out, "Utilization: %d%%\n", report.Result.Utilization)
	fmt.Fprintf(out, "Best Server IP Address: %s\n", report.Result.IP)
	fmt.Fprintf(out, "Written to: %s\n", writer.Path())
	return nil
}

func init() {
	pickCmd.Flags().StringVar(&htmlFile, "html", "", "Saved downloads page to read the server table from")
	_ = pickCmd.MarkFlagRequired("html")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pickCmd)
}
