package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vpnpick/internal/shared/config"
	"vpnpick/internal/shared/logger"
	"vpnpick/internal/shared/types"
)

var (
	configDir  string
	outputFile string
	logLevel   string
)

// rootCmd is the base command; every subcommand starts with "vpnpick".
var rootCmd = &cobra.Command{
	Use:           "vpnpick",
	Short:         "Pick the least-loaded VPN server in the preferred regions",
	Long:          "vpnpick logs into the VPN account dashboard, reads the server load table and writes the IP of the least-loaded allowed server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "configdir", "configs", "Path to config directory")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for the chosen IP (overrides [selection] output_file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides [log] level)")
}

// loadConfig reads vpnpick.ini from configDir, applies flag overrides and
// initializes logging. A missing ini file falls back to built-in defaults.
func loadConfig() (*types.Config, error) {
	cfg := types.Default()
	iniPath := filepath.Join(configDir, "vpnpick.ini")

	if _, err := os.Stat(iniPath); err == nil {
		if err := config.LoadIni(cfg, iniPath); err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", iniPath, err)
		}
	} else if os.IsNotExist(err) {
		if err := config.ApplyOverrides(cfg); err != nil {
			return nil, fmt.Errorf("invalid default configuration: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config file '%s': %w", iniPath, err)
	}
	config.ResolvePaths(cfg, configDir)

	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	if logLevel != "" {
		cfg.LogConf.Level = logLevel
	}
	if err := logger.Init(cfg.LogConf); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Debug().Str("path", iniPath).Msg("Configuration loaded.")
	return cfg, nil
}
