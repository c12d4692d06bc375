package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vpnpick/internal/shared/otpcode"
)

var totpCmd = &cobra.Command{
	Use:   "totp",
	Short: "Print the current TOTP code for the configured account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		code, err := otpcode.Generate(cfg.TOTPSecret, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(totpCmd)
}
