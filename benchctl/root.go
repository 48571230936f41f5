package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "benchctl",
	Short:         "Manage benchmark runs and test sets",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	viper.SetEnvPrefix("KALIBRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("data", "data", "data directory holding the run and test-set stores")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	rootCmd.AddCommand(deriveCmd)
}
