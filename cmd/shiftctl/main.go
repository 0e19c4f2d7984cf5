package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tserv/shift-control/pkg/config"
	"go.uber.org/zap"
)

var (
	v      = viper.New()
	logger *zap.Logger
)

func main() {
	config.LoadDotEnv()

	rootCmd := &cobra.Command{
		Use:   "shiftctl",
		Short: "Shift Control desk tooling",
		Long:  "Inspect the roster and issue integration keys",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path := v.GetString("config"); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
			}
			var err error
			if v.GetBool("verbose") {
				logger, err = zap.NewDevelopment()
			} else {
				logger = zap.NewNop()
			}
			return err
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Optional YAML config file")
	flags.StringP("output", "o", "text", "Output format: text or yaml")
	flags.String("upstream-url", "", "Roster API base URL (env UPSTREAM_URL)")
	flags.String("token", "", "Bearer token for the roster API (env SHIFTCTL_TOKEN)")
	flags.String("at", "", "Evaluate statuses at this RFC3339 instant instead of now")
	flags.BoolP("verbose", "v", false, "Log requests to stderr")
	v.BindPFlags(flags)
	v.BindEnv("token", "SHIFTCTL_TOKEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(keygenCmd(), gridCmd(), dayCmd(), statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
