package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"tripwizard/cmd/fx/config_fx"
	"tripwizard/cmd/fx/db_fx"
	"tripwizard/cmd/fx/logger_fx"
	"tripwizard/cmd/fx/memcache_fx"
	"tripwizard/cmd/fx/metrics_fx"
	"tripwizard/cmd/fx/prompt_fx"
	"tripwizard/cmd/fx/wizard_fx"
)

var rootCmd = &cobra.Command{
	Use:   "tripwizard",
	Short: "AI travel recommendation assistant",
	Long: `tripwizard walks a traveller through three steps: describe preferences,
pick one of the recommended destinations, then get a one-day plan and ask follow-up questions.`,
	SilenceUsage: true,
}

// coreModules wires everything below the transport: config, logging,
// metrics, the session store and the wizard services.
func coreModules() fx.Option {
	return fx.Options(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		prompt_fx.Module,
		wizard_fx.Module,
	)
}

func main() {
	rootCmd.AddCommand(serveCmd, chatCmd)
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
