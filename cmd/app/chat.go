package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/term"
	"tripwizard/internal/services"
	"tripwizard/internal/terminal"
)

const defaultWrapWidth = 100

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the wizard interactively in this terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, _ := cmd.Flags().GetString("api-key")
		plain, _ := cmd.Flags().GetBool("plain")

		var (
			wizard services.WizardServiceInterface
			log    *zap.Logger
		)
		app := fx.New(
			coreModules(),
			fx.NopLogger,
			// info lines would interleave with the wizard on the same terminal
			fx.Decorate(func(l *zap.Logger) *zap.Logger {
				return l.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
			}),
			fx.Populate(&wizard, &log),
		)
		if err := app.Err(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := app.Start(ctx); err != nil {
			return err
		}
		defer func() {
			_ = app.Stop(context.WithoutCancel(ctx))
		}()

		return terminal.NewHost(wizard, cmd.InOrStdin(), cmd.OutOrStdout(), log, hostOptions(plain)...).Run(ctx, apiKey)
	},
}

func init() {
	chatCmd.Flags().String("api-key", "", "API key for this session; defaults to the provider key from the environment")
	chatCmd.Flags().Bool("plain", false, "Print plain markdown instead of styled output")
}

func hostOptions(plain bool) []terminal.Option {
	var opts []terminal.Option

	stdin := int(os.Stdin.Fd())
	if term.IsTerminal(stdin) {
		opts = append(opts, terminal.WithSecretReader(func() (string, error) {
			b, err := term.ReadPassword(stdin)
			os.Stdout.WriteString("\n")
			return strings.TrimSpace(string(b)), err
		}))
	}

	stdout := int(os.Stdout.Fd())
	if plain || !term.IsTerminal(stdout) {
		return opts
	}
	width := defaultWrapWidth
	if w, _, err := term.GetSize(stdout); err == nil && w > 0 && w < width {
		width = w
	}
	if r, err := terminal.NewGlamourRenderer(width); err == nil {
		opts = append(opts, terminal.WithRenderer(r))
	}
	return opts
}
