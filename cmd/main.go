package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Vovarama1992/wa-report-bridge/internal/config"
	"github.com/Vovarama1992/wa-report-bridge/internal/version"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   version.ApplicationName,
		Short: "Forward prefixed WhatsApp reports to a webhook",
		Long: `wa-report-bridge watches the chats of a linked WhatsApp account, turns messages
that start with a configured prefix into reports, posts them to a webhook and
acknowledges the sender. It also serves an HTTP API for sending, editing and
deleting messages.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			runServe(configPath)
		},
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = config.DefaultConfigPath
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "taxonomy and template file (TOML)")

	root.AddCommand(
		newServeCmd(&configPath),
		newPairCmd(&configPath),
		newVersionCmd(),
	)
	return root
}
