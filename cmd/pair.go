package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/wa-report-bridge/internal/whatsapp"
)

func newPairCmd(path *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Link a WhatsApp account by scanning a QR code, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := provideConfig(configPath(*path))
			if err != nil {
				return err
			}
			log := provideLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			wa, err := whatsapp.New(ctx, whatsappOptions(cfg), log)
			if err != nil {
				return err
			}
			defer func() { _ = wa.Stop(context.Background()) }()

			if err := wa.Pair(ctx); err != nil {
				if errors.Is(err, whatsapp.ErrAlreadyPaired) {
					log.Info("device already paired, nothing to do")
					return nil
				}
				return fmt.Errorf("pair: %w", err)
			}
			log.Info("device linked, run serve to start the bridge")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "how long to wait for the QR code to be scanned")
	return cmd
}
