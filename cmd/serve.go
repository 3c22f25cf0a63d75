package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApplication(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.config.Server.Addr
		if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
			addr = flag
		}

		a.logger.Info("starting the lexnorm api", zap.String("version", version), zap.String("addr", addr))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return a.server().Run(gctx, addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			a.logger.Info("stopping", zap.NamedError("reason", context.Cause(gctx)))
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
}
