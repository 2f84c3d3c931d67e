package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/server"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations, anomalies and view preferences over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max preference events kept in memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	addr := flagServeAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	data, err := loadDataset()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svc := server.New(server.Config{
		Addr:         addr,
		CORSOrigins:  cfg.Server.CORSOrigins,
		EventsBuffer: flagServeEventsBuffer,
		Trend:        cfg.TrendBuilder(),
	}, data, st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("serving",
		zap.String("addr", addr),
		zap.Int64("seed", cfg.General.Seed),
		zap.String("store", cfg.StorePath()),
	)
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zap.L().Info("server stopped")
	return nil
}
