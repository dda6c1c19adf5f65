// Command menud serves a menu layout on a headless window: the live menu
// as JSON, simulated activations, Prometheus metrics and a health check.
package main

import (
	"context"
	_ "embed"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mchmarny/menusync/pkg/layout"
	"github.com/mchmarny/menusync/pkg/logger"
	"github.com/mchmarny/menusync/pkg/server"
)

var (
	version = "dev"     // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"
)

//go:embed default.toml
var defaultLayout []byte

var (
	port       = flag.Int("port", server.DefaultPort, "Port to run the server on")
	layoutPath = flag.String("layout", "", "Path to a TOML menu layout (default: built-in sample)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
	tlsCert    = flag.String("tls-cert", "", "TLS certificate file")
	tlsKey     = flag.String("tls-key", "", "TLS private key file")
)

func main() {
	flag.Parse()

	opts := []logger.Option{logger.WithModule("menud", version), logger.FromEnv()}
	if *logLevel != "" {
		opts = append(opts, logger.WithLevel(*logLevel))
	}
	log := logger.SetDefault(opts...)
	log.Info("starting menud", "commit", commit, "date", date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		slog.Error("menud failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	l, err := loadLayout(*layoutPath)
	if err != nil {
		return err
	}
	if l.About != nil && l.About.Version == "" {
		l.About.Version = version
	}

	h, err := newHost(l)
	if err != nil {
		return err
	}

	opts := append(h.options(),
		server.WithPort(*port),
		server.WithErrorLog(logger.NewLogLogger(log, slog.LevelError)),
	)
	if *tlsCert != "" || *tlsKey != "" {
		opts = append(opts, server.WithTLS(server.TLSConfig{CertFile: *tlsCert, KeyFile: *tlsKey}))
	}

	return server.New(opts...).Serve(ctx)
}

func loadLayout(path string) (*layout.Layout, error) {
	if path == "" {
		return layout.Parse(defaultLayout)
	}
	return layout.Load(path)
}
