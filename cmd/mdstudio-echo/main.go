package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdstudio/mdstudio-cli/internal/api"
	"github.com/mdstudio/mdstudio-cli/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run serves the echo endpoint until interrupted. When ready is non-nil the
// bound address is sent on it once the listener is up.
func run(argv []string, ready chan<- string) error {
	fs := pflag.NewFlagSet("mdstudio-echo", pflag.ContinueOnError)
	addr := fs.String("addr", envOr("MDSTUDIO_ECHO_ADDR", "127.0.0.1:8765"), "listen address")
	level := fs.String("log-level", "info", "log level")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	closeLog, err := logger.Init(logger.Options{Level: *level, Writer: os.Stderr})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           api.NewEchoServer(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", *addr, err)
	}
	slog.Info("echo endpoint listening", "addr", ln.Addr().String())
	if ready != nil {
		ready <- "http://" + ln.Addr().String() + "/"
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down echo endpoint")
	return srv.Shutdown(shutdownCtx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
