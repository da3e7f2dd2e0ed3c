package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	vendorerrors "github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/registry"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, baseURL string

	cmd := &cobra.Command{
		Use:   "serve <dest>",
		Short: "Serve a vendored registry over HTTP",
		Long: `Serve a vendored registry as a Cargo sparse index.

The index is served under /index/ and archives under /cache/. config.json is
rewritten so that downloads go through the server instead of file URLs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}
			return c.runServe(cmd.Context(), cmd, args[0], addr, baseURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+defaultServeAddr+")")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "externally visible URL (default from the request Host)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, dest, addr, baseURL string) error {
	if _, err := registry.ReadConfig(filepath.Join(dest, registry.IndexDir)); err != nil {
		return vendorerrors.Annotate(err, "registry", dest)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "listen on %s", addr)
	}

	srv := &http.Server{
		Handler: registry.NewHandler(dest, registry.HandlerOptions{
			BaseURL:     baseURL,
			Middlewares: []func(http.Handler) http.Handler{c.requestLogger},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = "http://" + ln.Addr().String()
	}
	w := cmd.OutOrStdout()
	printInfo(w, "Serving %s on %s", dest, base)
	printCargoConfig(w, fmt.Sprintf("sparse+%s/index/", base))

	if err := serveUntil(ctx, srv, ln); err != nil {
		return vendorerrors.Wrap(vendorerrors.ErrCodeIO, err, "serve %s", dest)
	}
	c.Logger.Info("Server stopped")
	return nil
}

// serveUntil serves ln until ctx is done, then shuts srv down gracefully.
// It returns once both Serve and any shutdown have finished.
func serveUntil(ctx context.Context, srv *http.Server, ln net.Listener) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	err := srv.Serve(ln)
	close(done)
	<-stopped
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestLogger logs each request at debug level.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		c.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "bytes", ww.BytesWritten(), "took", time.Since(start).Round(time.Microsecond))
	})
}
