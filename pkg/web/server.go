package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/deploy"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

// NewHandler builds the version routes and, when an upstream is configured,
// the banner decorated reverse proxy serving everything else.
func NewHandler(r *deploy.Reader, web config.Web, banner config.Banner) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.Handle("GET /cleverage_tools/version", RawVersionHandler(r))
	mux.Handle("GET /rest/V1/cleverage/tools/version", APIVersionHandler(r))

	if web.Upstream == "" {
		return mux, nil
	}

	upstream, err := url.Parse(web.Upstream)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid upstream: %s", web.Upstream)
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	mux.Handle("/", FooterBanner(r, banner, web.AdminPath)(proxy))

	return mux, nil
}

// Serve accepts connections on l until ctx is done, then shuts the server
// down gracefully.
func Serve(ctx context.Context, l net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving", "addr", l.Addr().String())
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server failed")
	}

	return nil
}
