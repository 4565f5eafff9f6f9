package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conference-site/pkg/config"
	"conference-site/pkg/handlers"
	"conference-site/pkg/pagecache"
	"conference-site/pkg/services"
	"conference-site/pkg/site"
)

// newServeCmd creates a new command for serving the live preview
func newServeCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview web server",
		Long: `Start a web server that renders the site straight from the CMS. HTML pages
are cached stale-while-revalidate unless --no-cache is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := initService()
			if err != nil {
				return err
			}
			return serveWebsite(cmd.Context(), cfg, svc, !noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the page cache")
	return cmd
}

// serveWebsite runs the preview server until interrupted
func serveWebsite(ctx context.Context, cfg *config.Config, svc *services.Service, cached bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := site.NewRenderer(cfg.Site.ViewsDir, cfg.MediaBaseURL(), logger)
	var handler http.Handler = handlers.New(svc, renderer, logger).Routes(cfg.Site.PublicDir)

	var pages *pagecache.Cache
	if cached {
		pages = pagecache.New(logger)
		origin := handler
		handler = pages.Middleware(origin)
		go func() {
			stored := pages.Warm(ctx, origin, cfg.Site.StaticPages)
			logger.Info("Precached pages", zap.Int("stored", stored), zap.Strings("pages", cfg.Site.StaticPages))
		}()
	}

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Println(cfg.ServerStartMessage())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if pages != nil {
		pages.Wait()
	}
	return nil
}
