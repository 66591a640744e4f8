package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/config"
	"github.com/sgx-labs/folio/internal/contact"
	"github.com/sgx-labs/folio/internal/logging"
	"github.com/sgx-labs/folio/internal/render"
	"github.com/sgx-labs/folio/internal/store"
	"github.com/sgx-labs/folio/internal/watcher"
	"github.com/sgx-labs/folio/internal/web"
)

// relayTimeout bounds one call to the email API.
const relayTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		addr      string
		localOnly bool
		openFlag  bool
		noWatch   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio site",
		Long: `Serve the home page, project and blog pages, the explorer API and
the contact endpoint. Content edits are picked up while running unless
--no-watch is given or [watch] is disabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := loadSite()
			if err != nil {
				return err
			}
			if addr != "" {
				s.cfg.Server.Addr = addr
			}
			if noWatch {
				s.cfg.Watch.Enabled = false
			}
			if openFlag {
				go func() {
					time.Sleep(500 * time.Millisecond)
					openBrowser(fmt.Sprintf("http://%s", s.cfg.Server.Addr))
				}()
			}
			return runServe(ctx, s, localOnly)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:3000)")
	cmd.Flags().BoolVar(&localOnly, "local-only", false, "Reject requests whose Host is not localhost")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Auto-open browser")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload content on change")
	return cmd
}

func runServe(ctx context.Context, s *site, localOnly bool) error {
	log, err := logging.New(s.cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	svc, closeLimiter, err := newContactService(s.cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	srv, err := web.New(web.Options{
		Catalog:     s.cat,
		Renderer:    render.New(nil),
		Contact:     svc,
		Site:        s.cfg.Site,
		DefaultSort: s.defaultSort,
		Version:     Version,
		Logger:      log,
		LocalOnly:   localOnly,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, s.cfg.Server.Addr, s.cfg.Server)
	})
	if s.cfg.Watch.Enabled {
		g.Go(func() error {
			return watchContent(ctx, s, log)
		})
	}
	return g.Wait()
}

// newContactService builds the contact pipeline from config. The returned
// func releases the limiter's database, if any.
func newContactService(cfg *config.Config, log *zap.Logger) (*contact.Service, func(), error) {
	cc := cfg.Contact
	closer := func() {}

	var limiter contact.Limiter
	switch cc.Limiter {
	case "sqlite":
		db, err := store.OpenPath(cfg.LimiterDBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open limiter db: %w", err)
		}
		closer = func() { _ = db.Close() }
		limiter = contact.NewSQLiteLimiter(db, cc.RateLimitWindow.Duration, cc.RateLimitMax)
	default:
		limiter = contact.NewMemoryLimiter(cc.RateLimitWindow.Duration, cc.RateLimitMax, cc.MaxClients)
	}

	relay := contact.NewResendRelay(cc.APIKey, cc.APIURL, &http.Client{Timeout: relayTimeout})
	addressing := contact.Config{APIKey: cc.APIKey, To: cc.To, From: cc.From}
	if missing := addressing.Missing(); missing != "" {
		log.Warn("contact form disabled until configured", zap.String("reason", missing))
	}
	svc := contact.NewService(addressing, limiter, relay, contact.WithLogger(logging.Printf(log)))
	return svc, closer, nil
}

// watchContent drops cached files as they change so the next request
// rereads them.
func watchContent(ctx context.Context, s *site, log *zap.Logger) error {
	cs := s.cat.Store()
	var roots []string
	for _, name := range catalog.Collections() {
		roots = append(roots, cs.Candidates(name)...)
	}
	opts := watcher.Options{
		Extension: cs.Extension(),
		Debounce:  s.cfg.Watch.Debounce.Duration,
		Logger:    log,
	}
	return watcher.Watch(ctx, roots, opts, func(paths []string) {
		for _, p := range paths {
			s.cache.Invalidate(p)
		}
		log.Info("content reloaded", zap.Int("files", len(paths)))
	})
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}
	_ = cmd.Run()
}
