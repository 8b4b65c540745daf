package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/carrental-client/internal/client/api"
	"github.com/dmitrijs2005/carrental-client/internal/client/config"
	"github.com/dmitrijs2005/carrental-client/internal/client/currency"
	"github.com/dmitrijs2005/carrental-client/internal/client/metrics"
	"github.com/dmitrijs2005/carrental-client/internal/client/services"
	"github.com/dmitrijs2005/carrental-client/internal/client/session"
	"github.com/dmitrijs2005/carrental-client/internal/client/storage"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the client process state: one session, one currency preference and
// the services working on them. It is created once at start and closed on exit.
type App struct {
	config      *config.Config
	log         logging.Logger
	storage     storage.Storage
	session     *session.Store
	authService services.AuthService
	catalog     services.CatalogService
	currency    *currency.Preference
	registry    *prometheus.Registry

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens storage, restores the saved session and currency, and wires
// the HTTP client from cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	st, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Error(ctx, "error opening storage", "backend", cfg.StorageBackend, "error", err)
		return nil, err
	}

	client := api.NewHTTPClient(cfg.BaseURL(),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithServiceCredential(cfg.ServiceUsername, cfg.ServicePassword),
		api.WithLogger(log),
	)

	app, err := newApp(ctx, cfg, st, client, log)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}
	return app, nil
}

// backend is the remote surface the App talks to.
type backend interface {
	api.Client
	api.Catalog
}

func newApp(ctx context.Context, cfg *config.Config, st storage.Storage, client backend, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}

	sess := session.NewStore(st, log)
	if err := sess.Load(ctx); err != nil {
		log.Error(ctx, "error loading session", "error", err)
		return nil, err
	}

	cur := currency.New(st, log)
	if err := cur.Init(ctx, cfg.Currency); err != nil {
		log.Warn(ctx, "error loading currency, using default", "error", err)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewAuth(reg)
	if err != nil {
		return nil, err
	}

	return &App{
		config:      cfg,
		log:         log,
		storage:     st,
		session:     sess,
		authService: services.NewAuthService(client, sess, log, m),
		catalog:     services.NewCatalogService(client, sess, log),
		currency:    cur,
		registry:    reg,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Start runs boot-time session revalidation.
func (a *App) Start(ctx context.Context) {
	a.authService.Boot(ctx)
}

// Run boots the session and blocks in the REPL until the user leaves or ctx
// ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Start(ctx)

	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr)
	}
	if a.config.RevalidateInterval > 0 {
		go a.StartSessionWatcher(ctx, a.config.RevalidateInterval)
	}

	a.Root(ctx)
	return nil
}

// Close releases storage.
func (a *App) Close() error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// StartSessionWatcher revalidates the session every interval until ctx ends.
// A session the user service no longer accepts is dropped on the next tick.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.session.IsAuthenticated() {
				continue
			}
			vctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			p, err := a.authService.ValidateSession(vctx)
			cancel()

			if err == nil && p == nil && !a.session.IsAuthenticated() {
				a.log.Info(ctx, "session ended by user service")
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) serveMetrics(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(a.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics server stopped", "error", err)
	}
}

// status renders the prompt prefix, e.g. "(bob USD)".
func (a *App) status() string {
	s := a.currency.Current()
	if p := a.session.User(); p != nil && p.Username != "" {
		s = p.Username + " " + s
	} else if a.session.IsAuthenticated() {
		s = "pending " + s
	}
	return fmt.Sprintf("(%s)", s)
}
