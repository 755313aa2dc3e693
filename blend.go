package blend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/blend/internal/logging"
	httpAdapter "github.com/aretw0/blend/pkg/adapters/http"
	"github.com/aretw0/blend/pkg/adapters/memory"
	"github.com/aretw0/blend/pkg/combination"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/mention"
	"github.com/aretw0/blend/pkg/observability"
	"github.com/aretw0/blend/pkg/ports"
	"github.com/aretw0/blend/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App wires the combination service and the edit sessions over one store
// and one registry. It is the high-level entry point for hosts.
type App struct {
	Combinations *combination.Service
	Sessions     *session.Manager
	Registry     ports.Registry
	Streams      *httpAdapter.StreamManager
	Metrics      *observability.Metrics

	store        ports.CombinationStore
	locker       ports.DistributedLocker
	lockTTL      time.Duration
	registerer   prometheus.Registerer
	gatherer     prometheus.Gatherer
	blurGrace    time.Duration
	limit        int
	excludeUsed  bool
	logger       *slog.Logger
	closers      []io.Closer
	sessionHooks []session.ExitHook
}

// Option configures the App.
type Option func(*App)

// WithStore sets the combination store (default: in memory).
func WithStore(store ports.CombinationStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithRegistry sets the identifier registry (default: empty).
func WithRegistry(registry ports.Registry) Option {
	return func(a *App) {
		a.Registry = registry
	}
}

// WithLocker serializes combination updates across processes.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(a *App) {
		a.locker = locker
		a.lockTTL = ttl
	}
}

// WithMetrics registers the engine's collectors with reg. When reg is also a
// prometheus.Gatherer it backs the /metrics endpoint.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(a *App) {
		a.registerer = reg
		if g, ok := reg.(prometheus.Gatherer); ok {
			a.gatherer = g
		}
	}
}

// WithBlurGrace sets how long a focus loss waits before leaving direct entry.
func WithBlurGrace(d time.Duration) Option {
	return func(a *App) {
		a.blurGrace = d
	}
}

// WithSuggestionLimit caps autocomplete lists.
func WithSuggestionLimit(n int) Option {
	return func(a *App) {
		a.limit = n
	}
}

// WithExcludeUsed hides inputs already present in the formula from suggestions.
func WithExcludeUsed(exclude bool) Option {
	return func(a *App) {
		a.excludeUsed = exclude
	}
}

// WithLogger sets a structured logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithExitHook observes every exit from direct entry.
func WithExitHook(hook session.ExitHook) Option {
	return func(a *App) {
		a.sessionHooks = append(a.sessionHooks, hook)
	}
}

// WithCloser registers a resource released by Close, e.g. a Redis client.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// New builds an App.
func New(opts ...Option) *App {
	a := &App{
		blurGrace: session.DefaultBlurGrace,
		limit:     mention.DefaultLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.Registry == nil {
		a.Registry = memory.NewRegistry()
	}
	if a.registerer != nil {
		a.Metrics = observability.NewMetrics(a.registerer)
	}

	svcOpts := []combination.Option{
		combination.WithLogger(a.logger),
		combination.WithMetrics(a.Metrics),
	}
	if a.locker != nil {
		svcOpts = append(svcOpts, combination.WithLocker(a.locker, a.lockTTL))
	}
	a.Combinations = combination.NewService(a.store, svcOpts...)

	a.Streams = httpAdapter.NewStreamManager(a.logger)
	hooks := append([]session.ExitHook{a.Streams.ExitHook()}, a.sessionHooks...)
	a.Sessions = session.NewManager(a.Combinations, a.Registry,
		session.WithBlurGrace(a.blurGrace),
		session.WithSuggestionLimit(a.limit),
		session.WithExcludeUsed(a.excludeUsed),
		session.WithLogger(a.logger),
		session.WithMetrics(a.Metrics),
		session.WithExitHook(func(res session.ExitResult, err error) {
			for _, h := range hooks {
				h(res, err)
			}
		}),
	)
	return a
}

// Logger returns the App's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Identifiers returns the current registry contents.
func (a *App) Identifiers(ctx context.Context) ([]domain.Identifier, error) {
	return a.Registry.Identifiers(ctx)
}

// Parse parses text against the current registry.
func (a *App) Parse(ctx context.Context, text string) (formula.Result, error) {
	ids, err := a.Registry.Identifiers(ctx)
	if err != nil {
		return formula.Result{}, err
	}
	return formula.Parse(text, ids), nil
}

// Suggest lists registry entries matching query.
func (a *App) Suggest(ctx context.Context, query string, limit int) ([]domain.Identifier, error) {
	ids, err := a.Registry.Identifiers(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = a.limit
	}
	return mention.Suggest(ids, query, limit), nil
}

// SetFormula replaces a combination's terms from text the way an editing
// session would: enter direct entry, type the text, leave.
func (a *App) SetFormula(ctx context.Context, id, text string) (session.ExitResult, error) {
	if _, err := a.Sessions.Enter(ctx, id); err != nil {
		return session.ExitResult{}, err
	}
	if _, err := a.Sessions.Dispatch(ctx, id, session.TextChange(text, mention.Len(text))); err != nil {
		return session.ExitResult{}, err
	}
	return a.Sessions.Exit(ctx, id)
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return httpAdapter.NewHandler(&httpAdapter.Server{
		Combinations: a.Combinations,
		Sessions:     a.Sessions,
		Registry:     a.Registry,
		Streams:      a.Streams,
		Gatherer:     a.gatherer,
		SuggestLimit: a.limit,
		Version:      strings.TrimSpace(Version),
		Logger:       a.logger,
	})
}

// Close discards open sessions and releases registered resources.
func (a *App) Close() error {
	a.Sessions.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
