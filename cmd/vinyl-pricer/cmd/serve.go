package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	"github.com/donaldgifford/vinyl-pricer/internal/api/middleware"
	"github.com/donaldgifford/vinyl-pricer/internal/config"
	"github.com/donaldgifford/vinyl-pricer/internal/discogs"
	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
	"github.com/donaldgifford/vinyl-pricer/internal/engine"
	"github.com/donaldgifford/vinyl-pricer/internal/musicbrainz"
	"github.com/donaldgifford/vinyl-pricer/internal/notify"
	"github.com/donaldgifford/vinyl-pricer/internal/store"
	"github.com/donaldgifford/vinyl-pricer/internal/telemetry"
	"github.com/donaldgifford/vinyl-pricer/pkg/logger"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and scheduler",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, logFile := logger.NewWithFile(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.FileOptions())
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		ExportInterval: cfg.Telemetry.ExportInterval,
	}, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	eng, ebayDeps := buildEngine(cfg, db, log)

	sched, err := engine.NewScheduler(eng, engine.Intervals{
		Pending: cfg.Schedule.PendingInterval,
		Refresh: cfg.Schedule.RefreshInterval,
		Quota:   quotaInterval(cfg, ebayDeps),
	}, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newServer(eng, db, ebayDeps, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr, "version", Version)
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	<-sched.Stop().Done()

	var errs []error
	if err := e.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down telemetry: %w", err))
	}

	log.Info("server stopped")
	return errors.Join(errs...)
}

// ebayDeps are the eBay collaborators shared by the engine and handlers.
// Both are nil when eBay is disabled.
type ebayDeps struct {
	limiter   *ebay.RateLimiter
	analytics *ebay.AnalyticsClient
}

func buildEngine(cfg *config.Config, db store.Store, log *slog.Logger) (*engine.Engine, ebayDeps) {
	opts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithBatchSize(cfg.Schedule.BatchSize),
		engine.WithRefreshAfter(cfg.Schedule.RefreshAfter),
		engine.WithNotifier(buildNotifier(cfg, log)),
	}

	if cfg.Discogs.Enabled {
		dc := discogs.NewAPIClient(cfg.Discogs.Token,
			discogs.WithBaseURL(cfg.Discogs.BaseURL),
			discogs.WithUserAgent(cfg.Discogs.UserAgent),
			discogs.WithCurrency(cfg.Discogs.Currency),
			discogs.WithHTTPClient(&http.Client{Timeout: cfg.Discogs.Timeout}),
			discogs.WithRateLimiter(rate.NewLimiter(
				rate.Limit(cfg.Discogs.RateLimit.PerSecond),
				cfg.Discogs.RateLimit.Burst,
			)),
			discogs.WithLogger(log),
		)
		opts = append(opts, engine.WithDiscogs(dc))
	}

	if cfg.MusicBrainz.Enabled {
		if !cfg.Discogs.Enabled {
			log.Warn("musicbrainz is enabled without discogs; release links will not be used")
		}
		mb := musicbrainz.NewAPIClient(
			musicbrainz.WithBaseURL(cfg.MusicBrainz.BaseURL),
			musicbrainz.WithUserAgent(cfg.MusicBrainz.UserAgent),
			musicbrainz.WithHTTPClient(&http.Client{Timeout: cfg.MusicBrainz.Timeout}),
			musicbrainz.WithRateLimiter(rate.NewLimiter(
				rate.Limit(cfg.MusicBrainz.RateLimit.PerSecond),
				cfg.MusicBrainz.RateLimit.Burst,
			)),
			musicbrainz.WithLogger(log),
		)
		opts = append(opts, engine.WithMusicBrainz(mb))
	}

	var deps ebayDeps
	if cfg.Ebay.Enabled {
		tokens := ebay.NewAppTokenSource(cfg.Ebay.AppID, cfg.Ebay.CertID,
			ebay.WithTokenURL(cfg.Ebay.TokenURL),
			ebay.WithTokenLogger(log),
		)
		deps.limiter = ebay.NewRateLimiter(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)
		browse := ebay.NewBrowseClient(tokens,
			ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
			ebay.WithMarketplace(cfg.Ebay.Marketplace),
			ebay.WithRateLimiter(deps.limiter),
		)
		comps := ebay.NewCompsFinder(
			ebay.NewPaginator(browse, ebay.WithPaginatorLogger(log)),
			ebay.WithCategory(cfg.Ebay.CategoryID),
			ebay.WithConditionIDs(cfg.Ebay.ConditionIDs...),
			ebay.WithResultLimit(cfg.Ebay.ResultLimit),
		)
		deps.analytics = ebay.NewAnalyticsClient(tokens,
			ebay.WithAnalyticsURL(cfg.Ebay.AnalyticsURL),
			ebay.WithQuotaSync(deps.limiter),
		)
		opts = append(opts, engine.WithListings(comps), engine.WithQuota(deps.analytics))
	}

	return engine.NewEngine(db, pricing.New(cfg.Pricing.Engine()), opts...), deps
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}

// quotaInterval disables the quota sync when there is no eBay account.
func quotaInterval(cfg *config.Config, deps ebayDeps) time.Duration {
	if deps.analytics == nil {
		return 0
	}
	return cfg.Schedule.QuotaInterval
}

func newServer(eng *engine.Engine, db store.Store, deps ebayDeps, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(db)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Vinyl Pricer API", Version))
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(eng))
	handlers.RegisterItemRoutes(api, handlers.NewItemsHandler(db, eng))
	handlers.RegisterPricingRoutes(api, handlers.NewPricingsHandler(db))
	handlers.RegisterSummaryRoutes(api, handlers.NewSummaryHandler(db))
	handlers.RegisterRepriceRoutes(api, handlers.NewRepriceHandler(eng))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(db, engine.JobPricePending, engine.JobRefreshStale, engine.JobSyncQuota))

	var upstream handlers.QuotaReporter
	if deps.analytics != nil {
		upstream = deps.analytics
	}
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(deps.limiter, upstream))

	return e
}
