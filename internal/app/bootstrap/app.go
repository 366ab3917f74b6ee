package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/ohc-assist/internal/api/router"
	"github.com/wolfman30/ohc-assist/internal/assistant"
	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	"github.com/wolfman30/ohc-assist/internal/http/handlers"
	"github.com/wolfman30/ohc-assist/internal/knowledge"
	"github.com/wolfman30/ohc-assist/internal/leads"
	"github.com/wolfman30/ohc-assist/internal/notify"
	"github.com/wolfman30/ohc-assist/internal/observability/metrics"
	"github.com/wolfman30/ohc-assist/internal/webchat"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// App is the fully wired API.
type App struct {
	Handler   http.Handler
	Assistant *assistant.Service
	Registry  *prometheus.Registry

	closers []func() error
}

// Close releases provider clients and connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadKnowledge returns the built-in knowledge base or the YAML override at path.
func LoadKnowledge(path string, logger *logging.Logger) (*knowledge.Base, error) {
	if strings.TrimSpace(path) == "" {
		return knowledge.Default(), nil
	}
	base, err := knowledge.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load knowledge: %w", err)
	}
	if logger != nil {
		logger.Info("knowledge base loaded", "path", path, "entries", len(base.Entries()))
	}
	return base, nil
}

// Build wires the knowledge base, generation backend, session service, lead
// intake and router from cfg. Background loops (session sweeper, limiter
// eviction) stop when ctx is done.
func Build(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	base, err := LoadKnowledge(cfg.KnowledgeFile, logger)
	if err != nil {
		return nil, err
	}

	gen, closeGen, err := BuildGenerator(ctx, cfg, base.Facts(), loadAWS, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeGen)

	profile := assistant.DefaultProfile(base)
	profile.SuccessFloor = cfg.ChatMinDelay
	profile.FallbackFloor = cfg.ChatFallbackDelay
	profile.HistoryWindow = cfg.ChatHistoryWindow

	svc := assistant.NewService(base, gen, assistant.Config{
		Profile: profile,
		Timeout: cfg.GenerationTimeout,
		IdleTTL: cfg.SessionIdleTTL,
	}, logger, metrics.NewPipelineMetrics(app.Registry))
	app.Assistant = svc
	if cfg.SessionIdleTTL > 0 {
		go svc.RunSweeper(ctx, sweepInterval(cfg.SessionIdleTTL))
	}

	email, err := BuildEmailSender(ctx, cfg, loadAWS, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	notifier := notify.NewService(email, cfg.LeadsInbox, base.Facts().CompanyName, logger)
	intake := leads.NewIntake(base.Facts(), notifier, metrics.NewIntakeMetrics(app.Registry), logger)

	rdb := BuildRedisClient(ctx, cfg, logger, true)
	if rdb != nil {
		app.closers = append(app.closers, rdb.Close)
	}

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		Site:               handlers.NewSiteHandler(base),
		Chat:               handlers.NewChatHandler(svc, logger),
		Rebates:            handlers.NewRebateHandler(svc, logger),
		Leads:              leads.NewHandler(intake, logger),
		WebChat:            webchat.NewHandler(svc, logger),
		MetricsHandler:     promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:            BuildLimiter(ctx, cfg, rdb, logger),
	})
	return app, nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
