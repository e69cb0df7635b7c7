package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/comexbot/config"
	"github.com/alejandrodnm/comexbot/internal/adapters/export"
	"github.com/alejandrodnm/comexbot/internal/adapters/notify"
	"github.com/alejandrodnm/comexbot/internal/adapters/storage"
	"github.com/alejandrodnm/comexbot/internal/adapters/tradingeconomics"
	"github.com/alejandrodnm/comexbot/internal/analysis"
	"github.com/alejandrodnm/comexbot/internal/domain"
	"github.com/alejandrodnm/comexbot/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one analysis cycle and exit")
	dryRun := flag.Bool("dry-run", false, "skip persistence, print reports only")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full report tables (default: compact 1-line)")
	csvPath := flag.String("csv", "", "also export the day's quote table to this CSV file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("comexbot starting",
		"config", *configPath,
		"interval", cfg.Interval(),
		"dry_run", *dryRun,
		"once", *once,
		"notifications", cfg.Notifications.Enabled,
	)

	provider := tradingeconomics.NewClient(cfg.Source.URL)

	var store *storage.SQLiteStorage
	if !*dryRun {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	reporter := notify.NewConsole(*table, cfg.Tracker.TopN)

	var email, sms ports.AlertSink
	if cfg.Notifications.Enabled {
		smtp := cfg.Notifications.SMTP
		email = notify.NewEmail(smtp.Host, smtp.Port, smtp.Sender, smtp.Password)
		sms = notify.NewSMS(smtp.Host, smtp.Port, smtp.Sender, smtp.Password)
	} else if *dryRun {
		// En dry-run los alerts salen por consola para poder inspeccionarlos
		email, sms = reporter, reporter
	}

	anaCfg := analysis.DefaultConfig()
	anaCfg.Interval = cfg.Interval()
	anaCfg.TopN = cfg.Tracker.TopN
	anaCfg.StrongLeadTopK = cfg.Tracker.StrongLeadTopK
	anaCfg.MomentumMinPct = cfg.Tracker.MomentumMinPct
	anaCfg.RunOnce = *once || *dryRun
	anaCfg.Subscriptions = subscriptions(cfg)

	// storage es nil en dry-run: el analyzer salta la persistencia
	var storagePort ports.Storage
	if store != nil {
		storagePort = store
	}

	a := analysis.New(anaCfg, provider, storagePort, reporter, email, sms)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *csvPath != "" {
		runWithCSV(ctx, a, *csvPath)
		return
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("analyzer exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("comexbot stopped cleanly")
}

// runWithCSV ejecuta un solo día y exporta el batch a CSV además de los
// reportes normales.
func runWithCSV(ctx context.Context, a *analysis.Analyzer, path string) {
	report, err := a.RunDay(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("analysis run failed", "err", err)
		os.Exit(1)
	}

	if err := export.ToFile(path, report.Records); err != nil {
		slog.Error("csv export failed", "err", err, "path", path)
		os.Exit(1)
	}
	slog.Info("csv exported", "path", path, "rows", len(report.Records))
}

// subscriptions convierte la config YAML en suscripciones del dominio.
func subscriptions(cfg *config.Config) []domain.Subscription {
	subs := make([]domain.Subscription, 0, len(cfg.Subscriptions))
	for _, s := range cfg.Subscriptions {
		subs = append(subs, domain.Subscription{
			Name:             s.Name,
			Email:            s.Email,
			SMSNumber:        s.SMS,
			MinPercentChange: s.MinPercentChange,
		})
	}
	return subs
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
