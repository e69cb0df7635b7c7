package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/comexbot/internal/domain"
	"github.com/alejandrodnm/comexbot/internal/ports"
)

// Config contiene la configuración del análisis diario.
type Config struct {
	Interval       time.Duration
	TopN           int
	StrongLeadTopK int
	MomentumMinPct float64
	Subscriptions  []domain.Subscription
	RunOnce        bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		Interval:       24 * time.Hour,
		TopN:           5,
		StrongLeadTopK: domain.DefaultStrongLeadTopK,
		MomentumMinPct: domain.DefaultMomentumMinPct,
	}
}

// Analyzer es el orquestador del batch diario: fetch → rank → strong leads
// → oportunidades → persistencia → alertas.
type Analyzer struct {
	cfg      Config
	quotes   ports.QuoteProvider
	storage  ports.Storage // nil en dry-run: no se persiste nada
	reporter ports.Reporter
	email    ports.AlertSink // nil = canal desactivado
	sms      ports.AlertSink
}

// New crea un Analyzer con todas las dependencias inyectadas.
func New(
	cfg Config,
	quotes ports.QuoteProvider,
	storage ports.Storage,
	reporter ports.Reporter,
	email ports.AlertSink,
	sms ports.AlertSink,
) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		quotes:   quotes,
		storage:  storage,
		reporter: reporter,
		email:    email,
		sms:      sms,
	}
}

// Run ejecuta el análisis del día y, salvo RunOnce, repite cada Interval
// hasta que el contexto se cancele.
func (a *Analyzer) Run(ctx context.Context) error {
	slog.Info("analyzer starting",
		"interval", a.cfg.Interval,
		"once", a.cfg.RunOnce,
		"subscriptions", len(a.cfg.Subscriptions),
	)

	if _, err := a.RunDay(ctx, time.Now().UTC()); err != nil {
		slog.Error("analysis run failed", "err", err)
		if a.cfg.RunOnce {
			return err
		}
	}

	if a.cfg.RunOnce {
		return nil
	}

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("analyzer stopped")
			return nil
		case <-ticker.C:
			if _, err := a.RunDay(ctx, time.Now().UTC()); err != nil {
				slog.Error("analysis run failed", "err", err)
			}
		}
	}
}

// RunDay procesa el batch completo de una fecha. Devuelve el reporte del
// día; el error agrega los fallos de persistencia (cada reporte intenta
// persistir aunque otro haya fallado). Repetir la misma fecha con el mismo
// input deja exactamente las mismas filas persistidas.
func (a *Analyzer) RunDay(ctx context.Context, date time.Time) (domain.DailyReport, error) {
	start := time.Now()

	records, err := a.quotes.FetchQuotes(ctx, date)
	if err != nil {
		return domain.DailyReport{}, fmt.Errorf("analysis.RunDay: fetch quotes: %w", err)
	}
	if len(records) == 0 {
		return domain.DailyReport{}, fmt.Errorf("analysis.RunDay: empty quote batch for %s", date.Format("2006-01-02"))
	}

	// (a) rankings por ventana — la tabla completa se persiste junta
	rankings := make(map[domain.Timeframe][]domain.RankedEntry, len(domain.RankingTimeframes))
	var allRanked []domain.RankedEntry
	for _, tf := range domain.RankingTimeframes {
		ranked := domain.Rank(records, tf)
		rankings[tf] = ranked
		allRanked = append(allRanked, ranked...)
	}

	// (b) strong leads contra el snapshot anterior (por fecha calendario,
	// no "último run": si un día se saltó se usa el último disponible)
	previous, err := a.previousRankings(ctx, date)
	if err != nil {
		// Sin snapshot previo legible seguimos como primer run: todos los
		// leads entran sin delta.
		slog.Warn("could not read previous strong leads, treating as first run", "err", err)
		previous = nil
	}
	leads := domain.DetectStrongLeads(records, previous, date, a.cfg.StrongLeadTopK)

	// (c) oportunidades por confirmación de momentum
	opps := domain.Classify(records, date, a.cfg.MomentumMinPct)

	report := domain.DailyReport{
		Date:          date,
		Records:       records,
		Rankings:      rankings,
		StrongLeads:   leads,
		Opportunities: opps,
	}

	var persistErrs []error
	if a.storage != nil {
		persistErrs = a.persist(ctx, date, records, allRanked, leads, opps)
	}

	if a.reporter != nil {
		if err := a.reporter.Report(ctx, report); err != nil {
			slog.Warn("reporter error", "err", err)
		}
	}

	// (d) suscripciones — independiente de los reportes, nunca fatal
	a.evaluateSubscriptions(ctx, records)

	slog.Info("analysis run complete",
		"date", date.Format("2006-01-02"),
		"quotes", len(records),
		"strong_leads", len(leads),
		"opportunities", len(opps),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, errors.Join(persistErrs...)
}

// previousRankings construye el mapa nombre → ranking del snapshot de
// strong leads más reciente anterior a date. Sin snapshot no es un error:
// primer run o hueco en el histórico.
func (a *Analyzer) previousRankings(ctx context.Context, date time.Time) (map[string]int, error) {
	if a.storage == nil {
		return nil, nil
	}

	prevDate, ok, err := a.storage.PreviousStrongLeadDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("no previous strong-lead snapshot", "date", date.Format("2006-01-02"))
		return nil, nil
	}

	rows, err := a.storage.StrongLeads(ctx, prevDate)
	if err != nil {
		return nil, err
	}

	previous := make(map[string]int, len(rows))
	for _, l := range rows {
		previous[l.Name] = l.Ranking
	}
	slog.Debug("previous snapshot loaded",
		"snapshot_date", prevDate.Format("2006-01-02"), "leads", len(rows))
	return previous, nil
}

// persist guarda los cuatro conjuntos del día. Cada uno intenta aunque el
// anterior haya fallado: un reporte corrupto no debe bloquear los demás, y
// cada Save* es atómico por fecha dentro del storage.
func (a *Analyzer) persist(
	ctx context.Context,
	date time.Time,
	records []domain.QuoteRecord,
	ranked []domain.RankedEntry,
	leads []domain.StrongLead,
	opps []domain.InvestmentOpportunity,
) []error {
	var errs []error

	if err := a.storage.SaveQuotes(ctx, date, records); err != nil {
		errs = append(errs, fmt.Errorf("persist quotes: %w", err))
	}
	if err := a.storage.SaveRankings(ctx, date, ranked); err != nil {
		errs = append(errs, fmt.Errorf("persist rankings: %w", err))
	}
	if err := a.storage.SaveStrongLeads(ctx, date, leads); err != nil {
		errs = append(errs, fmt.Errorf("persist strong leads: %w", err))
	}
	if err := a.storage.SaveOpportunities(ctx, date, opps); err != nil {
		errs = append(errs, fmt.Errorf("persist opportunities: %w", err))
	}

	for _, err := range errs {
		slog.Error("persistence failure", "err", err)
	}
	return errs
}

// evaluateSubscriptions dispara un alert por cada suscripción cuyo
// commodity se movió |PctDaily| >= umbral. Los fallos de envío se loguean
// y no afectan al resto del run.
func (a *Analyzer) evaluateSubscriptions(ctx context.Context, records []domain.QuoteRecord) {
	if len(a.cfg.Subscriptions) == 0 || (a.email == nil && a.sms == nil) {
		return
	}

	byName := make(map[string]domain.QuoteRecord, len(records))
	for _, q := range records {
		byName[strings.ToLower(q.Name)] = q
	}

	for _, sub := range a.cfg.Subscriptions {
		q, ok := byName[strings.ToLower(sub.Name)]
		if !ok {
			slog.Debug("subscribed commodity not in batch", "name", sub.Name)
			continue
		}
		if q.PctDaily == nil {
			slog.Debug("subscribed commodity without daily pct", "name", sub.Name)
			continue
		}

		pct := *q.PctDaily
		if pct < sub.MinPercentChange && -pct < sub.MinPercentChange {
			continue
		}

		if sub.Email != "" && a.email != nil {
			alert := domain.NewAlertEvent(q, pct, sub.Email)
			if err := a.email.Send(ctx, alert, sub.Email); err != nil {
				slog.Warn("email alert failed", "name", q.Name, "err", err)
			} else {
				slog.Info("email alert sent", "name", q.Name, "pct_daily", pct, "to", sub.Email)
			}
		}
		if sub.SMSNumber != "" && a.sms != nil {
			alert := domain.NewAlertEvent(q, pct, sub.SMSNumber)
			if err := a.sms.Send(ctx, alert, sub.SMSNumber); err != nil {
				slog.Warn("sms alert failed", "name", q.Name, "err", err)
			} else {
				slog.Info("sms alert sent", "name", q.Name, "pct_daily", pct, "to", sub.SMSNumber)
			}
		}
	}
}
