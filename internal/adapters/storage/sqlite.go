package storage

// sqlite.go — histórico diario con escrituras idempotentes.
//
// Estrategia:
//   - Cuatro tablas, todas con la fecha calendario como parte de la key:
//     `quotes_daily` (batch crudo), `rankings_daily`, `strong_leads_daily`
//     y `opportunities_daily`.
//   - Cada Save* es replace-for-date: DELETE de la fecha + INSERT del batch
//     dentro de UNA transacción. Repetir un run para la misma fecha deja
//     exactamente las mismas filas, y un fallo a mitad no deja el reporte
//     a medias.
//   - Los porcentajes opcionales se guardan como NULL, nunca como 0.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/comexbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Batch crudo del día, una fila por commodity
CREATE TABLE IF NOT EXISTS quotes_daily (
    date        TEXT NOT NULL,
    category    TEXT NOT NULL,
    name        TEXT NOT NULL,
    unit        TEXT,
    price       REAL NOT NULL DEFAULT 0,
    change      REAL NOT NULL DEFAULT 0,
    pct_daily   REAL,
    pct_weekly  REAL,
    pct_monthly REAL,
    pct_yearly  REAL,
    pct_3y      REAL,
    PRIMARY KEY (date, name)
);

-- Ranking por categoría y ventana
CREATE TABLE IF NOT EXISTS rankings_daily (
    date      TEXT    NOT NULL,
    timeframe TEXT    NOT NULL,
    category  TEXT    NOT NULL,
    name      TEXT    NOT NULL,
    position  INTEGER NOT NULL,
    pct       REAL    NOT NULL,
    PRIMARY KEY (date, timeframe, name)
);

-- Strong leads del día con delta vs snapshot anterior
CREATE TABLE IF NOT EXISTS strong_leads_daily (
    date           TEXT    NOT NULL,
    ranking        INTEGER NOT NULL,
    name           TEXT    NOT NULL,
    category       TEXT    NOT NULL,
    timeframes     TEXT    NOT NULL,
    prev_ranking   INTEGER,
    ranking_change INTEGER,
    price          REAL    NOT NULL DEFAULT 0,
    pct_daily      REAL,
    pct_weekly     REAL,
    pct_monthly    REAL,
    PRIMARY KEY (date, name)
);

-- Oportunidades clasificadas por horizonte
CREATE TABLE IF NOT EXISTS opportunities_daily (
    date        TEXT    NOT NULL,
    horizon     TEXT    NOT NULL,
    ranking     INTEGER NOT NULL,
    name        TEXT    NOT NULL,
    category    TEXT    NOT NULL,
    supporting  TEXT    NOT NULL,
    pct_primary REAL    NOT NULL,
    pct_confirm REAL    NOT NULL,
    PRIMARY KEY (date, horizon, name)
);

CREATE INDEX IF NOT EXISTS idx_quotes_name ON quotes_daily(name, date);
CREATE INDEX IF NOT EXISTS idx_leads_date  ON strong_leads_daily(date, ranking);
CREATE INDEX IF NOT EXISTS idx_opps_date   ON opportunities_daily(date, horizon, ranking);
`

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveQuotes reemplaza el batch crudo de la fecha.
func (s *SQLiteStorage) SaveQuotes(ctx context.Context, date time.Time, records []domain.QuoteRecord) error {
	return s.replaceForDate(ctx, "quotes_daily", date, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO quotes_daily
				(date, category, name, unit, price, change,
				 pct_daily, pct_weekly, pct_monthly, pct_yearly, pct_3y)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, q := range records {
			if _, err := stmt.ExecContext(ctx,
				dateKey(date), q.Category.String(), q.Name, q.Unit, q.Price, q.Change,
				q.PctDaily, q.PctWeekly, q.PctMonthly, q.PctYearly, q.Pct3Year,
			); err != nil {
				return fmt.Errorf("insert %s: %w", q.Name, err)
			}
		}
		return nil
	})
}

// SaveRankings reemplaza la tabla rankeada completa de la fecha.
func (s *SQLiteStorage) SaveRankings(ctx context.Context, date time.Time, entries []domain.RankedEntry) error {
	return s.replaceForDate(ctx, "rankings_daily", date, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO rankings_daily (date, timeframe, category, name, position, pct)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx,
				dateKey(date), e.Timeframe.String(), e.Category.String(), e.Name, e.Rank, e.Pct,
			); err != nil {
				return fmt.Errorf("insert %s/%s: %w", e.Timeframe, e.Name, err)
			}
		}
		return nil
	})
}

// SaveStrongLeads reemplaza el snapshot de strong leads de la fecha.
func (s *SQLiteStorage) SaveStrongLeads(ctx context.Context, date time.Time, leads []domain.StrongLead) error {
	return s.replaceForDate(ctx, "strong_leads_daily", date, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO strong_leads_daily
				(date, ranking, name, category, timeframes, prev_ranking,
				 ranking_change, price, pct_daily, pct_weekly, pct_monthly)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, l := range leads {
			if _, err := stmt.ExecContext(ctx,
				dateKey(date), l.Ranking, l.Name, l.Category.String(), l.TimeframeLabel(),
				l.PreviousRanking, l.RankingChange, l.Price,
				l.PctDaily, l.PctWeekly, l.PctMonthly,
			); err != nil {
				return fmt.Errorf("insert %s: %w", l.Name, err)
			}
		}
		return nil
	})
}

// SaveOpportunities reemplaza las oportunidades clasificadas de la fecha.
func (s *SQLiteStorage) SaveOpportunities(ctx context.Context, date time.Time, opps []domain.InvestmentOpportunity) error {
	return s.replaceForDate(ctx, "opportunities_daily", date, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO opportunities_daily
				(date, horizon, ranking, name, category, supporting, pct_primary, pct_confirm)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, o := range opps {
			supporting := ""
			if len(o.SupportingHorizons) > 0 {
				supporting = o.SupportingHorizons[0]
			}
			if _, err := stmt.ExecContext(ctx,
				dateKey(date), o.Horizon.String(), o.Ranking, o.Name, o.Category.String(),
				supporting, o.PctPrimary, o.PctConfirm,
			); err != nil {
				return fmt.Errorf("insert %s/%s: %w", o.Horizon, o.Name, err)
			}
		}
		return nil
	})
}

// StrongLeads devuelve el snapshot persistido para una fecha exacta.
func (s *SQLiteStorage) StrongLeads(ctx context.Context, date time.Time) ([]domain.StrongLead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ranking, name, category, timeframes, prev_ranking, ranking_change,
		       price, pct_daily, pct_weekly, pct_monthly
		FROM strong_leads_daily
		WHERE date = ?
		ORDER BY ranking ASC
	`, dateKey(date))
	if err != nil {
		return nil, fmt.Errorf("storage.StrongLeads: query: %w", err)
	}
	defer rows.Close()

	var leads []domain.StrongLead
	for rows.Next() {
		var l domain.StrongLead
		var catStr, tfLabel string

		if err := rows.Scan(
			&l.Ranking, &l.Name, &catStr, &tfLabel,
			&l.PreviousRanking, &l.RankingChange,
			&l.Price, &l.PctDaily, &l.PctWeekly, &l.PctMonthly,
		); err != nil {
			return nil, fmt.Errorf("storage.StrongLeads: scan row: %w", err)
		}

		l.Date = date
		l.Category, _ = domain.ParseCategory(catStr)
		l.Timeframes = parseTimeframeLabel(tfLabel)
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// PreviousStrongLeadDate devuelve la fecha del snapshot más reciente
// estrictamente anterior a before, u ok=false si no existe ninguno.
func (s *SQLiteStorage) PreviousStrongLeadDate(ctx context.Context, before time.Time) (time.Time, bool, error) {
	var key sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(date) FROM strong_leads_daily WHERE date < ?`, dateKey(before),
	).Scan(&key)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage.PreviousStrongLeadDate: query: %w", err)
	}
	if !key.Valid {
		return time.Time{}, false, nil
	}

	date, err := time.Parse("2006-01-02", key.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage.PreviousStrongLeadDate: parse %q: %w", key.String, err)
	}
	return date, true, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// replaceForDate ejecuta DELETE + inserts del batch en una sola transacción.
func (s *SQLiteStorage) replaceForDate(ctx context.Context, table string, date time.Time, insert func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: %s: begin tx: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE date = ?`, table), dateKey(date),
	); err != nil {
		return fmt.Errorf("storage: %s: delete date: %w", table, err)
	}

	if err := insert(tx); err != nil {
		return fmt.Errorf("storage: %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: %s: commit: %w", table, err)
	}
	return nil
}

// dateKey normaliza un instante a su día calendario UTC.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// parseTimeframeLabel deshace TimeframeLabel ("D,W" → ventanas).
func parseTimeframeLabel(label string) []domain.Timeframe {
	var out []domain.Timeframe
	for _, part := range strings.Split(label, ",") {
		for _, tf := range domain.RankingTimeframes {
			if part == tf.Short() {
				out = append(out, tf)
			}
		}
	}
	return out
}
