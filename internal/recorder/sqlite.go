package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketLens/internal/logging"
	"MarketLens/internal/model"
)

// SQLiteRecorder persists refreshes and metric snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logging.For("recorder").Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refreshes (
			id              TEXT PRIMARY KEY,
			timestamp       INTEGER NOT NULL,
			trigger_type    TEXT,
			cleared_entries INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_ts ON refreshes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS metric_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			refresh_id  TEXT,
			timestamp   INTEGER NOT NULL,
			universe    TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			sector      TEXT,
			industry    TEXT,
			close       REAL,
			change_1d   REAL,
			change_1w   REAL,
			change_1m   REAL,
			change_ytd  REAL,
			market_cap  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_refresh ON metric_snapshots(refresh_id)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ticker_ts ON metric_snapshots(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO refreshes
		(id, timestamp, trigger_type, cleared_entries)
		VALUES (?,?,?,?)`,
		evt.ID, at.Unix(), evt.Trigger, evt.ClearedEntries,
	)
	return err
}

// RecordMetrics stores one snapshot of a universe's rows in a single transaction.
func (r *SQLiteRecorder) RecordMetrics(refreshID, universe string, rows []model.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO metric_snapshots
		(refresh_id, timestamp, universe, ticker, sector, industry,
		 close, change_1d, change_1w, change_1m, change_ytd, market_cap)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, row := range rows {
		if _, err := stmt.Exec(refreshID, now, universe, row.Ticker, row.Sector, row.Industry,
			row.Close, row.Change1D, row.Change1W, row.Change1M, row.ChangeYTD, row.MarketCap); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	logging.For("recorder").Info("closing sqlite recorder")
	return r.db.Close()
}
