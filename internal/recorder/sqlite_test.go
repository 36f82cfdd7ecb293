package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MarketLens/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "marketlens.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_Refresh(t *testing.T) {
	r := openTemp(t)
	id := NewRefreshID()
	if err := r.RecordRefresh(&RefreshEvent{ID: id, Trigger: TriggerManual, At: time.Unix(1700000000, 0), ClearedEntries: 4}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var trigger string
	var cleared int
	var ts int64
	err := r.db.QueryRow(`SELECT trigger_type, cleared_entries, timestamp FROM refreshes WHERE id = ?`, id).Scan(&trigger, &cleared, &ts)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if trigger != TriggerManual || cleared != 4 || ts != 1700000000 {
		t.Errorf("got trigger=%s cleared=%d ts=%d", trigger, cleared, ts)
	}

	if err := r.RecordRefresh(&RefreshEvent{ID: id}); err == nil {
		t.Error("duplicate refresh id should fail")
	}
}

func TestSQLiteRecorder_Metrics(t *testing.T) {
	r := openTemp(t)
	rows := []model.MetricRow{
		{Ticker: "AAPL", Sector: "Tech", Close: 190, Change1D: 1.2, MarketCap: 3e12},
		{Ticker: "XOM", Sector: "Energy", Close: 110, Change1D: -0.4, MarketCap: 4.5e11},
	}
	if err := r.RecordMetrics("rid-1", "us", rows); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordMetrics("rid-1", "us", nil); err != nil {
		t.Fatalf("empty snapshot: %v", err)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM metric_snapshots WHERE refresh_id = ? AND universe = ?`, "rid-1", "us").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}

	var change float64
	if err := r.db.QueryRow(`SELECT change_1d FROM metric_snapshots WHERE ticker = 'XOM'`).Scan(&change); err != nil {
		t.Fatalf("query: %v", err)
	}
	if change != -0.4 {
		t.Errorf("change_1d = %v", change)
	}
}

func TestSQLiteRecorder_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketlens.db")
	for i := 0; i < 2; i++ {
		r, err := NewSQLiteRecorder(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		r.Close()
	}
}

func TestNewRefreshIDUnique(t *testing.T) {
	if NewRefreshID() == NewRefreshID() {
		t.Error("refresh ids should differ")
	}
}

var _ Recorder = (*SQLiteRecorder)(nil)
var _ Recorder = (*NoopRecorder)(nil)
