package recorder

import (
	"time"

	"github.com/google/uuid"

	"MarketLens/internal/model"
)

// Refresh triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerStartup   = "startup"
)

// RefreshEvent records one cache invalidation.
type RefreshEvent struct {
	ID             string
	Trigger        string
	At             time.Time
	ClearedEntries int
}

// NewRefreshID returns a fresh refresh identifier.
func NewRefreshID() string {
	return uuid.NewString()
}

// Recorder keeps an audit trail of refreshes and the metric snapshots
// computed after them. Nothing is read back by the dashboard.
type Recorder interface {
	RecordRefresh(evt *RefreshEvent) error
	RecordMetrics(refreshID, universe string, rows []model.MetricRow) error
	Close() error
}
