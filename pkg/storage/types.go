package storage

import (
	"context"
	"time"

	"github.com/creditscope/creditscope/pkg/settings"
)

// Change captures a single difference between two campus syncs.
type Change struct {
	OccurredAt time.Time `json:"occurredAt"`

	FullID    string `json:"fullId"`
	ShortName string `json:"shortName"`
	Semester  string `json:"semester"`

	ChangeType string `json:"changeType"` // added | updated | removed
	Detail     string `json:"detail,omitempty"`
}

// StateStats summarizes the synced modules sharing one state.
type StateStats struct {
	State   string
	Modules int
	ECTS    float64
}

// Backend is a settings.Store that also keeps a history of sync changes.
type Backend interface {
	settings.Store

	// ReplaceLocal stores d as the latest sync result and returns the
	// changes relative to the previous one.
	ReplaceLocal(ctx context.Context, d settings.LocalData) ([]Change, error)
	RecentChanges(ctx context.Context, limit int) ([]Change, error)
	Close() error
}
