// Package audit records dataset operations so the history endpoint can
// show what was generated, loaded, and exported, and with what result.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action represents the type of operation being recorded.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionLoad     Action = "load"
	ActionExport   Action = "export"
)

// Outcome tells whether the recorded operation succeeded.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// DefaultRecentLimit is used when a history query does not specify one.
const DefaultRecentLimit = 50

// Entry is a single history record.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Source    string    `json:"source,omitempty"`
	Records   int       `json:"records"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Params contains what a caller knows about an operation. Err may be
// nil; failures are recorded with the error text as detail.
type Params struct {
	Action  Action
	Source  string
	Records int
	Err     error
}

// NewEntry stamps params with an ID and timestamp.
func NewEntry(p Params) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Action:    p.Action,
		Source:    p.Source,
		Records:   p.Records,
		Outcome:   OutcomeOK,
		CreatedAt: time.Now().UTC(),
	}
	if p.Err != nil {
		e.Outcome = OutcomeFailed
		e.Detail = p.Err.Error()
	}
	return e
}

// Store persists history entries. Implementations must be safe for
// concurrent use.
type Store interface {
	// Record saves one entry and returns it as stored.
	Record(ctx context.Context, p Params) (Entry, error)

	// Recent returns up to limit entries, newest first. A non-positive
	// limit falls back to DefaultRecentLimit.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// PurgeOlderThan deletes entries older than age and reports how
	// many were removed.
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}
