// File: internal/domain/models/applet_run.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RunOutcome tags the terminal state of one applet execution.
type RunOutcome string

const (
	RunOutcomeSuccess RunOutcome = "success"
	RunOutcomeSkipped RunOutcome = "skipped"
	RunOutcomeError   RunOutcome = "error"
)

// AppletRun is one immutable audit log entry, written exactly once per
// pipeline invocation. Retention and trimming are external concerns.
type AppletRun struct {
	ID        int64      `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	AppletID  uuid.UUID  `json:"applet_id" db:"applet_id"`
	Outcome   RunOutcome `json:"outcome" db:"outcome"`
	Message   string     `json:"message" db:"message"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// RunResult is the per-applet status a runner invocation returns upward.
// The manual run-now endpoint serialises these directly, so the periodic
// and on-demand surfaces stay indistinguishable in shape.
type RunResult struct {
	AppletID uuid.UUID  `json:"applet_id"`
	Outcome  RunOutcome `json:"outcome"`
	Message  string     `json:"message,omitempty"`
}
