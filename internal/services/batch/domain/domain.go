// Package domain defines the core types and interfaces for the batch processor
package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Session statuses. Monotonic: pending -> processing -> completed, never
// backward. The processing lease, not the status, provides mutual exclusion
const (
	SessionPending    = "pending"
	SessionProcessing = "processing"
	SessionCompleted  = "completed"
)

// Task statuses. pending -> processing -> completed|failed, both terminal,
// a task never re-enters pending
const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// Session is one user-submitted batch job
type Session struct {
	ID          string
	OwnerID     string
	Name        string
	ProfileType string

	TotalDomains       int
	ProcessedDomains   int
	SuccessfulAnalyses int
	FailedAnalyses     int
	CreditsUsed        int

	Status      string
	StartedAt   *time.Time
	CompletedAt *time.Time

	// LeaseUntil is the processing lease expiry, nil when no worker holds
	// the session
	LeaseUntil *time.Time
}

// Remaining is the number of domains not yet processed
func (s Session) Remaining() int { return s.TotalDomains - s.ProcessedDomains }

// LeaseActive reports whether a live worker holds the session at now
func (s Session) LeaseActive(now time.Time) bool {
	return s.Status == SessionProcessing && s.LeaseUntil != nil && s.LeaseUntil.After(now)
}

// Task is one queued domain within a session
type Task struct {
	ID        string
	SessionID string
	Domain    string
	URL       string
}

// Analysis is the persisted verdict for one successfully classified domain
type Analysis struct {
	ID             string
	OwnerID        string
	Domain         string
	URL            string
	ProfileType    string
	Classification string
	Confidence     float64
	Comment        string
	ProcessingSec  float64
	CreditsUsed    int
	Raw            json.RawMessage
}

// Counters accumulates per-slice results before the atomic aggregate update
type Counters struct {
	Processed  int
	Successful int
	Failed     int
	Credits    int
}

// ProcessAck is the immediate response to a process call, the slice itself
// runs detached
type ProcessAck struct {
	SessionID        string `json:"session_id"`
	Status           string `json:"status"`
	Message          string `json:"message"`
	TotalDomains     int    `json:"total_domains"`
	ProcessedDomains int    `json:"processed_domains"`
}

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// SessionForOwner loads the session iff it belongs to owner
	SessionForOwner(ctx context.Context, sessionID, ownerID string) (Session, error)

	// ClaimSession atomically takes the processing lease. The claim
	// succeeds iff status is pending, or status is processing with an
	// expired or cleared lease. started_at is set on first claim
	ClaimSession(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)

	// ClaimTasks flips up to limit pending tasks to processing and returns
	// them, in creation order, as one claim-and-return statement so two
	// concurrent claims can never share a task
	ClaimTasks(ctx context.Context, sessionID string, limit int) ([]Task, error)

	// InsertAnalysis persists a completed analysis row and returns its id
	InsertAnalysis(ctx context.Context, a Analysis) (string, error)

	// CompleteTask marks the task completed and links its analysis
	CompleteTask(ctx context.Context, taskID, analysisID string) error

	// FailTask marks the task failed, cause records which leg broke
	FailTask(ctx context.Context, taskID, cause string) error

	// AddCounters increments the session aggregates, never overwrites
	AddCounters(ctx context.Context, sessionID string, c Counters) error

	// ReleaseLease clears the processing lease after a slice finishes
	ReleaseLease(ctx context.Context, sessionID string) error

	// CompleteIfExhausted flips the session to completed iff
	// processed_domains >= total_domains, reports whether it did
	CompleteIfExhausted(ctx context.Context, sessionID string) (bool, error)
}

// Task failure causes, recorded on the task row for later triage.
// An upstream refusal is retry-eligible in a future batch, a persist
// failure is not without dedup
const (
	CauseUpstream = "upstream_error"
	CausePersist  = "persist_error"
)

// ProcessorPort is what the sessions API consumes
type ProcessorPort interface {
	// Process claims and dispatches one slice for the session, returning
	// immediately with the pre-batch counters
	Process(ctx context.Context, sessionID, ownerID string) (ProcessAck, error)
}
