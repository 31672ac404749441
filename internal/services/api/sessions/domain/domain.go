// Package domain defines types and ports for the sessions API
package domain

import (
	"context"

	batchdom "domainsift/internal/services/batch/domain"
)

// CreateInput is the create-session request body
type CreateInput struct {
	Name        string   `json:"name" validate:"required"`
	ProfileType string   `json:"profile_type" validate:"required,profile_type"`
	Domains     []string `json:"domains" validate:"required,min=1,max=1000"`
}

// CreateResult is the create-session response payload
type CreateResult struct {
	SessionID        string `json:"session_id"`
	TotalDomains     int    `json:"total_domains"`
	EstimatedCredits int    `json:"estimated_credits"`
	Message          string `json:"message"`
}

// ProcessInput triggers one batch for an existing session
type ProcessInput struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

// NewSession is the row persisted at creation, counters start at zero
type NewSession struct {
	ID           string
	OwnerID      string
	Name         string
	ProfileType  string
	TotalDomains int
}

// NewTask is one queued domain row persisted alongside its session
type NewTask struct {
	ID        string
	SessionID string
	Domain    string
	URL       string
}

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// InsertSession persists the session row with status pending
	InsertSession(ctx context.Context, s NewSession) error

	// InsertTasks persists the task rows with status pending, in order
	InsertTasks(ctx context.Context, tasks []NewTask) error

	// DeleteSession removes the session row, tasks cascade.
	// Used as the compensating write when task insertion fails
	DeleteSession(ctx context.Context, sessionID string) error
}

// ServicePort is the sessions API surface
type ServicePort interface {
	Create(ctx context.Context, ownerID string, in CreateInput) (CreateResult, error)
	Process(ctx context.Context, ownerID string, in ProcessInput) (batchdom.ProcessAck, error)
}
