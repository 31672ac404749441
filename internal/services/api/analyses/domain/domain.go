// Package domain defines types and ports for the ad-hoc analyses API
package domain

import (
	"context"
	"encoding/json"
)

// Analysis statuses. processing -> completed|failed, both terminal
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalyzeInput is the ad-hoc analyze request body
type AnalyzeInput struct {
	Domain      string `json:"domain" validate:"required"`
	ProfileType string `json:"profile_type" validate:"required,profile_type"`
}

// AnalyzeResult is the ad-hoc analyze response payload
type AnalyzeResult struct {
	AnalysisID     string  `json:"analysis_id"`
	Domain         string  `json:"domain"`
	URL            string  `json:"url"`
	ProfileType    string  `json:"profile_type"`
	Status         string  `json:"status"`
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Comment        string  `json:"comment,omitempty"`
	ProcessingSec  float64 `json:"processing_time_seconds"`
	CreditsUsed    int     `json:"credits_used"`
}

// NewAnalysis is the row persisted before the classifier call
type NewAnalysis struct {
	OwnerID     string
	Domain      string
	URL         string
	ProfileType string
}

// Verdict carries the classifier output persisted at completion
type Verdict struct {
	Classification string
	Confidence     float64
	Comment        string
	ProcessingSec  float64
	CreditsUsed    int
	Raw            json.RawMessage
}

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// InsertProcessing persists a processing row and returns its id
	InsertProcessing(ctx context.Context, a NewAnalysis) (string, error)

	// Complete records the verdict and flips the row to completed
	Complete(ctx context.Context, analysisID string, v Verdict) error

	// Fail records the error message and flips the row to failed
	Fail(ctx context.Context, analysisID, message string) error
}

// ServicePort is the analyses API surface
type ServicePort interface {
	Analyze(ctx context.Context, ownerID string, in AnalyzeInput) (AnalyzeResult, error)
}
