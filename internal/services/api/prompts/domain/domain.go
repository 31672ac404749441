// Package domain defines types and ports for the prompt registry
package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Prompt types the classifier consumes
const (
	TypeExtraction     = "extraction"
	TypeClassification = "classification"
)

// ValidType reports whether t is a known prompt type
func ValidType(t string) bool {
	return t == TypeExtraction || t == TypeClassification
}

// Prompt is one versioned template row
type Prompt struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ProfileType string          `json:"profile_type"`
	PromptType  string          `json:"prompt_type"`
	Version     int             `json:"version"`
	Content     string          `json:"content"`
	Variables   json.RawMessage `json:"variables,omitempty"`
	IsActive    bool            `json:"is_active"`
	IsDefault   bool            `json:"is_default"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateInput is the create-prompt request body
type CreateInput struct {
	Name        string          `json:"name" validate:"required"`
	ProfileType string          `json:"profile_type" validate:"required,profile_type"`
	PromptType  string          `json:"prompt_type" validate:"required,oneof=extraction classification"`
	Content     string          `json:"content" validate:"required"`
	Variables   json.RawMessage `json:"variables,omitempty"`
}

// UpdateInput mutates an existing prompt. Nil fields are left untouched,
// any content change bumps the version
type UpdateInput struct {
	ID        string           `json:"id" validate:"required,uuid"`
	Name      *string          `json:"name,omitempty"`
	Content   *string          `json:"content,omitempty"`
	Variables *json.RawMessage `json:"variables,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

// RefInput names one prompt by id
type RefInput struct {
	ID string `json:"id" validate:"required,uuid"`
}

// ActiveInput selects the active default prompt for a profile and type
type ActiveInput struct {
	ProfileType string `json:"profile_type" validate:"required,profile_type"`
	PromptType  string `json:"prompt_type" validate:"required,oneof=extraction classification"`
}

// ListResult wraps the prompt list, never nil
type ListResult struct {
	Prompts []Prompt `json:"prompts"`
}

// Repo is the storage surface bound to one Queryer
type Repo interface {
	// Insert persists a new prompt at version 1 and returns the row
	Insert(ctx context.Context, p Prompt) (Prompt, error)

	// Get loads one prompt by id
	Get(ctx context.Context, id string) (Prompt, error)

	// Update rewrites the mutable fields and returns the row
	Update(ctx context.Context, p Prompt) (Prompt, error)

	// ClearDefaults drops is_default from every prompt sharing the
	// profile and prompt type
	ClearDefaults(ctx context.Context, profileType, promptType string) error

	// MarkDefault flags one prompt as the default
	MarkDefault(ctx context.Context, id string) error

	// Delete removes the prompt row
	Delete(ctx context.Context, id string) error

	// List returns every prompt, newest first
	List(ctx context.Context) ([]Prompt, error)

	// ActiveDefault returns the active default prompt for the pair
	ActiveDefault(ctx context.Context, profileType, promptType string) (Prompt, error)
}

// ServicePort is the prompts API surface
type ServicePort interface {
	Create(ctx context.Context, createdBy string, in CreateInput) (Prompt, error)
	Update(ctx context.Context, in UpdateInput) (Prompt, error)
	SetDefault(ctx context.Context, in RefInput) (Prompt, error)
	Delete(ctx context.Context, in RefInput) error
	List(ctx context.Context) (ListResult, error)
	Active(ctx context.Context, in ActiveInput) (Prompt, error)
}
