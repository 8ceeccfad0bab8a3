// Package repo persists check records: one row per analysis request,
// carrying its status and, once completed, the analysis payload.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
)

// Status tracks a check record through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Check is one analysis request and its eventual result.
type Check struct {
	ID             uuid.UUID                   `json:"id"`
	InputText      string                      `json:"input_text"`
	OutputLanguage string                      `json:"output_language"`
	Status         Status                      `json:"status"`
	Error          string                      `json:"error,omitempty"`
	Analysis       *domain.TradeSafetyAnalysis `json:"analysis,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// NewCheck builds a pending check for the given request.
func NewCheck(inputText, outputLanguage string) Check {
	now := time.Now().UTC()
	return Check{
		ID:             uuid.New(),
		InputText:      inputText,
		OutputLanguage: outputLanguage,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Complete returns a copy marked completed with the analysis attached.
func (c Check) Complete(a domain.TradeSafetyAnalysis) Check {
	c.Status = StatusCompleted
	c.Analysis = &a
	c.Error = ""
	c.UpdatedAt = time.Now().UTC()
	return c
}

// Fail returns a copy marked failed with the error message recorded.
func (c Check) Fail(msg string) Check {
	c.Status = StatusFailed
	c.Error = msg
	c.UpdatedAt = time.Now().UTC()
	return c
}

// ListOpts controls pagination for List operations. Records are returned
// newest first.
type ListOpts struct {
	Offset int
	Limit  int
}

// Store persists check records.
type Store interface {
	Create(ctx context.Context, check Check) error
	Get(ctx context.Context, id uuid.UUID) (Check, error)
	Update(ctx context.Context, check Check) error
	List(ctx context.Context, opts ListOpts) ([]Check, error)
}
