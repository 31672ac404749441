// Package service implements session creation and the process trigger
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"domainsift/internal/core/normalize"
	"domainsift/internal/core/profile"
	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/logger"
	"domainsift/internal/services/api/sessions/domain"
	batchdom "domainsift/internal/services/batch/domain"
	creditsdom "domainsift/internal/services/credits/domain"
)

// MaxDomains caps the number of domains accepted per session
const MaxDomains = 1000

// Svc implements domain.ServicePort
type Svc struct {
	db        repokit.TxRunner
	binder    repokit.Binder[domain.Repo]
	ledger    creditsdom.LedgerPort
	processor batchdom.ProcessorPort
	norm      *normalize.Normalizer
	log       logger.Logger
}

// Compile-time assertion: Svc implements domain.ServicePort
var _ domain.ServicePort = (*Svc)(nil)

// New constructs the sessions service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.Repo],
	ledger creditsdom.LedgerPort,
	processor batchdom.ProcessorPort,
) *Svc {
	if db == nil {
		panic("sessions.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("sessions.Service requires a non-nil Repo binder")
	}
	if ledger == nil {
		panic("sessions.Service requires a credit ledger")
	}
	if processor == nil {
		panic("sessions.Service requires a batch processor")
	}
	return &Svc{
		db:        db,
		binder:    binder,
		ledger:    ledger,
		processor: processor,
		norm:      normalize.New(),
		log:       *logger.Named("sessions"),
	}
}

// Create validates the request, normalizes every domain, and persists the
// session plus its task rows. The two writes are deliberately separate
// statements with a compensating delete, so a task-insert failure can never
// leave an orphan session behind
func (s *Svc) Create(ctx context.Context, ownerID string, in domain.CreateInput) (domain.CreateResult, error) {
	var zero domain.CreateResult

	if in.Name == "" {
		return zero, perr.Validationf("name is required")
	}
	if !profile.Valid(in.ProfileType) {
		return zero, perr.Validationf("invalid profile type %q", in.ProfileType)
	}
	if len(in.Domains) == 0 {
		return zero, perr.Validationf("domains must not be empty")
	}
	if len(in.Domains) > MaxDomains {
		return zero, perr.Validationf("too many domains: %d exceeds the %d limit", len(in.Domains), MaxDomains)
	}

	required := int64(len(in.Domains))
	acct, err := s.ledger.Lookup(ctx, ownerID)
	if err != nil {
		return zero, err
	}
	if !acct.IsAdmin() && acct.Credits < required {
		return zero, perr.WithDetails(
			perr.InsufficientCreditsf("insufficient credits: need %d, have %d", required, acct.Credits),
			map[string]int64{"required": required, "available": acct.Credits},
		)
	}

	sessionID := uuid.NewString()
	entries := s.norm.NormalizeAll(in.Domains)
	tasks := make([]domain.NewTask, len(entries))
	for i, e := range entries {
		tasks[i] = domain.NewTask{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Domain:    e.Domain,
			URL:       e.URL,
		}
	}

	repo := s.binder.Bind(s.db)
	if err := repo.InsertSession(ctx, domain.NewSession{
		ID:           sessionID,
		OwnerID:      ownerID,
		Name:         in.Name,
		ProfileType:  in.ProfileType,
		TotalDomains: len(tasks),
	}); err != nil {
		return zero, err
	}
	if err := repo.InsertTasks(ctx, tasks); err != nil {
		if derr := repo.DeleteSession(ctx, sessionID); derr != nil {
			s.log.Error().Err(derr).Str("session_id", sessionID).Msg("compensating delete failed")
		}
		return zero, err
	}

	s.log.Info().
		Str("session_id", sessionID).
		Str("profile_type", in.ProfileType).
		Int("total_domains", len(tasks)).
		Msg("session created")

	return domain.CreateResult{
		SessionID:        sessionID,
		TotalDomains:     len(tasks),
		EstimatedCredits: len(tasks),
		Message:          fmt.Sprintf("session created with %d domains", len(tasks)),
	}, nil
}

// Process hands the session to the batch processor
func (s *Svc) Process(ctx context.Context, ownerID string, in domain.ProcessInput) (batchdom.ProcessAck, error) {
	if in.SessionID == "" {
		return batchdom.ProcessAck{}, perr.Validationf("session_id is required")
	}
	return s.processor.Process(ctx, in.SessionID, ownerID)
}
