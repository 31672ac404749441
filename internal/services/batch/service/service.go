// Package service implements the batch processor state machine
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"domainsift/internal/adapters/classify"
	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/logger"
	"domainsift/internal/services/batch/domain"
	creditsdom "domainsift/internal/services/credits/domain"
)

// Config tunes the processor
type Config struct {
	// BatchSize is the max tasks claimed per process call
	BatchSize int

	// LeaseTTL bounds how long one slice may hold a session before another
	// caller may reclaim it (crashed worker recovery)
	LeaseTTL time.Duration

	// Parallelism bounds concurrent classifier calls within one slice.
	// 1 means strictly sequential
	Parallelism int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = 2 * time.Minute
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
	return c
}

// Svc drives sessions through their batches
type Svc struct {
	db         repokit.TxRunner
	binder     repokit.Binder[domain.Repo]
	classifier classify.Classifier
	ledger     creditsdom.LedgerPort
	pool       *Pool
	cfg        Config
	log        logger.Logger
}

// Compile-time assertion: Svc implements domain.ProcessorPort
var _ domain.ProcessorPort = (*Svc)(nil)

// New constructs the batch processor
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.Repo],
	classifier classify.Classifier,
	ledger creditsdom.LedgerPort,
	cfg Config,
) *Svc {
	if db == nil {
		panic("batch.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("batch.Service requires a non-nil Repo binder")
	}
	if classifier == nil {
		panic("batch.Service requires a classifier")
	}
	if ledger == nil {
		panic("batch.Service requires a credit ledger")
	}
	return &Svc{
		db:         db,
		binder:     binder,
		classifier: classifier,
		ledger:     ledger,
		pool:       NewPool(),
		cfg:        cfg.withDefaults(),
		log:        *logger.Named("batch"),
	}
}

// Pool exposes the slice pool for shutdown wiring
func (s *Svc) Pool() *Pool { return s.pool }

// Process claims one slice for the session and dispatches it detached.
// Guards run in order: ownership, terminal status, live lease, credit
// precheck, atomic session claim, atomic task claim. The call returns the
// pre-batch counters immediately, repeated calls converge to completion
func (s *Svc) Process(ctx context.Context, sessionID, ownerID string) (domain.ProcessAck, error) {
	var zero domain.ProcessAck
	repo := s.binder.Bind(s.db)

	sess, err := repo.SessionForOwner(ctx, sessionID, ownerID)
	if err != nil {
		return zero, err
	}

	switch {
	case sess.Status == domain.SessionCompleted:
		return zero, perr.Conflictf("session already completed")
	case sess.LeaseActive(time.Now()) || s.pool.Running(sessionID):
		return zero, perr.Conflictf("session is already being processed")
	}

	// credit precheck covers the whole remainder, the per-analysis debit
	// still guards each unit individually
	acct, err := s.ledger.Lookup(ctx, ownerID)
	if err != nil {
		return zero, err
	}
	if remaining := int64(sess.Remaining()); !acct.IsAdmin() && acct.Credits < remaining {
		return zero, perr.WithDetails(
			perr.InsufficientCreditsf("insufficient credits: need %d, have %d", remaining, acct.Credits),
			map[string]int64{"required": remaining, "available": acct.Credits},
		)
	}

	if !s.pool.TryAcquire(sessionID) {
		return zero, perr.Conflictf("session is already being processed")
	}

	claimed, err := repo.ClaimSession(ctx, sessionID, s.cfg.LeaseTTL)
	if err != nil {
		s.pool.Release(sessionID)
		return zero, err
	}
	if !claimed {
		s.pool.Release(sessionID)
		return zero, perr.Conflictf("session is already being processed")
	}

	tasks, err := repo.ClaimTasks(ctx, sessionID, s.cfg.BatchSize)
	if err != nil {
		s.pool.Release(sessionID)
		_ = repo.ReleaseLease(ctx, sessionID)
		return zero, err
	}

	if len(tasks) == 0 {
		s.pool.Release(sessionID)
		done, err := repo.CompleteIfExhausted(ctx, sessionID)
		if err != nil {
			return zero, err
		}
		if !done {
			// nothing pending but the session has unfinished claimed work,
			// likely a prior crash, surrender the lease and let callers retry
			_ = repo.ReleaseLease(ctx, sessionID)
			return domain.ProcessAck{
				SessionID:        sessionID,
				Status:           domain.SessionProcessing,
				Message:          "no pending domains to claim",
				TotalDomains:     sess.TotalDomains,
				ProcessedDomains: sess.ProcessedDomains,
			}, nil
		}
		return domain.ProcessAck{
			SessionID:        sessionID,
			Status:           domain.SessionCompleted,
			Message:          "all domains processed",
			TotalDomains:     sess.TotalDomains,
			ProcessedDomains: sess.ProcessedDomains,
		}, nil
	}

	s.pool.Go(sessionID, func(bg context.Context) {
		s.runSlice(bg, sess, acct.IsAdmin(), tasks)
	})

	return domain.ProcessAck{
		SessionID:        sessionID,
		Status:           domain.SessionProcessing,
		Message:          fmt.Sprintf("processing %d domains", len(tasks)),
		TotalDomains:     sess.TotalDomains,
		ProcessedDomains: sess.ProcessedDomains,
	}, nil
}

// runSlice drives every claimed task with per-task failure isolation, then
// lands the aggregates in one increment and re-checks completion
func (s *Svc) runSlice(ctx context.Context, sess domain.Session, admin bool, tasks []domain.Task) {
	var (
		mu sync.Mutex
		c  domain.Counters
	)
	add := func(ok, credited bool) {
		mu.Lock()
		defer mu.Unlock()
		c.Processed++
		if ok {
			c.Successful++
		} else {
			c.Failed++
		}
		if credited {
			c.Credits++
		}
	}

	if s.cfg.Parallelism <= 1 {
		for _, t := range tasks {
			ok, credited := s.runTask(ctx, sess, admin, t)
			add(ok, credited)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Parallelism)
		for _, t := range tasks {
			t := t
			g.Go(func() error {
				ok, credited := s.runTask(gctx, sess, admin, t)
				add(ok, credited)
				return nil // task failures are isolated, never abort the slice
			})
		}
		_ = g.Wait()
	}

	repo := s.binder.Bind(s.db)
	if err := repo.AddCounters(ctx, sess.ID, c); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Msg("aggregate update failed")
	}
	if err := repo.ReleaseLease(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("lease release failed")
	}
	done, err := repo.CompleteIfExhausted(ctx, sess.ID)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Msg("completion check failed")
		return
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Int("processed", c.Processed).
		Int("successful", c.Successful).
		Int("failed", c.Failed).
		Bool("completed", done).
		Msg("slice finished")
}

// runTask processes one claimed task. ok reports classification success,
// credited reports whether the unit is billable
func (s *Svc) runTask(ctx context.Context, sess domain.Session, admin bool, t domain.Task) (ok, credited bool) {
	repo := s.binder.Bind(s.db)

	res, err := s.classifier.Classify(ctx, classify.Request{
		Domain:      t.Domain,
		URL:         t.URL,
		ProfileType: sess.ProfileType,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("domain", t.Domain).Msg("classification failed")
		if ferr := repo.FailTask(ctx, t.ID, domain.CauseUpstream); ferr != nil {
			s.log.Error().Err(ferr).Str("task_id", t.ID).Msg("fail-task update failed")
		}
		return false, false
	}

	analysisID, err := repo.InsertAnalysis(ctx, domain.Analysis{
		OwnerID:        sess.OwnerID,
		Domain:         t.Domain,
		URL:            t.URL,
		ProfileType:    sess.ProfileType,
		Classification: res.Classification,
		Confidence:     res.Confidence,
		Comment:        res.Comment,
		ProcessingSec:  res.ProcessingTime,
		CreditsUsed:    1,
		Raw:            res.Raw,
	})
	if err != nil {
		s.log.Error().Err(err).Str("domain", t.Domain).Msg("analysis persist failed")
		if ferr := repo.FailTask(ctx, t.ID, domain.CausePersist); ferr != nil {
			s.log.Error().Err(ferr).Str("task_id", t.ID).Msg("fail-task update failed")
		}
		return false, false
	}

	if err := repo.CompleteTask(ctx, t.ID, analysisID); err != nil {
		s.log.Error().Err(err).Str("task_id", t.ID).Msg("complete-task update failed")
	}

	if admin {
		// admins are never debited but the unit still counts as used
		return true, true
	}
	if err := s.ledger.Debit(ctx, sess.OwnerID, 1, "domain analysis: "+t.Domain, &analysisID); err != nil {
		// the analysis stands, the missed debit is logged for reconciliation
		s.log.Error().Err(err).Str("analysis_id", analysisID).Msg("credit debit failed")
		return true, false
	}
	return true, true
}
