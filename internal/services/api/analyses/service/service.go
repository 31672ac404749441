// Package service implements the ad-hoc single-domain analysis flow
package service

import (
	"context"

	"domainsift/internal/adapters/classify"
	"domainsift/internal/core/normalize"
	"domainsift/internal/core/profile"
	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/logger"
	"domainsift/internal/services/api/analyses/domain"
	creditsdom "domainsift/internal/services/credits/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	db         repokit.TxRunner
	binder     repokit.Binder[domain.Repo]
	classifier classify.Classifier
	ledger     creditsdom.LedgerPort
	norm       *normalize.Normalizer
	log        logger.Logger
}

// Compile-time assertion: Svc implements domain.ServicePort
var _ domain.ServicePort = (*Svc)(nil)

// New constructs the analyses service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.Repo],
	classifier classify.Classifier,
	ledger creditsdom.LedgerPort,
) *Svc {
	if db == nil {
		panic("analyses.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("analyses.Service requires a non-nil Repo binder")
	}
	if classifier == nil {
		panic("analyses.Service requires a classifier")
	}
	if ledger == nil {
		panic("analyses.Service requires a credit ledger")
	}
	return &Svc{
		db:         db,
		binder:     binder,
		classifier: classifier,
		ledger:     ledger,
		norm:       normalize.New(),
		log:        *logger.Named("analyses"),
	}
}

// Analyze runs one synchronous classification: persist a processing row,
// call the classifier, then complete or fail the row. Non-admin owners are
// debited one credit per completed analysis
func (s *Svc) Analyze(ctx context.Context, ownerID string, in domain.AnalyzeInput) (domain.AnalyzeResult, error) {
	var zero domain.AnalyzeResult

	if !profile.Valid(in.ProfileType) {
		return zero, perr.Validationf("invalid profile type %q", in.ProfileType)
	}
	entry := s.norm.Normalize(in.Domain)
	if entry.Domain == "" {
		return zero, perr.Validationf("domain is required")
	}

	acct, err := s.ledger.Lookup(ctx, ownerID)
	if err != nil {
		return zero, err
	}
	if !acct.IsAdmin() && acct.Credits < 1 {
		return zero, perr.WithDetails(
			perr.InsufficientCreditsf("insufficient credits: need 1, have %d", acct.Credits),
			map[string]int64{"required": 1, "available": acct.Credits},
		)
	}

	repo := s.binder.Bind(s.db)
	analysisID, err := repo.InsertProcessing(ctx, domain.NewAnalysis{
		OwnerID:     ownerID,
		Domain:      entry.Domain,
		URL:         entry.URL,
		ProfileType: in.ProfileType,
	})
	if err != nil {
		return zero, err
	}

	res, err := s.classifier.Classify(ctx, classify.Request{
		Domain:      entry.Domain,
		URL:         entry.URL,
		ProfileType: in.ProfileType,
	})
	if err != nil {
		if ferr := repo.Fail(ctx, analysisID, err.Error()); ferr != nil {
			s.log.Error().Err(ferr).Str("analysis_id", analysisID).Msg("fail-analysis update failed")
		}
		return zero, err
	}

	if err := repo.Complete(ctx, analysisID, domain.Verdict{
		Classification: res.Classification,
		Confidence:     res.Confidence,
		Comment:        res.Comment,
		ProcessingSec:  res.ProcessingTime,
		CreditsUsed:    1,
		Raw:            res.Raw,
	}); err != nil {
		return zero, err
	}

	if !acct.IsAdmin() {
		if err := s.ledger.Debit(ctx, ownerID, 1, "domain analysis: "+entry.Domain, &analysisID); err != nil {
			// the analysis stands, the missed debit is logged for reconciliation
			s.log.Error().Err(err).Str("analysis_id", analysisID).Msg("credit debit failed")
		}
	}

	return domain.AnalyzeResult{
		AnalysisID:     analysisID,
		Domain:         entry.Domain,
		URL:            entry.URL,
		ProfileType:    in.ProfileType,
		Status:         domain.StatusCompleted,
		Classification: res.Classification,
		Confidence:     res.Confidence,
		Comment:        res.Comment,
		ProcessingSec:  res.ProcessingTime,
		CreditsUsed:    1,
	}, nil
}
