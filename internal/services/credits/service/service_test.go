package service

import (
	"context"
	"testing"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/store"
	"domainsift/internal/services/credits/domain"
)

// fakeTx runs fn directly, no real transaction semantics needed here
type fakeTx struct{}

func (fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(nil) }
func (fakeTx) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	return nil, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) store.Row { return nil }

// fakeRepo is an in-memory domain.Repo
type fakeRepo struct {
	acct      domain.Account
	acctErr   error
	casCalls  int
	appended  []domain.Transaction
	appendErr error
}

func (f *fakeRepo) Account(ctx context.Context, ownerID string) (domain.Account, error) {
	if f.acctErr != nil {
		return domain.Account{}, f.acctErr
	}
	return f.acct, nil
}

func (f *fakeRepo) DebitCAS(ctx context.Context, ownerID string, amount int64) (int64, bool, error) {
	f.casCalls++
	if f.acct.Credits < amount {
		return 0, false, nil
	}
	f.acct.Credits -= amount
	return f.acct.Credits, true, nil
}

func (f *fakeRepo) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, tx)
	return nil
}

func (f *fakeRepo) Transactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	if limit < len(f.appended) {
		return f.appended[:limit], nil
	}
	return f.appended, nil
}

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(q repokit.Queryer) domain.Repo { return b.r }

func newSvc(r *fakeRepo) *Svc { return New(fakeTx{}, fakeBinder{r: r}) }

func TestDebit_StandardOwner_DecrementsAndAppends(t *testing.T) {
	r := &fakeRepo{acct: domain.Account{OwnerID: "o1", Role: domain.RoleStandard, Credits: 5}}
	s := newSvc(r)

	aid := "an-1"
	if err := s.Debit(context.Background(), "o1", 2, "domain analysis", &aid); err != nil {
		t.Fatalf("Debit error: %v", err)
	}

	if r.acct.Credits != 3 {
		t.Fatalf("credits = %d, want 3", r.acct.Credits)
	}
	if len(r.appended) != 1 {
		t.Fatalf("appended %d ledger rows, want 1", len(r.appended))
	}
	tx := r.appended[0]
	if tx.Amount != -2 || tx.Type != domain.TypeUsage || tx.AnalysisID == nil || *tx.AnalysisID != "an-1" {
		t.Fatalf("unexpected ledger row: %+v", tx)
	}
}

func TestDebit_AdminOwner_NoOp(t *testing.T) {
	r := &fakeRepo{acct: domain.Account{OwnerID: "o1", Role: domain.RoleAdmin, Credits: 0}}
	s := newSvc(r)

	if err := s.Debit(context.Background(), "o1", 10, "x", nil); err != nil {
		t.Fatalf("Debit for admin should be no-op success, got %v", err)
	}
	if r.casCalls != 0 {
		t.Fatalf("admin debit must not touch the balance, CAS called %d times", r.casCalls)
	}
	if len(r.appended) != 0 {
		t.Fatalf("admin debit must not append ledger rows, got %d", len(r.appended))
	}
}

func TestDebit_InsufficientCredits(t *testing.T) {
	r := &fakeRepo{acct: domain.Account{OwnerID: "o1", Role: domain.RoleStandard, Credits: 1}}
	s := newSvc(r)

	err := s.Debit(context.Background(), "o1", 2, "x", nil)
	if err == nil {
		t.Fatal("expected insufficient credits error")
	}
	if !perr.IsCode(err, perr.ErrorCodeInsufficientCredits) {
		t.Fatalf("expected insufficient credits code, got %v", err)
	}
	if len(r.appended) != 0 {
		t.Fatalf("failed debit must not append ledger rows, got %d", len(r.appended))
	}

	pe, ok := perr.As(err)
	if !ok {
		t.Fatalf("expected project error, got %T", err)
	}
	det, ok := pe.Details().(map[string]int64)
	if !ok || det["required"] != 2 || det["available"] != 1 {
		t.Fatalf("unexpected details: %#v", pe.Details())
	}
}

func TestDebit_NonPositiveAmount(t *testing.T) {
	s := newSvc(&fakeRepo{acct: domain.Account{Role: domain.RoleStandard, Credits: 10}})

	for _, amt := range []int64{0, -1} {
		if err := s.Debit(context.Background(), "o1", amt, "x", nil); err == nil {
			t.Fatalf("Debit(%d) expected error", amt)
		}
	}
}

func TestBalanceAndLookup(t *testing.T) {
	r := &fakeRepo{acct: domain.Account{OwnerID: "o1", Role: domain.RoleStandard, Credits: 42}}
	s := newSvc(r)

	bal, err := s.Balance(context.Background(), "o1")
	if err != nil || bal != 42 {
		t.Fatalf("Balance = %d, %v; want 42, nil", bal, err)
	}

	acct, err := s.Lookup(context.Background(), "o1")
	if err != nil || acct.Credits != 42 || acct.IsAdmin() {
		t.Fatalf("Lookup = %+v, %v", acct, err)
	}
}

func TestTransactions_DefaultsLimit(t *testing.T) {
	r := &fakeRepo{acct: domain.Account{OwnerID: "o1", Role: domain.RoleStandard}}
	for i := 0; i < 3; i++ {
		r.appended = append(r.appended, domain.Transaction{OwnerID: "o1", Amount: -1})
	}
	s := newSvc(r)

	got, err := s.Transactions(context.Background(), "o1", 0)
	if err != nil {
		t.Fatalf("Transactions error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Transactions returned %d rows, want 3", len(got))
	}
}
