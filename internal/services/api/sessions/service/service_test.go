package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"domainsift/internal/modkit/repokit"
	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/store"
	"domainsift/internal/services/api/sessions/domain"
	batchdom "domainsift/internal/services/batch/domain"
	creditsdom "domainsift/internal/services/credits/domain"
)

type fakeTx struct{}

func (fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(nil) }
func (fakeTx) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	return nil, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) store.Row { return nil }

type fakeRepo struct {
	sessions []domain.NewSession
	tasks    []domain.NewTask
	deleted  []string

	taskErr error
}

func (f *fakeRepo) InsertSession(ctx context.Context, s domain.NewSession) error {
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeRepo) InsertTasks(ctx context.Context, tasks []domain.NewTask) error {
	if f.taskErr != nil {
		return f.taskErr
	}
	f.tasks = append(f.tasks, tasks...)
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(q repokit.Queryer) domain.Repo { return b.r }

type fakeLedger struct{ acct creditsdom.Account }

func (f *fakeLedger) Balance(ctx context.Context, ownerID string) (int64, error) {
	return f.acct.Credits, nil
}

func (f *fakeLedger) Lookup(ctx context.Context, ownerID string) (creditsdom.Account, error) {
	return f.acct, nil
}

func (f *fakeLedger) Debit(ctx context.Context, ownerID string, amount int64, desc string, analysisID *string) error {
	return nil
}

func (f *fakeLedger) Transactions(ctx context.Context, ownerID string, limit int) ([]creditsdom.Transaction, error) {
	return nil, nil
}

type fakeProcessor struct {
	sessionID string
	ownerID   string
	ack       batchdom.ProcessAck
	err       error
}

func (f *fakeProcessor) Process(ctx context.Context, sessionID, ownerID string) (batchdom.ProcessAck, error) {
	f.sessionID = sessionID
	f.ownerID = ownerID
	return f.ack, f.err
}

func standardLedger(credits int64) *fakeLedger {
	return &fakeLedger{acct: creditsdom.Account{OwnerID: "o1", Role: creditsdom.RoleStandard, Credits: credits}}
}

func newSvc(r *fakeRepo, l *fakeLedger, p *fakeProcessor) *Svc {
	return New(fakeTx{}, fakeBinder{r: r}, l, p)
}

func manyDomains(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "example.com"
	}
	return out
}

func TestCreate_PersistsSessionAndNormalizedTasks(t *testing.T) {
	r := &fakeRepo{}
	s := newSvc(r, standardLedger(10), &fakeProcessor{})

	out, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "q3 prospects",
		ProfileType: "fintech",
		Domains:     []string{"https://Example.com/path", "other.io"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if out.SessionID == "" || out.TotalDomains != 2 || out.EstimatedCredits != 2 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if !strings.Contains(out.Message, "2 domains") {
		t.Fatalf("message = %q", out.Message)
	}

	if len(r.sessions) != 1 {
		t.Fatalf("expected 1 session row, got %d", len(r.sessions))
	}
	sess := r.sessions[0]
	if sess.ID != out.SessionID || sess.OwnerID != "o1" || sess.ProfileType != "fintech" || sess.TotalDomains != 2 {
		t.Fatalf("unexpected session row: %+v", sess)
	}

	if len(r.tasks) != 2 {
		t.Fatalf("expected 2 task rows, got %d", len(r.tasks))
	}
	if r.tasks[0].Domain != "Example.com" || r.tasks[0].URL != "https://Example.com/path" {
		t.Fatalf("first task not normalized: %+v", r.tasks[0])
	}
	if r.tasks[1].Domain != "other.io" || r.tasks[1].URL != "https://other.io" {
		t.Fatalf("second task not normalized: %+v", r.tasks[1])
	}
	for _, task := range r.tasks {
		if task.SessionID != out.SessionID || task.ID == "" {
			t.Fatalf("task not linked to session: %+v", task)
		}
	}
}

func TestCreate_RejectsInvalidProfileType(t *testing.T) {
	r := &fakeRepo{}
	s := newSvc(r, standardLedger(10), &fakeProcessor{})

	_, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "x",
		ProfileType: "crypto",
		Domains:     []string{"example.com"},
	})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(r.sessions) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreate_RejectsMissingFields(t *testing.T) {
	s := newSvc(&fakeRepo{}, standardLedger(10), &fakeProcessor{})

	cases := []domain.CreateInput{
		{ProfileType: "software", Domains: []string{"a.com"}}, // no name
		{Name: "x", ProfileType: "software"},                  // no domains
	}
	for _, in := range cases {
		if _, err := s.Create(context.Background(), "o1", in); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestCreate_RejectsTooManyDomains(t *testing.T) {
	r := &fakeRepo{}
	s := newSvc(r, standardLedger(5000), &fakeProcessor{})

	_, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "x",
		ProfileType: "software",
		Domains:     manyDomains(1001),
	})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(r.sessions) != 0 || len(r.tasks) != 0 {
		t.Fatal("no rows may be persisted for an oversized request")
	}
}

func TestCreate_InsufficientCredits(t *testing.T) {
	r := &fakeRepo{}
	s := newSvc(r, standardLedger(2), &fakeProcessor{})

	_, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "x",
		ProfileType: "software",
		Domains:     manyDomains(5),
	})
	if !perr.IsCode(err, perr.ErrorCodeInsufficientCredits) {
		t.Fatalf("expected insufficient credits, got %v", err)
	}
	pe, _ := perr.As(err)
	det, ok := pe.Details().(map[string]int64)
	if !ok || det["required"] != 5 || det["available"] != 2 {
		t.Fatalf("unexpected details: %#v", pe.Details())
	}
	if len(r.sessions) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreate_AdminSkipsBalanceCheck(t *testing.T) {
	r := &fakeRepo{}
	l := &fakeLedger{acct: creditsdom.Account{OwnerID: "o1", Role: creditsdom.RoleAdmin, Credits: 0}}
	s := newSvc(r, l, &fakeProcessor{})

	out, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "x",
		ProfileType: "software",
		Domains:     manyDomains(5),
	})
	if err != nil {
		t.Fatalf("admin create should succeed, got %v", err)
	}
	if out.TotalDomains != 5 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestCreate_TaskInsertFailure_DeletesSession(t *testing.T) {
	r := &fakeRepo{taskErr: errors.New("disk full")}
	s := newSvc(r, standardLedger(10), &fakeProcessor{})

	_, err := s.Create(context.Background(), "o1", domain.CreateInput{
		Name:        "x",
		ProfileType: "software",
		Domains:     []string{"example.com"},
	})
	if err == nil {
		t.Fatal("expected the insert failure to surface")
	}
	if len(r.sessions) != 1 || len(r.deleted) != 1 {
		t.Fatalf("expected compensating delete, sessions=%d deleted=%d", len(r.sessions), len(r.deleted))
	}
	if r.deleted[0] != r.sessions[0].ID {
		t.Fatalf("deleted %q, want %q", r.deleted[0], r.sessions[0].ID)
	}
}

func TestProcess_DelegatesToProcessor(t *testing.T) {
	p := &fakeProcessor{ack: batchdom.ProcessAck{SessionID: "s1", Status: batchdom.SessionProcessing}}
	s := newSvc(&fakeRepo{}, standardLedger(10), p)

	ack, err := s.Process(context.Background(), "o1", domain.ProcessInput{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if p.sessionID != "s1" || p.ownerID != "o1" {
		t.Fatalf("processor saw %q/%q", p.sessionID, p.ownerID)
	}
	if ack.Status != batchdom.SessionProcessing {
		t.Fatalf("unexpected ack: %+v", ack)
	}
}

func TestProcess_RequiresSessionID(t *testing.T) {
	s := newSvc(&fakeRepo{}, standardLedger(10), &fakeProcessor{})

	_, err := s.Process(context.Background(), "o1", domain.ProcessInput{})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
