package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"caseflow/internal/adapters/persistence/models"
	"caseflow/internal/adapters/persistence/repositories"
	"caseflow/internal/core/domain"
)

// fakeCaseFileRepo is an in-memory CaseFileRepository with the same version
// guard as the real one.
type fakeCaseFileRepo struct {
	files     map[string]*models.CaseFile
	updateErr error
}

func newFakeCaseFileRepo() *fakeCaseFileRepo {
	return &fakeCaseFileRepo{files: make(map[string]*models.CaseFile)}
}

func (r *fakeCaseFileRepo) Create(_ context.Context, cf *models.CaseFile) error {
	cp := *cf
	r.files[cf.ID] = &cp
	return nil
}

func (r *fakeCaseFileRepo) GetByID(_ context.Context, id string) (*models.CaseFile, error) {
	cf, ok := r.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cf
	return &cp, nil
}

func (r *fakeCaseFileRepo) Update(_ context.Context, cf *models.CaseFile) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	loaded := cf.Version
	cf.Version = loaded + 1

	stored, ok := r.files[cf.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != loaded {
		return domain.ErrConflict
	}
	cp := *cf
	r.files[cf.ID] = &cp
	return nil
}

func (r *fakeCaseFileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *fakeCaseFileRepo) List(_ context.Context, _ *repositories.CaseFileFilter, _, _ int) ([]*models.CaseFile, int64, error) {
	var out []*models.CaseFile
	for _, cf := range r.files {
		out = append(out, cf)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCaseFileRepo) ListPendingReceipt(_ context.Context) ([]*models.CaseFile, error) {
	var out []*models.CaseFile
	for _, cf := range r.files {
		if cf.Status == string(domain.StatusInProgress) {
			out = append(out, cf)
		}
	}
	return out, nil
}

func (r *fakeCaseFileRepo) ListStale(_ context.Context, statuses []string, before time.Time) ([]*models.CaseFile, error) {
	var out []*models.CaseFile
	for _, cf := range r.files {
		for _, s := range statuses {
			if cf.Status == s && cf.UpdatedAt.Before(before) {
				out = append(out, cf)
			}
		}
	}
	return out, nil
}

func (r *fakeCaseFileRepo) Stats(_ context.Context) (*repositories.CaseFileStats, error) {
	return &repositories.CaseFileStats{Total: int64(len(r.files))}, nil
}

// eventRecorder records published events
type eventRecorder struct {
	events []domain.Event
}

func (e *eventRecorder) Publish(ev domain.Event) {
	e.events = append(e.events, ev)
}

func (e *eventRecorder) types() []domain.EventType {
	out := make([]domain.EventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func newTestService() (*CaseFileService, *fakeCaseFileRepo, *eventRecorder) {
	repo := newFakeCaseFileRepo()
	sink := &eventRecorder{}
	return NewCaseFileService(repo, sink), repo, sink
}

func seedCase(repo *fakeCaseFileRepo, status domain.Status) *models.CaseFile {
	cf := &models.CaseFile{
		ID:           "case-1",
		AccountNo:    "LD2024-0042",
		CustomerName: "Acme Trading Ltd",
		Status:       string(status),
		Version:      3,
	}
	repo.files[cf.ID] = cf
	return cf
}

func TestCreate(t *testing.T) {
	svc, repo, sink := newTestService()

	cf, err := svc.Create(context.Background(), &CreateCaseFileInput{
		AccountNo:    "LD2024-0042",
		CustomerName: "Acme Trading Ltd",
	}, "manager01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cf.Status != string(domain.StatusNew) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusNew)
	}
	if cf.ID == "" {
		t.Error("expected generated ID")
	}
	if _, ok := repo.files[cf.ID]; !ok {
		t.Error("case file not persisted")
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseCreated {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseCreated)
	}
	if sink.events[0].Actor != "manager01" {
		t.Errorf("event actor = %q, want manager01", sink.events[0].Actor)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, sink := newTestService()
	neg := -100.0

	cases := []struct {
		name  string
		input CreateCaseFileInput
	}{
		{"missing account no", CreateCaseFileInput{CustomerName: "Acme"}},
		{"missing customer name", CreateCaseFileInput{AccountNo: "LD-1"}},
		{"blank account no", CreateCaseFileInput{AccountNo: "   ", CustomerName: "Acme"}},
		{"negative amount", CreateCaseFileInput{AccountNo: "LD-1", CustomerName: "Acme", Amount: &neg}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tc.input, "manager01")
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
	if len(sink.events) != 0 {
		t.Errorf("no events expected on validation failure, got %v", sink.types())
	}
}

func TestHandOver(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)

	cf, err := svc.HandOver(context.Background(), "case-1", domain.RoleDirector, "director01", "with contract")
	if err != nil {
		t.Fatalf("HandOver: %v", err)
	}
	if cf.Status != string(domain.StatusInProgress) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusInProgress)
	}
	if !cf.Handover.Set() || cf.Handover.By != "director01" || cf.Handover.Note != "with contract" {
		t.Errorf("handover record not applied: %+v", cf.Handover)
	}
	if cf.Version != 4 {
		t.Errorf("version = %d, want 4", cf.Version)
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseHandedOver {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseHandedOver)
	}
}

func TestHandOver_WrongState(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusReceived)

	_, err := svc.HandOver(context.Background(), "case-1", domain.RoleDirector, "director01", "")
	var terr *domain.TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransitionError", err)
	}
	if repo.files["case-1"].Status != string(domain.StatusReceived) {
		t.Error("case file must stay untouched on a rejected transition")
	}
	if len(sink.events) != 0 {
		t.Errorf("no events expected, got %v", sink.types())
	}
}

func TestHandOver_WrongRole(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)

	_, err := svc.HandOver(context.Background(), "case-1", domain.RoleManager, "manager01", "")
	var rerr *domain.RoleError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want RoleError", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("no events expected, got %v", sink.types())
	}
}

func TestAdminBypassesRoleGate(t *testing.T) {
	svc, repo, _ := newTestService()
	seedCase(repo, domain.StatusNew)

	cf, err := svc.HandOver(context.Background(), "case-1", domain.RoleAdmin, "admin", "")
	if err != nil {
		t.Fatalf("HandOver as admin: %v", err)
	}
	if cf.Status != string(domain.StatusInProgress) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusInProgress)
	}
}

func TestRejectByBoard(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)

	cf, err := svc.RejectByBoard(context.Background(), "case-1", domain.RoleDirector, "director01", "insufficient collateral")
	if err != nil {
		t.Fatalf("RejectByBoard: %v", err)
	}
	if cf.Status != string(domain.StatusBoardRejected) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusBoardRejected)
	}
	if cf.BoardRejection.Reason != "insufficient collateral" {
		t.Errorf("rejection reason = %q", cf.BoardRejection.Reason)
	}
	if len(sink.events) != 1 || sink.events[0].Reason != "insufficient collateral" {
		t.Errorf("event should carry the reason, got %+v", sink.events)
	}
}

func TestAccept(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusInProgress)

	cf, err := svc.Accept(context.Background(), "case-1", domain.RoleCreditAdmin, "creditadmin01", "")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if cf.Status != string(domain.StatusReceived) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusReceived)
	}
	if !cf.Receipt.Set() {
		t.Error("receipt record not applied")
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseAccepted {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseAccepted)
	}
}

func TestRejectByCreditAdmin(t *testing.T) {
	for _, from := range []domain.Status{domain.StatusInProgress, domain.StatusReceived} {
		t.Run(string(from), func(t *testing.T) {
			svc, repo, sink := newTestService()
			seedCase(repo, from)

			cf, err := svc.RejectByCreditAdmin(context.Background(), "case-1", domain.RoleCreditAdmin, "creditadmin01", "missing invoice")
			if err != nil {
				t.Fatalf("RejectByCreditAdmin from %s: %v", from, err)
			}
			if cf.Status != string(domain.StatusCreditRejected) {
				t.Errorf("status = %q, want %q", cf.Status, domain.StatusCreditRejected)
			}
			if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseCreditRejected {
				t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseCreditRejected)
			}
		})
	}
}

func TestReturn(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusReceived)

	cf, err := svc.Return(context.Background(), "case-1", domain.RoleCreditAdmin, "creditadmin01", "")
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if cf.Status != string(domain.StatusReturned) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusReturned)
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseReturned {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseReturned)
	}
}

func TestConfirmDocuments(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusReturned)

	cf, err := svc.ConfirmDocuments(context.Background(), "case-1", domain.RoleManager, "manager01", "all pages present")
	if err != nil {
		t.Fatalf("ConfirmDocuments: %v", err)
	}
	if cf.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusCompleted)
	}
	if !cf.DocReceipt.Set() {
		t.Error("document receipt record not applied")
	}

	types := sink.types()
	if len(types) != 2 || types[0] != domain.EventCaseDocumentsConfirmed || types[1] != domain.EventCaseCompleted {
		t.Errorf("events = %v, want [%s %s]", types, domain.EventCaseDocumentsConfirmed, domain.EventCaseCompleted)
	}
}

func TestDeclineDocuments(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusReturned)

	cf, err := svc.DeclineDocuments(context.Background(), "case-1", domain.RoleManager, "manager01", "pages missing")
	if err != nil {
		t.Fatalf("DeclineDocuments: %v", err)
	}
	if cf.Status != string(domain.StatusReturned) {
		t.Errorf("status = %q, want %q", cf.Status, domain.StatusReturned)
	}
	if cf.DocReceipt.Note != "pages missing" {
		t.Errorf("note = %q, want 'pages missing'", cf.DocReceipt.Note)
	}
	if len(sink.events) != 0 {
		t.Errorf("decline must not notify anyone, got %v", sink.types())
	}
}

func TestTransition_ConflictSurfaced(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)
	repo.updateErr = domain.ErrConflict

	_, err := svc.HandOver(context.Background(), "case-1", domain.RoleDirector, "director01", "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("no events may be emitted on a failed write, got %v", sink.types())
	}
}

func TestTransition_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.HandOver(context.Background(), "missing", domain.RoleDirector, "director01", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)

	name := "Acme Trading Co"
	cf, err := svc.Update(context.Background(), "case-1", &UpdateCaseFileInput{CustomerName: &name}, "manager01")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cf.CustomerName != name {
		t.Errorf("customer name = %q, want %q", cf.CustomerName, name)
	}
	if cf.Status != string(domain.StatusNew) {
		t.Error("descriptive edit must not change the status")
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseEdited {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseEdited)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, sink := newTestService()
	seedCase(repo, domain.StatusNew)

	if err := svc.Delete(context.Background(), "case-1", "manager01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.files["case-1"]; ok {
		t.Error("case file still present after delete")
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.EventCaseDeleted {
		t.Errorf("events = %v, want [%s]", sink.types(), domain.EventCaseDeleted)
	}
}

func TestFullLifecycle(t *testing.T) {
	svc, _, sink := newTestService()

	cf, err := svc.Create(context.Background(), &CreateCaseFileInput{
		AccountNo:    "LD2024-0099",
		CustomerName: "Delta Foods",
	}, "manager01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	steps := []func() error{
		func() error {
			_, err := svc.HandOver(context.Background(), cf.ID, domain.RoleDirector, "director01", "")
			return err
		},
		func() error {
			_, err := svc.Accept(context.Background(), cf.ID, domain.RoleCreditAdmin, "creditadmin01", "")
			return err
		},
		func() error {
			_, err := svc.Return(context.Background(), cf.ID, domain.RoleCreditAdmin, "creditadmin01", "")
			return err
		},
		func() error {
			_, err := svc.ConfirmDocuments(context.Background(), cf.ID, domain.RoleManager, "manager01", "")
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	final, err := svc.GetByID(context.Background(), cf.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Status != string(domain.StatusCompleted) {
		t.Errorf("final status = %q, want %q", final.Status, domain.StatusCompleted)
	}

	want := []domain.EventType{
		domain.EventCaseCreated,
		domain.EventCaseHandedOver,
		domain.EventCaseAccepted,
		domain.EventCaseReturned,
		domain.EventCaseDocumentsConfirmed,
		domain.EventCaseCompleted,
	}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}
