package services

import (
	"context"
	"testing"
	"time"

	"caseflow/internal/adapters/persistence/models"
	"caseflow/internal/core/domain"
)

type fakeRefreshTokenRepo struct {
	deleteExpiredCalls int
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, _ *models.RefreshToken) error { return nil }
func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, _ string) (*models.RefreshToken, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, _ uint) error              { return nil }
func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, _ string) error { return nil }
func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, _ uint) error   { return nil }
func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	r.deleteExpiredCalls++
	return nil
}

func TestRemindStale(t *testing.T) {
	repo := newFakeCaseFileRepo()
	notify := NewNotifyService()
	svc := NewReminderService(repo, &fakeRefreshTokenRepo{}, notify)

	stale := &models.CaseFile{
		ID:           "stale-1",
		AccountNo:    "LD2024-0007",
		CustomerName: "Omega Logistics",
		Status:       string(domain.StatusNew),
	}
	stale.UpdatedAt = time.Now().Add(-5 * 24 * time.Hour)
	repo.files[stale.ID] = stale

	fresh := &models.CaseFile{
		ID:     "fresh-1",
		Status: string(domain.StatusNew),
	}
	fresh.UpdatedAt = time.Now()
	repo.files[fresh.ID] = fresh

	director := newSession("s1", "director01", domain.RoleDirector)
	creditAdmin := newSession("s2", "creditadmin01", domain.RoleCreditAdmin)
	notify.Hub.Register(director)
	notify.Hub.Register(creditAdmin)

	if err := svc.RemindStale(context.Background()); err != nil {
		t.Fatalf("RemindStale: %v", err)
	}

	// A new case file waits on the director, so only the director hears
	got := drain(director.Channel)
	if len(got) != 1 {
		t.Fatalf("director reminders = %d, want 1", len(got))
	}
	if got[0].Type != "case_reminder" || got[0].CaseID != "stale-1" {
		t.Errorf("reminder = %+v", got[0])
	}
	if extra := drain(creditAdmin.Channel); len(extra) != 0 {
		t.Errorf("credit admin reminders = %d, want 0", len(extra))
	}
}

func TestRemindStale_NothingStale(t *testing.T) {
	repo := newFakeCaseFileRepo()
	notify := NewNotifyService()
	svc := NewReminderService(repo, &fakeRefreshTokenRepo{}, notify)

	director := newSession("s1", "director01", domain.RoleDirector)
	notify.Hub.Register(director)

	if err := svc.RemindStale(context.Background()); err != nil {
		t.Fatalf("RemindStale: %v", err)
	}
	if got := drain(director.Channel); len(got) != 0 {
		t.Errorf("reminders = %d, want 0", len(got))
	}
}
