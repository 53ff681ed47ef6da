package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"caseflow/internal/adapters/persistence/repositories"
	"caseflow/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// staleAfter is how long a case file may sit in an actionable state before
// the responsible role gets a reminder.
const staleAfter = 3 * 24 * time.Hour

// pendingRole maps each actionable state to the role that must act on it
var pendingRole = map[domain.Status]domain.Role{
	domain.StatusNew:        domain.RoleDirector,
	domain.StatusInProgress: domain.RoleCreditAdmin,
	domain.StatusReceived:   domain.RoleCreditAdmin,
	domain.StatusReturned:   domain.RoleManager,
}

// ReminderService runs the scheduled jobs: re-notifying roles about case
// files stuck in an actionable state (08:30 daily) and purging expired
// refresh tokens (03:00 daily).
type ReminderService struct {
	repo   repositories.CaseFileRepository
	tokens repositories.RefreshTokenRepository
	notify *NotifyService
	cron   *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	repo repositories.CaseFileRepository,
	tokens repositories.RefreshTokenRepository,
	notify *NotifyService,
) *ReminderService {
	return &ReminderService{
		repo:   repo,
		tokens: tokens,
		notify: notify,
		cron:   cron.New(),
	}
}

// Start schedules the daily jobs
func (s *ReminderService) Start() {
	s.cron.AddFunc("30 8 * * *", func() {
		if err := s.RemindStale(context.Background()); err != nil {
			log.Printf("⚠️ stale-case reminder failed: %v", err)
		}
	})
	s.cron.AddFunc("0 3 * * *", func() {
		if err := s.tokens.DeleteExpired(context.Background()); err != nil {
			log.Printf("⚠️ refresh token cleanup failed: %v", err)
		}
	})
	s.cron.Start()
	log.Println("⏰ scheduled jobs started (reminders 08:30, token cleanup 03:00)")
}

// Stop stops the scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RemindStale pushes a reminder for every case file sitting in an actionable
// state longer than staleAfter
func (s *ReminderService) RemindStale(ctx context.Context) error {
	statuses := make([]string, 0, len(pendingRole))
	for status := range pendingRole {
		statuses = append(statuses, string(status))
	}

	files, err := s.repo.ListStale(ctx, statuses, time.Now().Add(-staleAfter))
	if err != nil {
		return err
	}

	for _, cf := range files {
		role, ok := pendingRole[domain.Status(cf.Status)]
		if !ok {
			continue
		}
		days := int(time.Since(cf.UpdatedAt).Hours() / 24)
		s.notify.PushToRoles([]domain.Role{role}, Notification{
			Type:         "case_reminder",
			Title:        "⏰ Case file needs attention",
			Message:      fmt.Sprintf("Case file %s (%s) has been waiting for %d days", cf.AccountNo, cf.CustomerName, days),
			CaseID:       cf.ID,
			AccountNo:    cf.AccountNo,
			CustomerName: cf.CustomerName,
		})
	}

	if len(files) > 0 {
		log.Printf("⏰ reminded about %d stale case files", len(files))
	}
	return nil
}
