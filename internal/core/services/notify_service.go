package services

import (
	"fmt"
	"log"
	"sync"

	"caseflow/internal/core/domain"
)

// eventQueueSize bounds the executor → dispatcher queue
const eventQueueSize = 256

// eventRoles is the routing table: which roles must hear about each event
// type. Process-wide configuration, built once, read concurrently, never
// mutated after initialization.
var eventRoles = map[domain.EventType][]domain.Role{
	domain.EventCaseCreated:            {domain.RoleDirector},
	domain.EventCaseEdited:             {domain.RoleDirector},
	domain.EventCaseDeleted:            {domain.RoleDirector, domain.RoleCreditAdmin},
	domain.EventCaseHandedOver:         {domain.RoleCreditAdmin, domain.RoleManager},
	domain.EventCaseBoardRejected:      {domain.RoleManager},
	domain.EventCaseCreditRejected:     {domain.RoleManager},
	domain.EventCaseAccepted:           {domain.RoleDirector},
	domain.EventCaseReturned:           {domain.RoleManager},
	domain.EventCaseDocumentsConfirmed: {domain.RoleCreditAdmin, domain.RoleDirector},
	domain.EventCaseCompleted:          {domain.RoleManager, domain.RoleCreditAdmin, domain.RoleDirector},
}

// TargetRoles returns the roles notified for an event type
func TargetRoles(t domain.EventType) []domain.Role {
	return eventRoles[t]
}

// NotifyService fans transition events out to live sessions. Publishing
// never blocks the caller: events go through a buffered queue consumed by a
// single dispatcher goroutine, and per-session sends are non-blocking.
type NotifyService struct {
	Hub *SessionHub

	events   chan domain.Event
	done     chan struct{}
	stopOnce sync.Once
}

// NewNotifyService creates a new notify service
func NewNotifyService() *NotifyService {
	return &NotifyService{
		Hub:    NewSessionHub(),
		events: make(chan domain.Event, eventQueueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the dispatcher goroutine
func (n *NotifyService) Start() {
	go func() {
		defer close(n.done)
		for ev := range n.events {
			n.Dispatch(ev)
		}
	}()
	log.Println("🔔 notification dispatcher started")
}

// Stop drains the queue and stops the dispatcher
func (n *NotifyService) Stop() {
	n.stopOnce.Do(func() {
		close(n.events)
		<-n.done
	})
	log.Println("🔔 notification dispatcher stopped")
}

// Publish hands an event to the dispatcher. Fire-and-forget: a full queue
// drops the event with a warning rather than blocking the business caller.
func (n *NotifyService) Publish(ev domain.Event) {
	select {
	case n.events <- ev:
	default:
		log.Printf("⚠️ event queue full, dropping %s for case %s", ev.Type, ev.CaseID)
	}
}

// Dispatch resolves target roles and pushes the notification to every
// matching live session. Zero connected sessions for a role is a no-op.
func (n *NotifyService) Dispatch(ev domain.Event) {
	roles, ok := eventRoles[ev.Type]
	if !ok {
		log.Printf("⚠️ no routing entry for event type %s", ev.Type)
		return
	}

	note := buildNotification(ev)
	sent := 0
	for _, role := range roles {
		sent += n.Hub.PushToRole(role, note)
	}
	if sent > 0 {
		log.Printf("🔔 [%s] case %s → %d sessions", ev.Type, ev.CaseID, sent)
	}
}

// buildNotification renders the human-readable payload for an event
func buildNotification(ev domain.Event) Notification {
	note := Notification{
		Type:         string(ev.Type),
		CaseID:       ev.CaseID,
		AccountNo:    ev.AccountNo,
		CustomerName: ev.CustomerName,
		Actor:        ev.Actor,
		Reason:       ev.Reason,
	}

	switch ev.Type {
	case domain.EventCaseCreated:
		note.Title = "📋 New case file"
		note.Message = fmt.Sprintf("New case file created: %s (%s)", ev.CustomerName, ev.AccountNo)
	case domain.EventCaseEdited:
		note.Title = "✏️ Case file edited"
		note.Message = fmt.Sprintf("Case file %s was updated", ev.AccountNo)
	case domain.EventCaseDeleted:
		note.Title = "🗑️ Case file deleted"
		note.Message = fmt.Sprintf("Case file %s was deleted", ev.AccountNo)
	case domain.EventCaseHandedOver:
		note.Title = "📤 Case file handed over"
		note.Message = fmt.Sprintf("Case file %s handed over to credit administration", ev.AccountNo)
	case domain.EventCaseBoardRejected:
		note.Title = "❌ Case file rejected"
		note.Message = fmt.Sprintf("Director rejected case file %s\nReason: %s", ev.AccountNo, ev.Reason)
	case domain.EventCaseCreditRejected:
		note.Title = "❌ Case file rejected"
		note.Message = fmt.Sprintf("Credit administration rejected case file %s\nReason: %s", ev.AccountNo, ev.Reason)
	case domain.EventCaseAccepted:
		note.Title = "✅ Case file accepted"
		note.Message = fmt.Sprintf("Credit administration accepted case file %s", ev.AccountNo)
	case domain.EventCaseReturned:
		note.Title = "🔄 Case file returned"
		note.Message = fmt.Sprintf("Credit administration returned case file %s to the relationship manager", ev.AccountNo)
	case domain.EventCaseDocumentsConfirmed:
		note.Title = "📄 Documents received"
		note.Message = fmt.Sprintf("Relationship manager confirmed receipt of documents for case file %s", ev.AccountNo)
	case domain.EventCaseCompleted:
		note.Title = "✅ Case file completed"
		note.Message = fmt.Sprintf("Case file %s has been fully processed", ev.AccountNo)
	default:
		note.Title = "🔔 Case file update"
		note.Message = fmt.Sprintf("Case file %s changed", ev.AccountNo)
	}

	return note
}

// PushToRoles pushes an ad-hoc notification to every live session of the
// given roles. Used by the reminder job.
func (n *NotifyService) PushToRoles(roles []domain.Role, note Notification) {
	for _, role := range roles {
		n.Hub.PushToRole(role, note)
	}
}
