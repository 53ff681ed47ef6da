package services

import "caseflow/internal/core/domain"

// EventSink receives transition events for fan-out. NotifyService is the
// production implementation; tests substitute a recorder.
type EventSink interface {
	Publish(ev domain.Event)
}
