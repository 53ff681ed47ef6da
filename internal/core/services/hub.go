package services

import (
	"log"
	"sort"
	"sync"

	"caseflow/internal/core/domain"
)

// SessionChannelSize bounds the per-session notification queue. A slow
// consumer drops pushes instead of stalling the dispatcher.
const SessionChannelSize = 50

// Notification is the payload pushed to live sessions
type Notification struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	CaseID       string `json:"case_id,omitempty"`
	AccountNo    string `json:"account_no,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Actor        string `json:"actor,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Session represents one live connection. A username may hold several
// sessions at once (multi-tab); each gets its own channel.
type Session struct {
	ID       string
	Username string
	Role     domain.Role
	Channel  chan Notification
}

// SessionHub tracks currently-connected sessions and the role each belongs to
type SessionHub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionHub creates a new session hub
func NewSessionHub() *SessionHub {
	return &SessionHub{
		sessions: make(map[string]*Session),
	}
}

// Register adds a live session
func (h *SessionHub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
	log.Printf("📡 session registered: %s (user=%s, role=%s) | total=%d",
		s.ID, s.Username, s.Role, len(h.sessions))
}

// Unregister removes one connection handle of a username. Other sessions of
// the same username stay registered.
func (h *SessionHub) Unregister(username, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok || s.Username != username {
		return
	}
	close(s.Channel)
	delete(h.sessions, sessionID)
	log.Printf("📡 session unregistered: %s (user=%s) | total=%d", sessionID, username, len(h.sessions))
}

// SessionsByRole returns every live session holding the role
func (h *SessionHub) SessionsByRole(role domain.Role) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*Session
	for _, s := range h.sessions {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// PushToRole delivers a notification to every live session holding the role
// and returns how many sends landed. The read lock is held across the sends
// so Unregister can never close a channel mid fan-out. Sends are
// non-blocking; a full channel drops with a warning.
func (h *SessionHub) PushToRole(role domain.Role, note Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, s := range h.sessions {
		if s.Role != role {
			continue
		}
		select {
		case s.Channel <- note:
			sent++
		default:
			log.Printf("⚠️ session %s (user=%s) unresponsive, dropping %s", s.ID, s.Username, note.Type)
		}
	}
	return sent
}

// OnlineUsers returns the usernames with at least one live session, sorted
func (h *SessionHub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]bool)
	for _, s := range h.sessions {
		seen[s.Username] = true
	}
	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// SessionCount returns the number of live sessions
func (h *SessionHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
