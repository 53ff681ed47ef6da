package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"caseflow/internal/core/domain"
	"caseflow/internal/core/services"
	"caseflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EventsHandler handles the live notification stream
type EventsHandler struct {
	notifyService *services.NotifyService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(notifyService *services.NotifyService) *EventsHandler {
	return &EventsHandler{
		notifyService: notifyService,
	}
}

// Stream opens a notification stream for the authenticated user
// @Summary Notification stream
// @Description Server-sent event stream of case-file notifications for the caller's role
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200
// @Router /events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok || username == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	sessionID := fmt.Sprintf("%s-%s", username, uuid.New().String())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		session := &services.Session{
			ID:       sessionID,
			Username: username,
			Role:     domain.Role(role),
			Channel:  make(chan services.Notification, services.SessionChannelSize),
		}

		h.notifyService.Hub.Register(session)
		defer h.notifyService.Hub.Unregister(username, sessionID)

		// Initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"session_id\":%q,\"username\":%q}\n\n", sessionID, username)
		w.Flush()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case note, open := <-session.Channel:
				if !open {
					return
				}
				writeNotification(w, note)
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 stream client disconnected: %s", sessionID)
					return
				}
			}
		}
	})

	return nil
}

// writeNotification writes one notification as an SSE event
func writeNotification(w *bufio.Writer, note services.Notification) {
	payload, err := json.Marshal(note)
	if err != nil {
		log.Printf("⚠️ failed to marshal notification: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", note.Type, payload)
}

// Online returns usernames with at least one live stream
// @Summary Online users
// @Description Usernames currently holding a live notification stream
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/online [get]
func (h *EventsHandler) Online(c *fiber.Ctx) error {
	return response.Success(c, "Online users retrieved", fiber.Map{
		"users":    h.notifyService.Hub.OnlineUsers(),
		"sessions": h.notifyService.Hub.SessionCount(),
	})
}
