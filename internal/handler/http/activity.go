package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/sse"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
)

type ActivityHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type ActivityHandlerImpl struct {
	activityService *activityService.Service
	jwtService      jwt.Service
	hub             *sse.Hub
}

func NewActivityHandler(svc *activityService.Service, jwtService jwt.Service, hub *sse.Hub) ActivityHandler {
	return &ActivityHandlerImpl{
		activityService: svc,
		jwtService:      jwtService,
		hub:             hub,
	}
}

// List implements ActivityHandler. Reviewer-gated in the router.
func (h *ActivityHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	limit := getIntQueryParam(r, "limit", 50)

	entries, err := h.activityService.List(r.Context(), limit)
	if err != nil {
		slog.Error("List activity service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}

// ListMine implements ActivityHandler.
func (h *ActivityHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	limit := getIntQueryParam(r, "limit", 50)

	entries, err := h.activityService.ListByUser(r.Context(), actor.ID, limit)
	if err != nil {
		slog.Error("ListMine activity service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}

// GetSSEToken issues a short-lived token for the event stream; SSE cannot
// carry the Authorization header.
func (h *ActivityHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	token, expiresIn, err := h.jwtService.GenerateSSEToken(actor.ID)
	if err != nil {
		slog.Error("GetSSEToken error", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}
	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream implements ActivityHandler.
func (h *ActivityHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
