package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	reminderService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/reminder"
	"github.com/go-chi/chi/v5"
)

type ReminderHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	MarkDone(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ReminderHandlerImpl struct {
	reminderService *reminderService.Service
}

func NewReminderHandler(svc *reminderService.Service) ReminderHandler {
	return &ReminderHandlerImpl{reminderService: svc}
}

// Create implements ReminderHandler.
func (h *ReminderHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req reminder.CreateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	created, err := h.reminderService.Create(r.Context(), actor.ID, req)
	if err != nil {
		slog.Error("Create reminder service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Reminder created", created)
}

// List implements ReminderHandler.
func (h *ReminderHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	reminders, err := h.reminderService.List(r.Context(), actor.ID)
	if err != nil {
		slog.Error("List reminders service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, reminders)
}

// ListPending implements ReminderHandler.
func (h *ReminderHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	hours := getIntQueryParam(r, "within_hours", 24)
	before := time.Now().Add(time.Duration(hours) * time.Hour)

	reminders, err := h.reminderService.ListPending(r.Context(), actor.ID, before)
	if err != nil {
		slog.Error("ListPending reminders service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, reminders)
}

// MarkDone implements ReminderHandler.
func (h *ReminderHandlerImpl) MarkDone(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	id := chi.URLParam(r, "reminderID")

	if err := h.reminderService.MarkDone(r.Context(), actor.ID, id); err != nil {
		slog.Error("MarkDone reminder service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Reminder completed", nil)
}

// Delete implements ReminderHandler.
func (h *ReminderHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	id := chi.URLParam(r, "reminderID")

	if err := h.reminderService.Delete(r.Context(), actor.ID, id); err != nil {
		slog.Error("Delete reminder service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Reminder deleted", nil)
}
