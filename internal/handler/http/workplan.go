package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	workplanService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/workplan"
	"github.com/go-chi/chi/v5"
)

type WorkPlanHandler interface {
	Save(w http.ResponseWriter, r *http.Request)
	SubmitBatch(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListOwn(w http.ResponseWriter, r *http.Request)
	ListForReview(w http.ResponseWriter, r *http.Request)
}

type WorkPlanHandlerImpl struct {
	workPlanService *workplanService.Service
}

func NewWorkPlanHandler(svc *workplanService.Service) WorkPlanHandler {
	return &WorkPlanHandlerImpl{workPlanService: svc}
}

// Save implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req workplan.SavePlanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	planID, err := h.workPlanService.Save(r.Context(), actor, req)
	if err != nil {
		slog.Error("Save work plan service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]string{"plan_id": planID})
}

// SubmitBatch implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req workplan.SubmitBatchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)
	if err := h.workPlanService.SubmitBatch(r.Context(), actor, req.PlanIDs); err != nil {
		slog.Error("SubmitBatch service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Plans submitted for approval", nil)
}

// UpdateStatus implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req workplan.UpdateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	if err := h.workPlanService.UpdateStatus(r.Context(), actor, req.PlanID, workplan.Status(req.Status)); err != nil {
		slog.Error("UpdateStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Status updated", nil)
}

// Decide implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req workplan.DecideRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	if err := h.workPlanService.Decide(r.Context(), actor, req.PlanID, workplan.Status(req.Outcome)); err != nil {
		slog.Error("Decide service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Decision recorded", nil)
}

// Delete implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	planID := chi.URLParam(r, "planID")

	if err := h.workPlanService.Delete(r.Context(), actor, planID); err != nil {
		slog.Error("Delete work plan service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work plan deleted", nil)
}

// ListOwn implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	plans, err := h.workPlanService.ListOwn(r.Context(), actor.ID)
	if err != nil {
		slog.Error("ListOwn service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, plans)
}

// ListForReview implements WorkPlanHandler.
func (h *WorkPlanHandlerImpl) ListForReview(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	plans, err := h.workPlanService.ListForReview(r.Context(), actor)
	if err != nil {
		slog.Error("ListForReview service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, plans)
}
