package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	profileService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/profile"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	AddHospital(w http.ResponseWriter, r *http.Request)
	AddCustomer(w http.ResponseWriter, r *http.Request)
	UpsertDeal(w http.ResponseWriter, r *http.Request)
	Pipeline(w http.ResponseWriter, r *http.Request)
	SetVoiceAPIKey(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
	SetManager(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService *profileService.Service
}

func NewProfileHandler(svc *profileService.Service) ProfileHandler {
	return &ProfileHandlerImpl{profileService: svc}
}

// Me implements ProfileHandler.
func (h *ProfileHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	p, err := h.profileService.Get(r.Context(), actor, actor.ID)
	if err != nil {
		slog.Error("Me service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, p)
}

// Get implements ProfileHandler.
func (h *ProfileHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	userID := chi.URLParam(r, "userID")

	p, err := h.profileService.Get(r.Context(), actor, userID)
	if err != nil {
		slog.Error("Get profile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, p)
}

// AddHospital implements ProfileHandler.
func (h *ProfileHandlerImpl) AddHospital(w http.ResponseWriter, r *http.Request) {
	var req profile.AddHospitalRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	if err := h.profileService.AddHospital(r.Context(), actor.ID, req); err != nil {
		slog.Error("AddHospital service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Hospital added", nil)
}

// AddCustomer implements ProfileHandler.
func (h *ProfileHandlerImpl) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req profile.AddCustomerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	if err := h.profileService.AddCustomer(r.Context(), actor.ID, req); err != nil {
		slog.Error("AddCustomer service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Customer added", nil)
}

// UpsertDeal implements ProfileHandler.
func (h *ProfileHandlerImpl) UpsertDeal(w http.ResponseWriter, r *http.Request) {
	var req profile.UpsertDealRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	deal, err := h.profileService.UpsertDeal(r.Context(), actor.ID, req)
	if err != nil {
		slog.Error("UpsertDeal service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, deal)
}

// Pipeline implements ProfileHandler.
func (h *ProfileHandlerImpl) Pipeline(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	deals, err := h.profileService.Pipeline(r.Context(), actor.ID)
	if err != nil {
		slog.Error("Pipeline service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, deals)
}

// SetVoiceAPIKey implements ProfileHandler.
func (h *ProfileHandlerImpl) SetVoiceAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)
	if err := h.profileService.SetVoiceAPIKey(r.Context(), actor.ID, req.APIKey); err != nil {
		slog.Error("SetVoiceAPIKey service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Voice API key updated", nil)
}

// Team implements ProfileHandler.
func (h *ProfileHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	team, err := h.profileService.Team(r.Context(), actor)
	if err != nil {
		slog.Error("Team service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, team)
}

// Approve implements ProfileHandler.
func (h *ProfileHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	userID := chi.URLParam(r, "userID")

	if err := h.profileService.Approve(r.Context(), actor, userID); err != nil {
		slog.Error("Approve service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Account approved", nil)
}

// SetRole implements ProfileHandler.
func (h *ProfileHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)
	userID := chi.URLParam(r, "userID")

	if err := h.profileService.SetRole(r.Context(), actor, userID, user.Role(req.Role)); err != nil {
		slog.Error("SetRole service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Role updated", nil)
}

// SetManager implements ProfileHandler.
func (h *ProfileHandlerImpl) SetManager(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ManagerID string `json:"manager_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	actor := actorFromContext(r)
	userID := chi.URLParam(r, "userID")

	if err := h.profileService.SetManager(r.Context(), actor, userID, req.ManagerID); err != nil {
		slog.Error("SetManager service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Manager updated", nil)
}
