package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	attendanceService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/attendance"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	Checkout(w http.ResponseWriter, r *http.Request)
	UndoCheckout(w http.ResponseWriter, r *http.Request)
	SaveDayReport(w http.ResponseWriter, r *http.Request)
	Day(w http.ResponseWriter, r *http.Request)
	TodayContext(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService *attendanceService.Service
}

func NewAttendanceHandler(svc *attendanceService.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: svc}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	result, err := h.attendanceService.CheckIn(r.Context(), actor.ID, req)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Check-in recorded", "user_id", actor.ID, "location", req.Location, "earned_xp", result.EarnedXP)
	response.Success(w, result)
}

// Checkout implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Checkout(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	day, err := h.attendanceService.FinalizeCheckout(r.Context(), actor.ID)
	if err != nil {
		slog.Error("Checkout service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, day)
}

// UndoCheckout implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UndoCheckout(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	if err := h.attendanceService.UndoCheckout(r.Context(), actor.ID); err != nil {
		slog.Error("UndoCheckout service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checkout cleared", nil)
}

// SaveDayReport implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SaveDayReport(w http.ResponseWriter, r *http.Request) {
	var req attendance.SaveDayReportRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	if err := h.attendanceService.SaveDayReport(r.Context(), actor.ID, req); err != nil {
		slog.Error("SaveDayReport service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Day report saved", nil)
}

// Day implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Day(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	date := chi.URLParam(r, "date")

	day, err := h.attendanceService.Day(r.Context(), actor.ID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, day)
}

// TodayContext implements AttendanceHandler.
func (h *AttendanceHandlerImpl) TodayContext(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	tc, err := h.attendanceService.TodayContext(r.Context(), actor.ID)
	if err != nil {
		slog.Error("TodayContext service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, tc)
}
