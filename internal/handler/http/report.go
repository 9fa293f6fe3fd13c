package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http/response"
	reportService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/report"
)

type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	SalesIntelligence(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService *reportService.Service
}

func NewReportHandler(svc *reportService.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: svc}
}

// Create implements ReportHandler.
func (h *ReportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req report.CreateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := actorFromContext(r)
	created, err := h.reportService.Create(r.Context(), actor, req)
	if err != nil {
		slog.Error("Create report service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Report saved", created)
}

// List implements ReportHandler.
func (h *ReportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)
	category := r.URL.Query().Get("category")
	limit := getIntQueryParam(r, "limit", 50)

	reports, err := h.reportService.List(r.Context(), actor, category, limit)
	if err != nil {
		slog.Error("List reports service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, reports)
}

// SalesIntelligence implements ReportHandler.
func (h *ReportHandlerImpl) SalesIntelligence(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r)

	intel, err := h.reportService.SalesIntelligence(r.Context(), actor)
	if err != nil {
		slog.Error("SalesIntelligence service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, intel)
}
