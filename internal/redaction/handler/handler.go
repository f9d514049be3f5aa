// Package handler exposes the admin HTTP surface for redaction batches.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ahwr/internal/platform/metrics"
	"ahwr/internal/platform/middleware"
	"ahwr/internal/redaction/models"
	dErrors "ahwr/pkg/domain-errors"
	"ahwr/pkg/platform/httputil"
	"ahwr/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the redaction operations the admin surface drives.
type Service interface {
	Run(ctx context.Context, requestedDate string, logger *slog.Logger) error
	List(ctx context.Context, requestedDate string) ([]models.RedactionRecord, error)
}

type Handler struct {
	service Service
	auth    middleware.AdminAuth
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, auth middleware.AdminAuth, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{service: service, auth: auth, logger: logger, metrics: metrics}
}

// Register mounts the admin routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/redactions", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Latency(h.metrics))
		r.Use(middleware.RequireAdmin(h.auth, h.logger))
		r.Post("/", h.handleRun)
		r.Get("/{requestedDate}", h.handleList)
	})
}

type runRequest struct {
	RequestedDate string `json:"requestedDate"`
}

type runResponse struct {
	RequestedDate string `json:"requestedDate"`
	Result        string `json:"result"`
}

// RecordResponse is the admin view of a ledger record. The snapshot is
// withheld because it carries the real SBI.
type RecordResponse struct {
	ID                    string    `json:"id"`
	ApplicationReference  string    `json:"applicationReference"`
	RequestedDate         string    `json:"requestedDate"`
	Status                []string  `json:"status"`
	State                 string    `json:"state"`
	RetryCount            int       `json:"retryCount"`
	Success               string    `json:"success,omitempty"`
	ReplacementIdentifier string    `json:"replacementIdentifier"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type listResponse struct {
	RequestedDate string           `json:"requestedDate"`
	Records       []RecordResponse `json:"records"`
}

// handleRun runs the batch for the requested date synchronously.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", requestcontext.RequestID(ctx),
		"caller", requestcontext.Caller(ctx),
	)

	req, err := httputil.DecodeJSON[runRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.RequestedDate == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "requestedDate is required"))
		return
	}

	if err := h.service.Run(ctx, req.RequestedDate, logger); err != nil {
		logger.ErrorContext(ctx, "admin redaction run failed", "requested_date", req.RequestedDate, "error", err)
		httputil.WriteError(w, models.AsDomainError(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, runResponse{RequestedDate: req.RequestedDate, Result: "completed"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := chi.URLParam(r, "requestedDate")

	records, err := h.service.List(ctx, date)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list redactions",
			"request_id", requestcontext.RequestID(ctx),
			"requested_date", date,
			"error", err,
		)
		httputil.WriteError(w, models.AsDomainError(err))
		return
	}

	resp := listResponse{RequestedDate: date, Records: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func toRecordResponse(r models.RedactionRecord) RecordResponse {
	return RecordResponse{
		ID:                    r.ID.String(),
		ApplicationReference:  r.ApplicationReference,
		RequestedDate:         r.RequestedDate.String(),
		Status:                r.Status.Tokens(),
		State:                 r.Status.State(),
		RetryCount:            r.RetryCount,
		Success:               string(r.Success),
		ReplacementIdentifier: r.ReplacementIdentifier,
		UpdatedAt:             r.UpdatedAt,
	}
}
