// Package webhook is the HTTP surface of the service: a chi router
// exposing sheet retrieval and the render webhook, layered over the
// listener middleware chain.
package webhook

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/0xalexb/facesheet/listener/middleware"
	"github.com/0xalexb/facesheet/mapping"
	"github.com/0xalexb/facesheet/projection"
	"github.com/0xalexb/facesheet/record"
	"github.com/0xalexb/facesheet/sheet"
)

const (
	requestTimeout = 60 * time.Second
	maxBodyBytes   = 1 << 20

	// Webhook deliveries funnel into the shared browser renderer, so the
	// hook route carries its own rate limit.
	hookRatePerSecond = 5.0
	hookBurst         = 10
)

// Handler serves sheet requests backed by the sheet service.
type Handler struct {
	sheets *sheet.Service
}

// NewHandler creates the HTTP handler.
func NewHandler(sheets *sheet.Service) *Handler {
	return &Handler{sheets: sheets}
}

// Router builds the chi router with the full middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/healthz", h.health)
	r.Get("/sheets/{recordID}", h.getSheet)
	r.With(middleware.RateLimit(hookRatePerSecond, hookBurst)).Post("/hooks/render", h.renderHook)

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// getSheet renders a face sheet for one record. Identity hints and the
// output mode come from query parameters; format selects html (default)
// or pdf.
func (h *Handler) getSheet(w http.ResponseWriter, r *http.Request) {
	req := sheet.Request{
		RecordID: chi.URLParam(r, "recordID"),
		Mode:     projection.ParseMode(r.URL.Query().Get("mode")),
		Hints:    hintsFromQuery(r),
	}

	if r.URL.Query().Get("format") == "pdf" {
		h.servePDF(w, r, req)

		return
	}

	built, err := h.sheets.Build(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(built.HTML)
}

func (h *Handler) servePDF(w http.ResponseWriter, r *http.Request, req sheet.Request) {
	pdf, err := h.sheets.BuildPDF(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write(pdf)
}

// renderPayload is the webhook body: the record to render plus optional
// identity hints and output mode.
type renderPayload struct {
	RecordID    string `json:"recordId"`
	TenantID    string `json:"tenantId"`
	ProgramID   string `json:"programId"`
	TenantName  string `json:"tenantName"`
	ProgramName string `json:"programName"`
	Mode        string `json:"mode"`
}

// renderHook accepts a render notification, builds the sheet, and answers
// with a summary. Delivery of the rendered artifact back to the record
// store is the caller's concern.
func (h *Handler) renderHook(w http.ResponseWriter, r *http.Request) {
	var payload renderPayload

	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)

		return
	}

	if payload.RecordID == "" {
		http.Error(w, "recordId is required", http.StatusBadRequest)

		return
	}

	built, err := h.sheets.Build(r.Context(), sheet.Request{
		RecordID: payload.RecordID,
		Mode:     projection.ParseMode(payload.Mode),
		Hints: mapping.Query{
			TenantID:    payload.TenantID,
			ProgramID:   payload.ProgramID,
			TenantName:  payload.TenantName,
			ProgramName: payload.ProgramName,
		},
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]any{
		"recordId": built.RecordID,
		"mapping":  built.Mapping,
		"sections": len(built.Sections),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, record.ErrRecordNotFound):
		slog.Info("webhook: record not found", "requestId", requestID, "error", err)
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, sheet.ErrPDFDisabled):
		slog.Warn("webhook: pdf requested but disabled", "requestId", requestID)
		http.Error(w, "pdf output is disabled", http.StatusNotImplemented)
	default:
		slog.Error("webhook: sheet build failed", "requestId", requestID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func hintsFromQuery(r *http.Request) mapping.Query {
	q := r.URL.Query()

	return mapping.Query{
		TenantID:    q.Get("tenantId"),
		ProgramID:   q.Get("programId"),
		TenantName:  q.Get("tenantName"),
		ProgramName: q.Get("programName"),
	}
}
