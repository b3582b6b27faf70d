package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/email-tracker/internal/pkg/httputil"
	"github.com/ignite/email-tracker/internal/pkg/logger"
	"github.com/ignite/email-tracker/internal/pkg/validation"
	"github.com/ignite/email-tracker/internal/service/analytics"
	"github.com/ignite/email-tracker/internal/service/ignoredip"
	"github.com/ignite/email-tracker/internal/service/registration"
)

// Handlers contains all HTTP handlers for the management API and dashboard.
type Handlers struct {
	registration *registration.Service
	analytics    *analytics.Service
	ignored      *ignoredip.Service
	dashboardDir string
}

// NewHandlers creates a new Handlers instance
func NewHandlers(reg *registration.Service, an *analytics.Service, ignored *ignoredip.Service, dashboardDir string) *Handlers {
	return &Handlers{
		registration: reg,
		analytics:    an,
		ignored:      ignored,
		dashboardDir: dashboardDir,
	}
}

type registerRequest struct {
	EmailID   string   `json:"emailId" validate:"max=128"`
	Subject   string   `json:"subject" validate:"max=998"`
	Recipient string   `json:"recipient" validate:"max=320"`
	Links     []string `json:"links" validate:"max=500,dive,required,max=2048"`
}

// RegisterEmail handles POST /api/emails
func (h *Handlers) RegisterEmail(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	out, err := h.registration.Register(r.Context(), registration.RegisterInput{
		EmailID:   req.EmailID,
		Subject:   req.Subject,
		Recipient: req.Recipient,
		Links:     req.Links,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	logger.Info("email registered", "email_id", out.EmailID, "recipient", req.Recipient, "links", len(out.Links))
	httputil.OK(w, out)
}

// ListEmails handles GET /api/emails?page&per_page&q
func (h *Handlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePagination(r, analytics.DefaultPerPage)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	res, err := h.analytics.ListEmails(r.Context(), p.Page, p.PerPage, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.OK(w, res)
}

// GetEmail handles GET /api/emails/{id}
func (h *Handlers) GetEmail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.analytics.GetEmail(r.Context(), urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.OK(w, detail)
}

// DeleteEmail handles DELETE /api/emails/{id}
func (h *Handlers) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.registration.Delete(r.Context(), urlParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.Ack(w)
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.OK(w, stats)
}

// HandleDashboard handles GET /. Opening the dashboard adds the viewer's
// address to the ignore list so the operator's own opens are not counted.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ip := httputil.ClientIP(r)
	if added, err := h.ignored.AutoIgnore(r.Context(), ip); err != nil {
		logger.Warn("dashboard auto-ignore failed", "ip", ip, "error", err)
	} else if added {
		logger.Debug("dashboard viewer ignored", "ip", ip)
	}

	index := filepath.Join(h.dashboardDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		httputil.NotFound(w, "dashboard not found")
		return
	}
	http.ServeFile(w, r, index)
}

// urlParam returns a decoded URL parameter. chi matches against the raw
// path when the request contained escapes.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
