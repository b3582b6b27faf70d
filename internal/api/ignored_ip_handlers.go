package api

import (
	"net/http"
	"strings"

	"github.com/ignite/email-tracker/internal/pkg/httputil"
	"github.com/ignite/email-tracker/internal/pkg/validation"
)

type addIgnoredIPRequest struct {
	IP    string `json:"ip" validate:"max=64"`
	Label string `json:"label" validate:"max=200"`
}

// ListIgnoredIPs handles GET /api/ignored-ips
func (h *Handlers) ListIgnoredIPs(w http.ResponseWriter, r *http.Request) {
	ips, err := h.ignored.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.OK(w, ips)
}

// AddIgnoredIP handles POST /api/ignored-ips. Without an ip the caller's
// own address is ignored.
func (h *Handlers) AddIgnoredIP(w http.ResponseWriter, r *http.Request) {
	var req addIgnoredIPRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = httputil.ClientIP(r)
	}
	if err := h.ignored.Add(r.Context(), ip, req.Label); err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.OK(w, httputil.OKResponse{OK: true, IP: ip})
}

// RemoveIgnoredIP handles DELETE /api/ignored-ips/{ip}
func (h *Handlers) RemoveIgnoredIP(w http.ResponseWriter, r *http.Request) {
	if err := h.ignored.Remove(r.Context(), urlParam(r, "ip")); err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.Ack(w)
}

// MyIP handles GET /api/my-ip
func (h *Handlers) MyIP(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"ip": httputil.ClientIP(r)})
}
