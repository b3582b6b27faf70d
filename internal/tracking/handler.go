package tracking

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/pkg/httputil"
	"github.com/ignite/email-tracker/internal/pkg/logger"
	trackingsvc "github.com/ignite/email-tracker/internal/service/tracking"
)

// 1x1 transparent PNG
var pixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0b, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0x00, 0x02, 0x00,
	0x00, 0x05, 0x00, 0x01, 0xe9, 0xfa, 0xdc, 0xd8, 0x00, 0x00, 0x00, 0x00,
	0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Recorder records opens and clicks.
type Recorder interface {
	RecordOpen(ctx context.Context, emailID string, hit trackingsvc.Hit) trackingsvc.Outcome
	RecordClick(ctx context.Context, linkID string, hit trackingsvc.Hit) (*domain.Link, trackingsvc.Outcome, error)
}

type Handler struct {
	rec Recorder
}

func NewHandler(rec Recorder) *Handler {
	return &Handler{rec: rec}
}

// Register adds the ingestion routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/t/{file}", h.HandleOpen)
	r.Get("/c/{linkID}", h.HandleClick)
}

// Routes returns a router serving only the ingestion endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// HandleOpen serves GET /t/{id}.png. The response is the same pixel whether
// or not the open was recorded.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	emailID, ok := strings.CutSuffix(pathParam(r, "file"), ".png")
	if !ok {
		httputil.NotFound(w, "not found")
		return
	}

	outcome := h.rec.RecordOpen(r.Context(), emailID, hitFrom(r))
	logger.Debug("open", "email_id", emailID, "outcome", outcome)
	servePixel(w)
}

// HandleClick serves GET /c/{linkID} with a redirect to the link's original
// URL. Only an unknown link stops the redirect.
func (h *Handler) HandleClick(w http.ResponseWriter, r *http.Request) {
	linkID := pathParam(r, "linkID")

	link, outcome, err := h.rec.RecordClick(r.Context(), linkID, hitFrom(r))
	if errors.Is(err, trackingsvc.ErrLinkNotFound) {
		httputil.NotFound(w, "link not found")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Debug("click", "link_id", linkID, "email_id", link.EmailID, "outcome", outcome)
	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

func servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(pixelPNG)))
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(pixelPNG)
}

func hitFrom(r *http.Request) trackingsvc.Hit {
	return trackingsvc.Hit{
		IP:        httputil.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// pathParam returns a decoded URL parameter. chi matches against the raw
// path when the request contained escapes.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
