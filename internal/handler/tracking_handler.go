package handler

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/outreach-engine/internal/service"
)

// transparentGIF is a 43-byte 1x1 transparent GIF, the open beacon's
// response regardless of what happened internally.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, // GIF89a
	0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00,
	0x3b,
}

// TrackingHandler serves the unauthenticated beacon endpoints. Nothing in
// here may surface an error to the mail client or block a redirect.
type TrackingHandler struct {
	Beacon *service.Beacon
}

// Open answers GET /track/open/{recipientID}. Always the pixel, whatever
// the bookkeeping outcome.
func (h *TrackingHandler) Open(w http.ResponseWriter, r *http.Request) {
	if id, err := strconv.Atoi(chi.URLParam(r, "recipientID")); err == nil {
		h.Beacon.RecordOpen(id, clientIP(r), r.UserAgent())
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(transparentGIF)
}

// Click answers GET /track/click/{recipientID}?url=... with a redirect:
// the decoded target when valid, the configured fallback otherwise.
func (h *TrackingHandler) Click(w http.ResponseWriter, r *http.Request) {
	target := h.Beacon.Cfg.FallbackRedirectURL
	if id, err := strconv.Atoi(chi.URLParam(r, "recipientID")); err == nil {
		target = h.Beacon.ResolveClick(id, r.URL.Query().Get("url"), clientIP(r), r.UserAgent())
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Unsubscribe answers the footer link with a plain confirmation page.
func (h *TrackingHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if id, err := strconv.Atoi(chi.URLParam(r, "recipientID")); err == nil {
		h.Beacon.Unsubscribe(id, clientIP(r), r.UserAgent())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("<html><body><p>You have been unsubscribed and will not receive further emails from this campaign.</p></body></html>"))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
