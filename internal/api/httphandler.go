package api

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/deck"
	"github.com/mdjubayerd1/vivi-music/internal/ports"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

type Handler struct {
	Sessions *Sessions
	Src      ports.Source
	Seed     types.Seed
}

// NewHandler wires the HTTP surface. seed is the default used when a session
// request does not carry one of its own.
func NewHandler(sessions *Sessions, src ports.Source, seed types.Seed) *Handler {
	return &Handler{
		Sessions: sessions,
		Src:      src,
		Seed:     seed,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", h.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}/deck", h.handleDeck)
	mux.HandleFunc("POST /v1/sessions/{id}/feedback", h.handleFeedback)
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.handleDeleteSession)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type createSessionRequest struct {
	Seed types.Seed `json:"seed"`
}

type sessionReply struct {
	SessionID string         `json:"session_id"`
	Deck      deck.DeckState `json:"deck"`
	Seed      types.Seed     `json:"seed"`
}

type feedbackRequest struct {
	TrackID string `json:"track_id"`
	Verdict string `json:"verdict"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	// Read body; an empty body means "use the configured default seed"
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()
	var req createSessionRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	seed := req.Seed
	if seed.IsZero() {
		seed = h.Seed
	}
	if seed.IsZero() {
		http.Error(w, "no seed in request and no default configured", http.StatusBadRequest)
		return
	}

	id, ctl := h.Sessions.Create(h.Src, seed)
	log.WithFields(log.Fields{
		"session": id,
		"seed":    seed.Key(),
		"client":  clientIP(r),
	}).Info("Session created")
	if err := writeJSON(w, http.StatusCreated, sessionReply{
		SessionID: id,
		Deck:      ctl.State(),
		Seed:      seed,
	}); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func (h *Handler) handleDeck(w http.ResponseWriter, r *http.Request) {
	ctl, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if err := writeJSON(w, http.StatusOK, ctl.State()); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	ctl, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()
	if len(body) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}
	var req feedbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.TrackID == "" {
		http.Error(w, "track_id is required", http.StatusBadRequest)
		return
	}
	polarity := types.ParsePolarity(req.Verdict)
	if polarity == 0 {
		http.Error(w, `verdict must be "positive" or "negative"`, http.StatusBadRequest)
		return
	}

	// The verdict consumes the deck head; feedback delivery is fire-and-forget
	// on the controller side, so 202 is all the caller ever learns about it.
	switch polarity {
	case types.PolarityPositive:
		ctl.Positive(types.Track{ID: req.TrackID})
	case types.PolarityNegative:
		ctl.Negative(types.Track{ID: req.TrackID})
	}
	if err := writeJSON(w, http.StatusAccepted, ctl.State()); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
	}
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Sessions.Delete(id); err != nil {
		if errors.Is(err, types.ErrSessionNotFound) {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.WithFields(log.Fields{
		"session": id,
		"client":  clientIP(r),
	}).Info("Session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// clientIP extracts the real client IP from X-Forwarded-For or RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If SplitHostPort fails, return the RemoteAddr as-is
		return r.RemoteAddr
	}
	return host
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
