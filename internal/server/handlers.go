package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shopchat/internal/chat"
	"shopchat/internal/domain"
	"shopchat/internal/session"
)

// Handler exposes the JSON API: login/logout against the credential
// table, the chat turn endpoint, and the session's metrics and
// transcript views.
type Handler struct {
	registry *session.Registry
	chat     *chat.Service
	logger   *slog.Logger
}

func NewHandler(registry *session.Registry, chatSvc *chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		chat:     chatSvc,
		logger:   logger,
	}
}

// Mount registers all routes on the server. Session-scoped routes sit
// behind the session middleware.
func (h *Handler) Mount(s *Server) {
	s.Router.Get("/healthz", h.HandleHealth)
	s.Router.Post("/api/login", h.HandleLogin)

	s.Router.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(h.registry))
		r.Post("/api/chat", h.HandleChat)
		r.Get("/api/metrics", h.HandleMetrics)
		r.Get("/api/transcript", h.HandleTranscript)
		r.Post("/api/logout", h.HandleLogout)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.registry.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	AddLogField(r.Context(), "store", sess.Store.Username)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:       sess.Token,
		DisplayName: sess.Store.DisplayName,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	h.registry.Logout(sess.Token)
	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// HandleChat resolves one turn. Transport and remote-service failures are
// reported as 502 with the same user-visible message that was appended to
// the transcript; the session stays usable either way.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chat.HandleTurn(r.Context(), sess, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyUtterance) {
			writeError(w, http.StatusBadRequest, "message must not be empty")
			return
		}
		AddError(r.Context(), err)
		var remoteErr *domain.RemoteServiceError
		var transportErr *domain.TransportError
		if errors.As(err, &remoteErr) || errors.As(err, &transportErr) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"reply": reply,
				"error": "completion service unavailable",
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "chat turn failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type metricsResponse struct {
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())

	count, err := sess.Ledger.OrderCount(r.Context())
	if err != nil {
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "metrics unavailable")
		return
	}
	revenue, err := sess.Ledger.TotalRevenue(r.Context())
	if err != nil {
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "metrics unavailable")
		return
	}

	writeJSON(w, http.StatusOK, metricsResponse{
		OrderCount:   count,
		TotalRevenue: revenue,
	})
}

type transcriptResponse struct {
	Turns []domain.Turn `json:"turns"`
}

func (h *Handler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	writeJSON(w, http.StatusOK, transcriptResponse{Turns: sess.Transcript.Turns()})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
