package assist

import (
	"encoding/json"
	"net/http"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/assureops/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler serves the assist-session and chatbot endpoints.
type Handler struct {
	sessions  *SessionManager
	chatbot   *Chatbot
	validator *validator.Validate
}

// NewHandler creates a new assist handler.
func NewHandler(sessions *SessionManager, chatbot *Chatbot) *Handler {
	return &Handler{
		sessions:  sessions,
		chatbot:   chatbot,
		validator: validator.New(),
	}
}

// RegisterAgentRoutes registers the edit-session endpoints. Callers gate
// them to agents, who are the only persona shown the assist panel.
func (h *Handler) RegisterAgentRoutes(r chi.Router) {
	r.Route("/assist/sessions/{sessionID}", func(r chi.Router) {
		r.Put("/", h.UpdateSession)
		r.Get("/", h.GetSession)
	})
}

// RegisterRoutes registers the chatbot endpoint, open to every persona.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.Chat)
}

// UpdateSessionRequest carries the edit buffer's current text.
type UpdateSessionRequest struct {
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
}

// SessionResponse is the renderable assist state for an edit session.
type SessionResponse struct {
	State      SessionState             `json:"state"`
	Suggestion *domain.AssistSuggestion `json:"suggestion,omitempty"`
}

func sessionResponse(state SessionState, suggestion domain.AssistSuggestion) SessionResponse {
	resp := SessionResponse{State: state}
	if state == SessionResolved || state == SessionFailed {
		resp.Suggestion = &suggestion
	}
	return resp
}

// UpdateSession handles PUT /assist/sessions/{sessionID}: every keystroke
// batch from the edit form lands here and restarts the debounce window.
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	state, suggestion := h.sessions.Update(chi.URLParam(r, "sessionID"), req.ShortDescription, req.Description)
	httputil.Success(w, http.StatusAccepted, sessionResponse(state, suggestion))
}

// GetSession handles GET /assist/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, suggestion := h.sessions.Get(chi.URLParam(r, "sessionID"))
	httputil.Success(w, http.StatusOK, sessionResponse(state, suggestion))
}

// ChatRequest is a single portal chatbot question.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	reply := h.chatbot.Reply(r.Context(), req.Message)
	httputil.Success(w, http.StatusOK, map[string]string{"reply": reply})
}
