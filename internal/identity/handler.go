package identity

import (
	"encoding/json"
	"net/http"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/assureops/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles persona session HTTP requests.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the public login route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.Login)
}

// RegisterProtectedRoutes registers routes that need an existing session.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/session/me", h.Me)
}

// LoginRequest selects a persona.
type LoginRequest struct {
	Persona domain.Role `json:"persona" validate:"required,oneof=admin employee end_user"`
}

// LoginResponse carries the session token and the resolved user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login handles POST /session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, token, err := h.service.Login(req.Persona)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUnknownPersona, Status: http.StatusBadRequest},
		})
		return
	}
	httputil.Success(w, http.StatusCreated, LoginResponse{Token: token, User: user})
}

// Me handles GET /session/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}
	httputil.Success(w, http.StatusOK, user)
}
