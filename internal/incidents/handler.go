package incidents

import (
	"encoding/json"
	"net/http"

	"github.com/assureops/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers incident routes. All of them require a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Get("/draft", h.GetDraft)
		r.Get("/{sysID}", h.GetIncident)
		r.Put("/{sysID}", h.UpdateIncident)
		r.Post("/{sysID}/comments", h.AddComment)
	})
}

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrIncidentNotFound, Status: http.StatusNotFound},
	{Error: ErrShortDescriptionRequired, Status: http.StatusBadRequest},
	{Error: ErrResolutionRequired, Status: http.StatusBadRequest},
	{Error: ErrInvalidState, Status: http.StatusBadRequest},
	{Error: ErrInvalidIncident, Status: http.StatusBadRequest},
	{Error: ErrEmptyComment, Status: http.StatusBadRequest},
	{Error: ErrForbidden, Status: http.StatusForbidden},
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}
	httputil.Success(w, http.StatusOK, h.service.ListFor(user))
}

// GetDraft handles GET /incidents/draft: a pre-filled, unsaved incident for
// the "new incident" form.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}
	httputil.Success(w, http.StatusOK, h.service.NewDraft(user))
}

// GetIncident handles GET /incidents/{sysID}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}

	inc, err := h.service.GetFor(user, chi.URLParam(r, "sysID"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, inc)
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}

	var input EditInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	inc, err := h.service.Create(user, input)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusCreated, inc)
}

// UpdateIncident handles PUT /incidents/{sysID}: a whole-record form submit.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}

	var input EditInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	inc, err := h.service.Update(user, chi.URLParam(r, "sysID"), input)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusOK, inc)
}

// AddCommentRequest is the request body for appending a journal entry.
type AddCommentRequest struct {
	Text       string `json:"text" validate:"required"`
	IsInternal bool   `json:"isInternal"`
}

// AddComment handles POST /incidents/{sysID}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := httputil.GetUser(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "no session")
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	inc, err := h.service.AddComment(user, chi.URLParam(r, "sysID"), req.Text, req.IsInternal)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	httputil.Success(w, http.StatusCreated, inc)
}
