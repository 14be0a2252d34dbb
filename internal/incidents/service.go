// Package incidents owns the incident collection and the form boundary
// around it: validation, role capabilities and comment visibility.
package incidents

import (
	"fmt"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/google/uuid"
)

// EditInput is a whole-record form submission. Which fields are actually
// applied depends on the submitting role's capability table; the rest are
// carried over from the stored record.
type EditInput struct {
	Caller           string               `json:"caller"`
	ShortDescription string               `json:"short_description"`
	Description      string               `json:"description"`
	State            domain.IncidentState `json:"state"`
	OnHoldReason     domain.OnHoldReason  `json:"on_hold_reason"`
	Priority         domain.Priority      `json:"priority"`
	Impact           domain.Impact        `json:"impact"`
	Urgency          domain.Urgency       `json:"urgency"`
	AssignmentGroup  string               `json:"assignment_group"`
	AssignedTo       string               `json:"assigned_to"`
	BusinessService  string               `json:"business_service"`
	CmdbCI           string               `json:"cmdb_ci"`
	ResolutionCode   string               `json:"resolution_code"`
	ResolutionNotes  string               `json:"resolution_notes"`
	ParentIncident   string               `json:"parent_incident"`
	ChildIncidents   []string             `json:"child_incidents"`
}

// Service implements incident business logic on top of the store.
type Service struct {
	store *Store
	now   func() time.Time
}

// NewService creates a new incident service.
func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewDraft returns an unsaved incident pre-filled with the defaults for the
// submitting persona.
func (s *Service) NewDraft(user *domain.User) *domain.Incident {
	draft := &domain.Incident{
		Caller:          user.Name,
		State:           domain.StateNew,
		Priority:        domain.PriorityModerate,
		Impact:          domain.ImpactModerate,
		Urgency:         domain.UrgencyMedium,
		AssignmentGroup: domain.Unassigned,
		AssignedTo:      domain.Unassigned,
		BusinessService: "Customer Fiber Services",
		CmdbCI:          domain.Unassigned,
		Comments:        []domain.Comment{},
	}
	switch user.Role {
	case domain.RoleAdmin:
		draft.AssignmentGroup = "Service Desk"
	case domain.RoleEmployee:
		draft.BusinessService = "End User Computing"
	}
	return draft
}

// Create validates and stores a new incident submitted by the given user.
func (s *Service) Create(user *domain.User, input EditInput) (*domain.Incident, error) {
	draft := s.NewDraft(user)
	merged, err := s.applyEdit(draft, input, user.Role)
	if err != nil {
		return nil, err
	}
	if merged.ShortDescription == "" {
		return nil, ErrShortDescriptionRequired
	}

	created, err := s.store.Create(merged)
	if err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}
	return s.viewFor(user.Role, created), nil
}

// Update applies a whole-record form submission to an existing incident.
// The store is never touched when validation fails.
func (s *Service) Update(user *domain.User, sysID string, input EditInput) (*domain.Incident, error) {
	existing, err := s.getOwned(user, sysID)
	if err != nil {
		return nil, err
	}

	merged, err := s.applyEdit(existing, input, user.Role)
	if err != nil {
		return nil, err
	}
	if merged.ShortDescription == "" {
		return nil, ErrShortDescriptionRequired
	}

	replaced, err := s.store.Replace(merged)
	if err != nil {
		return nil, fmt.Errorf("replace incident: %w", err)
	}
	return s.viewFor(user.Role, replaced), nil
}

// AddComment appends a journal entry authored by the given user. Portal
// personas can only write customer-visible comments regardless of the
// requested flag.
func (s *Service) AddComment(user *domain.User, sysID, text string, isInternal bool) (*domain.Incident, error) {
	if text == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.getOwned(user, sysID); err != nil {
		return nil, err
	}
	if !user.Role.IsAgent() {
		isInternal = false
	}

	comment := domain.Comment{
		ID:         uuid.New().String(),
		Text:       text,
		Author:     user.Name,
		Timestamp:  s.now(),
		IsInternal: isInternal,
	}
	updated, err := s.store.AppendComment(sysID, comment)
	if err != nil {
		return nil, err
	}
	return s.viewFor(user.Role, updated), nil
}

// ListFor returns the incidents visible to the user: agents see the whole
// collection, portal personas only incidents they reported, with work notes
// stripped.
func (s *Service) ListFor(user *domain.User) []*domain.Incident {
	var incidents []*domain.Incident
	if user.Role.IsAgent() {
		incidents = s.store.List()
	} else {
		incidents = s.store.FilterByCaller(user.Name)
	}
	out := make([]*domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, s.viewFor(user.Role, inc))
	}
	return out
}

// GetFor returns a single incident if the user may see it.
func (s *Service) GetFor(user *domain.User, sysID string) (*domain.Incident, error) {
	inc, err := s.getOwned(user, sysID)
	if err != nil {
		return nil, err
	}
	return s.viewFor(user.Role, inc), nil
}

// getOwned loads an incident and enforces portal ownership: non-agents may
// only touch incidents they reported. Ownership failures read as not found
// so portal users cannot probe for ticket numbers.
func (s *Service) getOwned(user *domain.User, sysID string) (*domain.Incident, error) {
	inc, err := s.store.Get(sysID)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsAgent() && inc.Caller != user.Name {
		return nil, ErrIncidentNotFound
	}
	return inc, nil
}

// viewFor strips work notes for portal personas.
func (s *Service) viewFor(role domain.Role, inc *domain.Incident) *domain.Incident {
	out := inc.Clone()
	out.Comments = inc.VisibleComments(role)
	return out
}

// applyEdit merges an edit into a copy of base, honoring the role's
// capability table and the lifecycle rules. base is not modified.
func (s *Service) applyEdit(base *domain.Incident, input EditInput, role domain.Role) (*domain.Incident, error) {
	fields := EditableFields(role)
	out := base.Clone()

	if fields[FieldCaller] && input.Caller != "" {
		out.Caller = input.Caller
	}
	if fields[FieldShortDescription] {
		out.ShortDescription = input.ShortDescription
	}
	if fields[FieldDescription] {
		out.Description = input.Description
	}
	if fields[FieldState] && input.State != "" {
		if !input.State.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidState, input.State)
		}
		out.State = input.State
	}
	if fields[FieldOnHoldReason] {
		out.OnHoldReason = input.OnHoldReason
	}
	if fields[FieldImpact] && input.Impact != "" {
		out.Impact = input.Impact
	}
	if fields[FieldUrgency] && input.Urgency != "" {
		out.Urgency = input.Urgency
	}
	if fields[FieldAssignmentGroup] && input.AssignmentGroup != "" {
		out.AssignmentGroup = input.AssignmentGroup
	}
	if fields[FieldAssignedTo] && input.AssignedTo != "" {
		out.AssignedTo = input.AssignedTo
	}
	if fields[FieldBusinessService] && input.BusinessService != "" {
		out.BusinessService = input.BusinessService
	}
	if fields[FieldCmdbCI] {
		out.CmdbCI = input.CmdbCI
	}
	if fields[FieldResolutionCode] {
		out.ResolutionCode = input.ResolutionCode
	}
	if fields[FieldResolutionNotes] {
		out.ResolutionNotes = input.ResolutionNotes
	}
	if fields[FieldParentIncident] {
		out.ParentIncident = input.ParentIncident
	}
	if fields[FieldChildIncidents] && input.ChildIncidents != nil {
		out.ChildIncidents = input.ChildIncidents
	}

	// Priority: agents may set it explicitly, everyone else gets the
	// impact/urgency lookup.
	if fields[FieldPriority] && input.Priority != "" {
		out.Priority = input.Priority
	} else {
		out.Priority = domain.DerivePriority(out.Impact, out.Urgency)
	}

	// The hold reason only means something while on hold.
	if out.State != domain.StateOnHold {
		out.OnHoldReason = domain.OnHoldNone
	}

	// Resolving requires both resolution fields; resolved_at is stamped on
	// the transition into Resolved and never changes afterwards.
	if out.State == domain.StateResolved {
		if out.ResolutionCode == "" || out.ResolutionNotes == "" {
			return nil, ErrResolutionRequired
		}
		if base.State != domain.StateResolved && out.ResolvedAt == nil {
			now := s.now()
			out.ResolvedAt = &now
		}
	}

	return out, nil
}
