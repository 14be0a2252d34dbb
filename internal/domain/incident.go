// Package domain defines the core entities shared across the application.
package domain

import (
	"strconv"
	"strings"
	"time"
)

type IncidentState string

const (
	StateNew        IncidentState = "New"
	StateInProgress IncidentState = "In Progress"
	StateOnHold     IncidentState = "On Hold"
	StateResolved   IncidentState = "Resolved"
	StateClosed     IncidentState = "Closed"
	StateCanceled   IncidentState = "Canceled"
)

// IncidentStates lists every lifecycle state in order.
var IncidentStates = []IncidentState{
	StateNew, StateInProgress, StateOnHold, StateResolved, StateClosed, StateCanceled,
}

// IsActive reports whether an incident in this state still counts towards
// the live workload. Resolved, Closed and Canceled incidents do not.
func (s IncidentState) IsActive() bool {
	return s != StateResolved && s != StateClosed && s != StateCanceled
}

// IsValid reports whether the state is one of the known lifecycle states.
func (s IncidentState) IsValid() bool {
	switch s {
	case StateNew, StateInProgress, StateOnHold, StateResolved, StateClosed, StateCanceled:
		return true
	}
	return false
}

type OnHoldReason string

const (
	OnHoldAwaitingCaller   OnHoldReason = "Awaiting Caller"
	OnHoldAwaitingVendor   OnHoldReason = "Awaiting Vendor"
	OnHoldAwaitingEvidence OnHoldReason = "Awaiting Evidence"
	OnHoldNone             OnHoldReason = ""
)

// Priority, Impact and Urgency keep their compound display encoding
// ("1 - Critical") because that is the wire and storage format, with the
// leading numeral exposed as a tier accessor for comparisons.

type Priority string

const (
	PriorityCritical Priority = "1 - Critical"
	PriorityHigh     Priority = "2 - High"
	PriorityModerate Priority = "3 - Moderate"
	PriorityLow      Priority = "4 - Low"
)

// Tier returns the leading numeral of the priority, or 0 if absent.
func (p Priority) Tier() int { return leadingTier(string(p)) }

type Impact string

const (
	ImpactExtensive   Impact = "1 - Extensive/Widespread"
	ImpactSignificant Impact = "2 - Significant/Large"
	ImpactModerate    Impact = "3 - Moderate/Limited"
)

// Tier returns the leading numeral of the impact, or 0 if absent.
func (i Impact) Tier() int { return leadingTier(string(i)) }

type Urgency string

const (
	UrgencyHigh   Urgency = "1 - High"
	UrgencyMedium Urgency = "2 - Medium"
	UrgencyLow    Urgency = "3 - Low"
)

// Tier returns the leading numeral of the urgency, or 0 if absent.
func (u Urgency) Tier() int { return leadingTier(string(u)) }

func leadingTier(s string) int {
	head, _, _ := strings.Cut(s, " ")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

// priorityMatrix is the standard impact x urgency lookup used when the
// caller is not allowed to set priority directly.
var priorityMatrix = map[int]map[int]Priority{
	1: {1: PriorityCritical, 2: PriorityHigh, 3: PriorityModerate},
	2: {1: PriorityHigh, 2: PriorityModerate, 3: PriorityLow},
	3: {1: PriorityModerate, 2: PriorityLow, 3: PriorityLow},
}

// DerivePriority maps impact and urgency to a priority via the lookup table.
// Unknown tiers fall back to moderate.
func DerivePriority(impact Impact, urgency Urgency) Priority {
	if row, ok := priorityMatrix[impact.Tier()]; ok {
		if p, ok := row[urgency.Tier()]; ok {
			return p
		}
	}
	return PriorityModerate
}

// Unassigned is the sentinel value for an incident without an owner.
const Unassigned = "Unassigned"

// Comment is a single journal entry on an incident. Comments are immutable
// once appended and are never reordered or deleted. Internal comments (work
// notes) must never be shown to portal personas.
type Comment struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Author     string    `json:"author"`
	Timestamp  time.Time `json:"timestamp"`
	IsInternal bool      `json:"isInternal"`
}

// Incident is the central entity: a single reported issue tracked through
// its lifecycle. Field names follow the external sys_* convention.
type Incident struct {
	SysID            string        `json:"sys_id"`
	Number           string        `json:"number"`
	Caller           string        `json:"caller"`
	ShortDescription string        `json:"short_description"`
	Description      string        `json:"description"`
	State            IncidentState `json:"state"`
	OnHoldReason     OnHoldReason  `json:"on_hold_reason,omitempty"`
	Priority         Priority      `json:"priority"`
	Impact           Impact        `json:"impact"`
	Urgency          Urgency       `json:"urgency"`
	AssignmentGroup  string        `json:"assignment_group"`
	AssignedTo       string        `json:"assigned_to"`
	BusinessService  string        `json:"business_service"`
	CmdbCI           string        `json:"cmdb_ci"`
	Comments         []Comment     `json:"comments"`
	OpenedAt         time.Time     `json:"opened_at"`
	ResolvedAt       *time.Time    `json:"resolved_at,omitempty"`
	ResolutionCode   string        `json:"resolution_code,omitempty"`
	ResolutionNotes  string        `json:"resolution_notes,omitempty"`
	ParentIncident   string        `json:"parent_incident,omitempty"`
	ChildIncidents   []string      `json:"child_incidents,omitempty"`
}

// Clone returns a deep copy so callers can never mutate stored state
// through a returned incident.
func (i *Incident) Clone() *Incident {
	out := *i
	if i.Comments != nil {
		out.Comments = make([]Comment, len(i.Comments))
		copy(out.Comments, i.Comments)
	}
	if i.ChildIncidents != nil {
		out.ChildIncidents = make([]string, len(i.ChildIncidents))
		copy(out.ChildIncidents, i.ChildIncidents)
	}
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		out.ResolvedAt = &t
	}
	return &out
}

// VisibleComments returns the comments the given role may see. Portal
// personas never see work notes.
func (i *Incident) VisibleComments(role Role) []Comment {
	if role.IsAgent() {
		out := make([]Comment, len(i.Comments))
		copy(out, i.Comments)
		return out
	}
	out := make([]Comment, 0, len(i.Comments))
	for _, c := range i.Comments {
		if !c.IsInternal {
			out = append(out, c)
		}
	}
	return out
}
