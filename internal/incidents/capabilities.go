package incidents

import "github.com/assureops/incident-desk/internal/domain"

// Field names an edit can touch. Identity (sys_id, number), opened_at,
// resolved_at and the comment journal are never directly editable.
const (
	FieldCaller           = "caller"
	FieldShortDescription = "short_description"
	FieldDescription      = "description"
	FieldState            = "state"
	FieldOnHoldReason     = "on_hold_reason"
	FieldPriority         = "priority"
	FieldImpact           = "impact"
	FieldUrgency          = "urgency"
	FieldAssignmentGroup  = "assignment_group"
	FieldAssignedTo       = "assigned_to"
	FieldBusinessService  = "business_service"
	FieldCmdbCI           = "cmdb_ci"
	FieldResolutionCode   = "resolution_code"
	FieldResolutionNotes  = "resolution_notes"
	FieldParentIncident   = "parent_incident"
	FieldChildIncidents   = "child_incidents"
)

// FieldSet is the set of fields a role may write.
type FieldSet map[string]bool

var (
	agentFields = FieldSet{
		FieldCaller:           true,
		FieldShortDescription: true,
		FieldDescription:      true,
		FieldState:            true,
		FieldOnHoldReason:     true,
		FieldPriority:         true,
		FieldImpact:           true,
		FieldUrgency:          true,
		FieldAssignmentGroup:  true,
		FieldAssignedTo:       true,
		FieldBusinessService:  true,
		FieldCmdbCI:           true,
		FieldResolutionCode:   true,
		FieldResolutionNotes:  true,
		FieldParentIncident:   true,
		FieldChildIncidents:   true,
	}

	// Portal personas may describe the problem and point at equipment;
	// classification and routing stay with the service desk. Priority is
	// derived from impact and urgency for them, never set directly.
	portalFields = FieldSet{
		FieldShortDescription: true,
		FieldDescription:      true,
		FieldCmdbCI:           true,
	}
)

// EditableFields returns the field set the role may write. Consulted
// uniformly instead of scattering per-field role checks.
func EditableFields(role domain.Role) FieldSet {
	if role.IsAgent() {
		return agentFields
	}
	return portalFields
}
