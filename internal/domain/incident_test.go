package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentState_IsActive(t *testing.T) {
	tests := []struct {
		state  IncidentState
		active bool
	}{
		{StateNew, true},
		{StateInProgress, true},
		{StateOnHold, true},
		{StateResolved, false},
		{StateClosed, false},
		{StateCanceled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.state.IsActive())
		})
	}
}

func TestIncidentState_IsValid(t *testing.T) {
	for _, state := range IncidentStates {
		assert.True(t, state.IsValid(), state)
	}
	assert.False(t, IncidentState("Escalated").IsValid())
	assert.False(t, IncidentState("").IsValid())
}

func TestTier(t *testing.T) {
	assert.Equal(t, 1, PriorityCritical.Tier())
	assert.Equal(t, 4, PriorityLow.Tier())
	assert.Equal(t, 2, ImpactSignificant.Tier())
	assert.Equal(t, 3, UrgencyLow.Tier())

	// Malformed values have no tier
	assert.Equal(t, 0, Priority("").Tier())
	assert.Equal(t, 0, Priority("Critical").Tier())
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		impact  Impact
		urgency Urgency
		want    Priority
	}{
		{ImpactExtensive, UrgencyHigh, PriorityCritical},
		{ImpactExtensive, UrgencyMedium, PriorityHigh},
		{ImpactExtensive, UrgencyLow, PriorityModerate},
		{ImpactSignificant, UrgencyHigh, PriorityHigh},
		{ImpactSignificant, UrgencyMedium, PriorityModerate},
		{ImpactSignificant, UrgencyLow, PriorityLow},
		{ImpactModerate, UrgencyHigh, PriorityModerate},
		{ImpactModerate, UrgencyMedium, PriorityLow},
		{ImpactModerate, UrgencyLow, PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.impact)+"/"+string(tt.urgency), func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePriority(tt.impact, tt.urgency))
		})
	}
}

func TestDerivePriority_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, PriorityModerate, DerivePriority("", ""))
	assert.Equal(t, PriorityModerate, DerivePriority("weird", UrgencyHigh))
}

func TestIncident_Clone(t *testing.T) {
	resolvedAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	original := &Incident{
		SysID:          "sys-1",
		State:          StateResolved,
		Comments:       []Comment{{ID: "c1", Text: "done"}},
		ChildIncidents: []string{"sys-2"},
		ResolvedAt:     &resolvedAt,
	}

	clone := original.Clone()
	clone.Comments[0].Text = "mutated"
	clone.ChildIncidents[0] = "sys-3"
	*clone.ResolvedAt = clone.ResolvedAt.Add(time.Hour)

	assert.Equal(t, "done", original.Comments[0].Text)
	assert.Equal(t, "sys-2", original.ChildIncidents[0])
	assert.Equal(t, resolvedAt, *original.ResolvedAt)
}

func TestIncident_VisibleComments(t *testing.T) {
	inc := &Incident{Comments: []Comment{
		{ID: "c1", Text: "work note", IsInternal: true},
		{ID: "c2", Text: "customer update"},
	}}

	agent := inc.VisibleComments(RoleAdmin)
	assert.Len(t, agent, 2)

	for _, role := range []Role{RoleEmployee, RoleEndUser} {
		visible := inc.VisibleComments(role)
		require.Len(t, visible, 1)
		assert.Equal(t, "c2", visible[0].ID)
	}
}

func TestRole_IsAgent(t *testing.T) {
	assert.True(t, RoleAdmin.IsAgent())
	assert.False(t, RoleEmployee.IsAgent())
	assert.False(t, RoleEndUser.IsAgent())
}
