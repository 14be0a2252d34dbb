package dashboard

import (
	"testing"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

type incidentOpt func(*domain.Incident)

func makeIncident(opts ...incidentOpt) *domain.Incident {
	inc := &domain.Incident{
		SysID:           "sys-1",
		State:           domain.StateNew,
		Priority:        domain.PriorityModerate,
		Impact:          domain.ImpactModerate,
		Urgency:         domain.UrgencyMedium,
		AssignmentGroup: domain.Unassigned,
		AssignedTo:      domain.Unassigned,
		OpenedAt:        testNow.Add(-10 * time.Minute),
	}
	for _, opt := range opts {
		opt(inc)
	}
	return inc
}

func withState(s domain.IncidentState) incidentOpt {
	return func(i *domain.Incident) { i.State = s }
}

func withPriority(p domain.Priority) incidentOpt {
	return func(i *domain.Incident) { i.Priority = p }
}

func withImpact(im domain.Impact) incidentOpt {
	return func(i *domain.Incident) { i.Impact = im }
}

func withGroup(g string) incidentOpt {
	return func(i *domain.Incident) { i.AssignmentGroup = g }
}

func withAssignee(a string) incidentOpt {
	return func(i *domain.Incident) { i.AssignedTo = a }
}

func withOpenedAt(t time.Time) incidentOpt {
	return func(i *domain.Incident) { i.OpenedAt = t }
}

func withHoldReason(r domain.OnHoldReason) incidentOpt {
	return func(i *domain.Incident) { i.OnHoldReason = r }
}

func TestAggregate_EmptyCollection(t *testing.T) {
	stats := Aggregate(nil, testNow)

	assert.Zero(t, stats.TotalActive)
	assert.Zero(t, stats.P1Count)
	assert.Zero(t, stats.Critical)
	assert.Zero(t, stats.InJeopardy)
	assert.Zero(t, stats.AwaitingApproval)
	assert.Zero(t, stats.Unassigned)
	assert.Zero(t, stats.Overdue)
	assert.Zero(t, stats.ResolvedToday)
	assert.Zero(t, stats.ImpactBreakdown)

	require.Len(t, stats.TeamStats, len(TeamRoster))
	for i, team := range stats.TeamStats {
		assert.Equal(t, TeamRoster[i], team.TeamName)
		assert.Zero(t, team.TotalAssigned)
		assert.Zero(t, team.AvgResolutionTime)
	}
}

func TestAggregate_ActiveCounts(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withState(domain.StateNew)),
		makeIncident(withState(domain.StateInProgress), withAssignee("Alan Davies")),
		makeIncident(withState(domain.StateOnHold)),
		makeIncident(withState(domain.StateResolved)),
		makeIncident(withState(domain.StateClosed)),
		makeIncident(withState(domain.StateCanceled)),
	}

	stats := Aggregate(incidents, testNow)

	assert.Equal(t, 3, stats.TotalActive)
	assert.Equal(t, 2, stats.Unassigned)
	assert.LessOrEqual(t, stats.Unassigned, stats.TotalActive)
}

func TestAggregate_CriticalMirrorsP1Count(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withPriority(domain.PriorityCritical)),
		makeIncident(withPriority(domain.PriorityCritical), withState(domain.StateInProgress)),
		makeIncident(withPriority(domain.PriorityHigh)),
		// resolved criticals do not count
		makeIncident(withPriority(domain.PriorityCritical), withState(domain.StateResolved)),
	}

	stats := Aggregate(incidents, testNow)

	assert.Equal(t, 2, stats.P1Count)
	assert.Equal(t, stats.P1Count, stats.Critical)
}

func TestAggregate_ResolvedCountIsCumulative(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withState(domain.StateResolved)),
		makeIncident(withState(domain.StateResolved), withOpenedAt(testNow.Add(-72*time.Hour))),
		makeIncident(withState(domain.StateClosed)),
	}

	stats := Aggregate(incidents, testNow)

	// All resolved incidents count regardless of resolution day; closed ones
	// do not.
	assert.Equal(t, 2, stats.ResolvedToday)
}

func TestAggregate_Overdue(t *testing.T) {
	tests := []struct {
		name     string
		incident *domain.Incident
		overdue  int
	}{
		{
			"critical open two hours",
			makeIncident(withPriority(domain.PriorityCritical), withOpenedAt(testNow.Add(-2*time.Hour))),
			1,
		},
		{
			"critical open thirty minutes",
			makeIncident(withPriority(domain.PriorityCritical), withOpenedAt(testNow.Add(-30*time.Minute))),
			0,
		},
		{
			"high priority open two days",
			makeIncident(withPriority(domain.PriorityHigh), withOpenedAt(testNow.Add(-48*time.Hour))),
			0,
		},
		{
			"resolved critical open two hours",
			makeIncident(withPriority(domain.PriorityCritical), withState(domain.StateResolved), withOpenedAt(testNow.Add(-2*time.Hour))),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate([]*domain.Incident{tt.incident}, testNow)
			assert.Equal(t, tt.overdue, stats.Overdue)
		})
	}
}

func TestAggregate_JeopardyAndApproval(t *testing.T) {
	incidents := []*domain.Incident{
		// critical and active: in jeopardy
		makeIncident(withPriority(domain.PriorityCritical)),
		// on hold awaiting vendor: in jeopardy and awaiting approval
		makeIncident(withState(domain.StateOnHold), withHoldReason(domain.OnHoldAwaitingVendor)),
		// on hold awaiting caller: in jeopardy only
		makeIncident(withState(domain.StateOnHold), withHoldReason(domain.OnHoldAwaitingCaller)),
		// plain active moderate: neither
		makeIncident(),
	}

	stats := Aggregate(incidents, testNow)

	assert.Equal(t, 3, stats.InJeopardy)
	assert.Equal(t, 1, stats.AwaitingApproval)
}

func TestAggregate_ImpactBreakdown(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withImpact(domain.ImpactExtensive)),
		makeIncident(withImpact(domain.ImpactSignificant)),
		makeIncident(withImpact(domain.ImpactSignificant)),
		makeIncident(withImpact(domain.ImpactModerate)),
		// inactive incidents are excluded
		makeIncident(withImpact(domain.ImpactExtensive), withState(domain.StateClosed)),
	}

	stats := Aggregate(incidents, testNow)

	assert.Equal(t, 1, stats.ImpactBreakdown.Extensive)
	assert.Equal(t, 2, stats.ImpactBreakdown.Significant)
	assert.Equal(t, 1, stats.ImpactBreakdown.Moderate)
}

func TestAggregate_TeamStats(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withGroup("Openreach Field Ops"), withState(domain.StateInProgress)),
		makeIncident(withGroup("Openreach Field Ops")),
		makeIncident(withGroup("Openreach Field Ops"), withState(domain.StateResolved)),
		makeIncident(withGroup("Hardware Support")),
		// off-roster teams count globally but not per team
		makeIncident(withGroup("Third Party Liaison")),
	}

	stats := Aggregate(incidents, testNow)

	assert.Equal(t, 4, stats.TotalActive)

	byName := make(map[string]domain.TeamStats)
	for _, team := range stats.TeamStats {
		byName[team.TeamName] = team
	}

	fieldOps := byName["Openreach Field Ops"]
	assert.Equal(t, 2, fieldOps.TotalAssigned)
	assert.Equal(t, 1, fieldOps.InProgress)
	assert.Equal(t, 1, fieldOps.Resolved)
	assert.Zero(t, fieldOps.AvgResolutionTime)

	assert.Equal(t, 1, byName["Hardware Support"].TotalAssigned)
	assert.Zero(t, byName["Service Desk"].TotalAssigned)
}

func TestAggregate_PureAndIdempotent(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withPriority(domain.PriorityCritical), withOpenedAt(testNow.Add(-2*time.Hour))),
		makeIncident(withState(domain.StateOnHold), withHoldReason(domain.OnHoldAwaitingVendor)),
		makeIncident(withState(domain.StateResolved)),
	}
	snapshot := make([]*domain.Incident, len(incidents))
	for i, inc := range incidents {
		snapshot[i] = inc.Clone()
	}

	first := Aggregate(incidents, testNow)
	second := Aggregate(incidents, testNow)

	assert.Equal(t, first, second)
	for i := range incidents {
		assert.Equal(t, snapshot[i], incidents[i])
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := makeIncident(withPriority(domain.PriorityCritical))
	b := makeIncident(withState(domain.StateOnHold), withHoldReason(domain.OnHoldAwaitingVendor))
	c := makeIncident(withState(domain.StateResolved))

	forward := Aggregate([]*domain.Incident{a, b, c}, testNow)
	backward := Aggregate([]*domain.Incident{c, b, a}, testNow)

	assert.Equal(t, forward, backward)
}

func TestHighImpactQueue(t *testing.T) {
	incidents := []*domain.Incident{
		makeIncident(withPriority(domain.PriorityCritical)),
		makeIncident(withState(domain.StateInProgress)),
		makeIncident(), // moderate, new: not high impact
		makeIncident(withPriority(domain.PriorityCritical), withState(domain.StateResolved)),
	}

	queue := HighImpactQueue(incidents)
	require.Len(t, queue, 2)
	assert.Same(t, incidents[0], queue[0])
	assert.Same(t, incidents[1], queue[1])
}

func TestHighImpactQueue_Cap(t *testing.T) {
	var incidents []*domain.Incident
	for i := 0; i < HighImpactQueueSize+3; i++ {
		incidents = append(incidents, makeIncident(withPriority(domain.PriorityCritical)))
	}

	assert.Len(t, HighImpactQueue(incidents), HighImpactQueueSize)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, float64(0), Percent(3, 0))
	assert.Equal(t, float64(50), Percent(1, 2))
	assert.Equal(t, float64(100), Percent(4, 4))
}
