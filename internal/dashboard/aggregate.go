// Package dashboard derives workload statistics from the incident
// collection. Aggregation is a pure pass over a snapshot: cheap enough to
// recompute on every request, and it never mutates its input.
package dashboard

import (
	"time"

	"github.com/assureops/incident-desk/internal/domain"
)

// OverdueAfter is how long a critical incident may stay open before it
// counts as overdue.
const OverdueAfter = time.Hour

// HighImpactQueueSize caps the dashboard's high-impact queue.
const HighImpactQueueSize = 5

// TeamRoster is the fixed set of teams reported in team stats, in display
// order. Incidents assigned elsewhere still count in the global totals.
var TeamRoster = []string{
	"Openreach Field Ops",
	"Network Core Support",
	"Hardware Support",
	"Facilities IT",
	"Service Desk",
}

// Aggregate computes DashboardStats from the given incidents as of now.
// Input order is irrelevant; the empty collection yields all-zero stats.
// Only the overdue counter depends on the clock.
func Aggregate(incidents []*domain.Incident, now time.Time) domain.DashboardStats {
	stats := domain.DashboardStats{
		TeamStats: make([]domain.TeamStats, 0, len(TeamRoster)),
	}

	teamIndex := make(map[string]int, len(TeamRoster))
	for i, name := range TeamRoster {
		teamIndex[name] = i
		stats.TeamStats = append(stats.TeamStats, domain.TeamStats{TeamName: name})
	}

	for _, inc := range incidents {
		resolved := inc.State == domain.StateResolved
		if resolved {
			stats.ResolvedToday++
		}
		if ti, ok := teamIndex[inc.AssignmentGroup]; ok && resolved {
			stats.TeamStats[ti].Resolved++
		}

		if !inc.State.IsActive() {
			continue
		}

		stats.TotalActive++
		p1 := inc.Priority.Tier() == 1
		if p1 {
			stats.P1Count++
			stats.Critical++
		}
		if inc.State == domain.StateOnHold || p1 {
			stats.InJeopardy++
		}
		if inc.State == domain.StateOnHold && inc.OnHoldReason == domain.OnHoldAwaitingVendor {
			stats.AwaitingApproval++
		}
		if inc.AssignedTo == domain.Unassigned {
			stats.Unassigned++
		}
		if p1 && now.Sub(inc.OpenedAt) > OverdueAfter {
			stats.Overdue++
		}

		switch inc.Impact.Tier() {
		case 1:
			stats.ImpactBreakdown.Extensive++
		case 2:
			stats.ImpactBreakdown.Significant++
		case 3:
			stats.ImpactBreakdown.Moderate++
		}

		if ti, ok := teamIndex[inc.AssignmentGroup]; ok {
			stats.TeamStats[ti].TotalAssigned++
			if inc.State == domain.StateInProgress {
				stats.TeamStats[ti].InProgress++
			}
		}
	}

	return stats
}

// HighImpactQueue returns up to HighImpactQueueSize active incidents that
// are critical or in progress, preserving collection order.
func HighImpactQueue(incidents []*domain.Incident) []*domain.Incident {
	out := make([]*domain.Incident, 0, HighImpactQueueSize)
	for _, inc := range incidents {
		if !inc.State.IsActive() {
			continue
		}
		if inc.Priority.Tier() == 1 || inc.State == domain.StateInProgress {
			out = append(out, inc)
			if len(out) == HighImpactQueueSize {
				break
			}
		}
	}
	return out
}

// Percent renders part of whole as a percentage, returning 0 for an empty
// denominator so empty dashboards never divide by zero.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
