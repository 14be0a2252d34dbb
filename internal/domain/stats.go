package domain

// TeamStats reports per-team workload counters.
//
// AvgResolutionTime is a reserved field and is always zero: resolution
// duration is not tracked yet. Consumers must not treat it as computed.
type TeamStats struct {
	TeamName          string  `json:"teamName"`
	TotalAssigned     int     `json:"totalAssigned"`
	Resolved          int     `json:"resolved"`
	InProgress        int     `json:"inProgress"`
	AvgResolutionTime float64 `json:"avgResolutionTime"`
}

// ImpactBreakdown counts active incidents per impact tier.
type ImpactBreakdown struct {
	Extensive   int `json:"extensive"`
	Significant int `json:"significant"`
	Moderate    int `json:"moderate"`
}

// DashboardStats is a derived snapshot of the incident collection. It is
// recomputed on demand and never mutated.
//
// Critical and P1Count are defined identically; both names are kept because
// historical consumers used either. ResolvedToday is a cumulative count of
// resolved incidents, not scoped to the current calendar day; the name is
// kept for API compatibility.
type DashboardStats struct {
	TotalActive      int             `json:"totalActive"`
	InJeopardy       int             `json:"inJeopardy"`
	P1Count          int             `json:"p1Count"`
	Critical         int             `json:"critical"`
	AwaitingApproval int             `json:"awaitingApproval"`
	Unassigned       int             `json:"unassigned"`
	Overdue          int             `json:"overdue"`
	ResolvedToday    int             `json:"resolvedToday"`
	TeamStats        []TeamStats     `json:"teamStats"`
	ImpactBreakdown  ImpactBreakdown `json:"impactBreakdown"`
}
