package incidents

import (
	"fmt"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/google/uuid"
)

// Seed loads the demo data set: a fiber outage mid-investigation, two
// employee hardware tickets and an on-hold wholesale circuit fault. Opened
// timestamps are relative to startup so the overdue and jeopardy counters
// have something to show.
func Seed(store *Store) error {
	now := time.Now()

	seeds := []*domain.Incident{
		{
			SysID:            uuid.New().String(),
			Number:           "INC0010234",
			Caller:           "John Smith",
			ShortDescription: "Total Fiber outage in Ealing Broadway",
			Description:      "Multiple customers reporting Red LOS light on ONT. Likely duct damage near exchange node EAL-04.",
			State:            domain.StateInProgress,
			Priority:         domain.PriorityCritical,
			Impact:           domain.ImpactExtensive,
			Urgency:          domain.UrgencyHigh,
			AssignmentGroup:  "Openreach Field Ops",
			AssignedTo:       "Alan Davies",
			BusinessService:  "Openreach Fiber (FTTP)",
			CmdbCI:           "EAL-04-FIBER-RACK",
			OpenedAt:         now.Add(-4 * time.Hour),
			Comments: []domain.Comment{
				{
					ID:         uuid.New().String(),
					Text:       "Assigning to Field Ops for urgent site survey.",
					Author:     "Service Desk",
					Timestamp:  now.Add(-3 * time.Hour),
					IsInternal: true,
				},
				{
					ID:         uuid.New().String(),
					Text:       "Engineer dispatched to Ealing Broadway exchange.",
					Author:     "Alan Davies",
					Timestamp:  now.Add(-2 * time.Hour),
					IsInternal: false,
				},
			},
		},
		{
			SysID:            uuid.New().String(),
			Number:           "INC0022981",
			Caller:           "Emma Watson",
			ShortDescription: "Laptop Battery Swelling - MacBook Pro",
			Description:      "The battery on my corporate laptop is bulging, the trackpad is hard to click. Requesting an urgent hardware swap.",
			State:            domain.StateNew,
			Priority:         domain.PriorityHigh,
			Impact:           domain.ImpactModerate,
			Urgency:          domain.UrgencyMedium,
			AssignmentGroup:  "Hardware Support",
			AssignedTo:       domain.Unassigned,
			BusinessService:  "End User Computing",
			CmdbCI:           "LAPTOP-WATSON-01",
			OpenedAt:         now.Add(-30 * time.Minute),
			Comments:         []domain.Comment{},
		},
		{
			SysID:            uuid.New().String(),
			Number:           "INC0023440",
			Caller:           "Emma Watson",
			ShortDescription: "Missing Desk Docking Station - Floor 4",
			Description:      "My assigned desk (4-B12) is missing the USB-C docking station. Cannot connect dual monitors.",
			State:            domain.StateResolved,
			Priority:         domain.PriorityLow,
			Impact:           domain.ImpactModerate,
			Urgency:          domain.UrgencyLow,
			AssignmentGroup:  "Facilities IT",
			AssignedTo:       "Mark Evans",
			BusinessService:  "Workplace Services",
			CmdbCI:           "DOCK-FLOOR4-12",
			OpenedAt:         now.Add(-24 * time.Hour),
			Comments:         []domain.Comment{},
		},
		{
			SysID:            uuid.New().String(),
			Number:           "INC0010552",
			Caller:           "Sarah Jenkins",
			ShortDescription: "Slow GEA Ethernet throughput",
			Description:      "Corporate customer reporting only 10% of committed bandwidth on GEA circuit AF-IE-9982.",
			State:            domain.StateOnHold,
			OnHoldReason:     domain.OnHoldAwaitingVendor,
			Priority:         domain.PriorityHigh,
			Impact:           domain.ImpactSignificant,
			Urgency:          domain.UrgencyMedium,
			AssignmentGroup:  "Network Core Support",
			AssignedTo:       domain.Unassigned,
			BusinessService:  "Wholesale Ethernet",
			CmdbCI:           "LON-CORE-SW-02",
			OpenedAt:         now.Add(-24 * time.Hour),
			Comments:         []domain.Comment{},
		},
	}

	// Replace keeps the given identity, so seeds land with their well-known
	// ticket numbers. Insert in reverse so the first seed ends up newest.
	for i := len(seeds) - 1; i >= 0; i-- {
		if _, err := store.Replace(seeds[i]); err != nil {
			return fmt.Errorf("seed %s: %w", seeds[i].Number, err)
		}
	}
	return nil
}
