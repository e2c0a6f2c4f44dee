package notify

import (
	"context"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/platform/constants"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

// Badge is the on-demand classification shown in the application header.
type Badge struct {
	Upcoming []Alert `json:"upcoming"`
	Expired  []Alert `json:"expired"`
}

// GetBadge classifies the caller's organization documents against the fixed
// 30-day window. It deliberately ignores the per-user email window: the
// badge means the same thing for everybody.
func (scanner *Scanner) GetBadge(context context.Context, identity *sec.Identity) (*Badge, error) {
	alerts, err := scanner.collect(context, identity.OrganizationID, time.Now())
	if err != nil {
		return nil, err
	}

	badge := &Badge{Upcoming: []Alert{}, Expired: []Alert{}}
	for _, alert := range alerts {
		switch {
		case alert.Expired():
			badge.Expired = append(badge.Expired, alert)
		case alert.DaysUntilExpiry <= constants.UpcomingWindowDays:
			badge.Upcoming = append(badge.Upcoming, alert)
		}
	}
	return badge, nil
}
