package adapters

import (
	"fmt"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/events"
	"github.com/iwvelando/finance-planner/pkg/finance"
)

// ScheduleLifeEvents converts life events into finance.EventWithYears
// scheduled over horizon years. Events with no occurrence inside the horizon
// are dropped and reported as warnings.
func ScheduleLifeEvents(lifeEvents []domain.LifeEvent, horizon int) ([]finance.EventWithYears, []string, error) {
	if lifeEvents == nil {
		return nil, nil, nil
	}

	wrapped := make([]*LifeEventAdapter, len(lifeEvents))
	pkgEvents := make([]*events.Event, len(lifeEvents))
	for i, lifeEvent := range lifeEvents {
		wrapped[i] = NewLifeEventAdapter(lifeEvent)
		pkgEvents[i] = wrapped[i].PkgEvent
	}
	if err := events.NewProcessor().FormYearLists(pkgEvents, horizon); err != nil {
		return nil, nil, err
	}

	var scheduled []finance.EventWithYears
	var warnings []string
	for _, adapter := range wrapped {
		if adapter.PkgEvent.OutsideHorizon() {
			warnings = append(warnings, fmt.Sprintf("Event '%s' at year %d has no occurrence within years 1-%d and is ignored",
				adapter.LifeEvent.Name, adapter.LifeEvent.Year, horizon))
			continue
		}
		scheduled = append(scheduled, adapter)
	}
	return scheduled, warnings, nil
}
