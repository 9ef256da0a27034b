// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/events"
)

// LifeEventAdapter adapts between domain.LifeEvent and events.Event
type LifeEventAdapter struct {
	LifeEvent domain.LifeEvent
	PkgEvent  *events.Event
}

// NewLifeEventAdapter creates a new adapter
func NewLifeEventAdapter(lifeEvent domain.LifeEvent) *LifeEventAdapter {
	return &LifeEventAdapter{
		LifeEvent: lifeEvent,
		PkgEvent: &events.Event{
			Name:      lifeEvent.Name,
			Amount:    lifeEvent.Amount,
			StartYear: lifeEvent.Year,
			Recurring: lifeEvent.IsRecurring,
			Duration:  lifeEvent.Duration,
		},
	}
}

// FormYearList schedules the wrapped event against the simulated horizon.
func (adapter *LifeEventAdapter) FormYearList(horizon int) error {
	return adapter.PkgEvent.FormYearList(horizon)
}

// GetName returns the event name
func (adapter *LifeEventAdapter) GetName() string {
	return adapter.LifeEvent.Name
}

// GetAmount returns the event amount
func (adapter *LifeEventAdapter) GetAmount() float64 {
	return adapter.LifeEvent.Amount
}

// GetYearList returns the scheduled years
func (adapter *LifeEventAdapter) GetYearList() []int {
	return adapter.PkgEvent.YearList
}
