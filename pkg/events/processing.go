// Package events provides common life event scheduling utilities.
package events

import "fmt"

// Event represents a life event with year scheduling capabilities.
type Event struct {
	Name      string
	Amount    float64
	StartYear int
	Recurring bool
	Duration  int // years
	YearList  []int
}

// Processor handles event processing operations
type Processor struct{}

// NewProcessor creates a new event processor
func NewProcessor() *Processor {
	return &Processor{}
}

// FormYearLists schedules multiple events against the same horizon.
func (p *Processor) FormYearLists(events []*Event, horizon int) error {
	for _, event := range events {
		if err := event.FormYearList(horizon); err != nil {
			return err
		}
	}
	return nil
}

// FormYearList fills YearList with every simulated year in [1, horizon]
// where the event applies. Year 0 is the starting state and never receives
// events; occurrences past the horizon are dropped.
func (event *Event) FormYearList(horizon int) error {
	if event.StartYear < 0 {
		return fmt.Errorf("event %s: start year %d must not be negative", event.Name, event.StartYear)
	}
	if horizon < 0 {
		return fmt.Errorf("event %s: horizon %d must not be negative", event.Name, horizon)
	}

	duration := 1
	if event.Recurring {
		if event.Duration < 1 {
			return fmt.Errorf("event %s: recurring duration %d must be at least 1", event.Name, event.Duration)
		}
		duration = event.Duration
	}

	if event.StartYear > horizon {
		event.YearList = []int{}
		return nil
	}

	// Walk offsets instead of computing StartYear+duration, which can
	// overflow for enormous durations.
	yearList := make([]int, 0, min(duration, horizon))
	for offset := 0; offset < duration; offset++ {
		year := event.StartYear + offset
		if year > horizon {
			break
		}
		if year < 1 {
			continue
		}
		yearList = append(yearList, year)
	}
	event.YearList = yearList

	return nil
}

// OutsideHorizon reports whether no occurrence of the event falls inside the
// simulated years. Only meaningful after FormYearList.
func (event *Event) OutsideHorizon() bool {
	return len(event.YearList) == 0
}
