// Package finance provides common financial calculation utilities.
package finance

import (
	"fmt"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"go.uber.org/zap"
)

// EventWithYears interface for events that have a list of active years
type EventWithYears interface {
	GetName() string
	GetAmount() float64
	GetYearList() []int
}

// EventProcessor handles life event processing
type EventProcessor struct {
	logger *zap.Logger
}

// NewEventProcessor creates a new event processor with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEventProcessor(logger *zap.Logger) *EventProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventProcessor{logger: logger}
}

// ProcessEventsForYear returns the summed amount of every event active in year.
func (ep *EventProcessor) ProcessEventsForYear(year int, events []EventWithYears) float64 {
	amount := 0.0
	for _, event := range events {
		if event == nil {
			ep.logger.Warn("Skipping nil event")
			continue
		}

		for _, eventYear := range event.GetYearList() {
			if eventYear == year {
				ep.logger.Debug("Event active",
					zap.Int("year", year),
					zap.String("event", event.GetName()),
					zap.Float64("amount", event.GetAmount()),
				)
				amount += event.GetAmount()
				break
			}
		}
	}
	return amount
}

// YearChange captures everything that moved net worth during one simulated year.
type YearChange struct {
	StartBalance float64
	EndBalance   float64
	Contribution float64
	Interest     float64
	Events       float64
}

// ForecastEngine coordinates the yearly simulation step
type ForecastEngine struct {
	eventProcessor *EventProcessor
	logger         *zap.Logger
}

// NewForecastEngine creates a new forecast engine
func NewForecastEngine(logger *zap.Logger) *ForecastEngine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ForecastEngine{
		eventProcessor: NewEventProcessor(logger),
		logger:         logger,
	}
}

// ProcessYear compounds balance for twelve months with the given monthly
// contribution and then applies the events active in year.
func (fe *ForecastEngine) ProcessYear(year int, balance, monthlyContribution, annualReturnPct float64, events []EventWithYears) (YearChange, error) {
	if fe.eventProcessor == nil {
		return YearChange{}, fmt.Errorf("forecast engine not properly initialized")
	}
	if year < 1 {
		return YearChange{}, fmt.Errorf("simulated years start at 1, got %d", year)
	}

	ending, interest := CompoundMonthly(balance, monthlyContribution, annualReturnPct, constants.MonthsPerYear)
	eventAmount := fe.eventProcessor.ProcessEventsForYear(year, events)

	return YearChange{
		StartBalance: balance,
		EndBalance:   ending + eventAmount,
		Contribution: monthlyContribution * constants.MonthsPerYear,
		Interest:     interest,
		Events:       eventAmount,
	}, nil
}
