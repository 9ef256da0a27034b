package adapters

import (
	"testing"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifeEventAdapter(t *testing.T) {
	adapter := NewLifeEventAdapter(domain.LifeEvent{
		Name:        "College",
		Year:        2,
		Amount:      -15000,
		IsRecurring: true,
		Duration:    3,
	})

	require.NoError(t, adapter.FormYearList(10))
	assert.Equal(t, "College", adapter.GetName())
	assert.Equal(t, -15000.0, adapter.GetAmount())
	assert.Equal(t, []int{2, 3, 4}, adapter.GetYearList())

	var _ finance.EventWithYears = adapter
}

func TestScheduleLifeEvents(t *testing.T) {
	lifeEvents := []domain.LifeEvent{
		{Name: "Wedding", Year: 1, Amount: -30000},
		{Name: "Sabbatical", Year: 12, Amount: -40000},
		{Name: "Starting gift", Year: 0, Amount: 5000},
	}

	scheduled, warnings, err := ScheduleLifeEvents(lifeEvents, 10)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "Wedding", scheduled[0].GetName())
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "Sabbatical")

	processor := finance.NewEventProcessor(nil)
	assert.Equal(t, -30000.0, processor.ProcessEventsForYear(1, scheduled))
}

func TestScheduleLifeEventsErrors(t *testing.T) {
	_, _, err := ScheduleLifeEvents([]domain.LifeEvent{{Name: "Bad", Year: -2}}, 10)
	assert.Error(t, err)

	scheduled, warnings, err := ScheduleLifeEvents(nil, 10)
	assert.NoError(t, err)
	assert.Nil(t, scheduled)
	assert.Nil(t, warnings)
}
