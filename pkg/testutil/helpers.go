// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-planner/internal/domain"
)

// FindYear finds a projection row by year.
// Returns a pointer to the row if found, nil otherwise.
func FindYear(data []domain.YearProjection, year int) *domain.YearProjection {
	for i := range data {
		if data[i].Year == year {
			return &data[i]
		}
	}
	return nil
}

// FindMilestone finds a milestone by name.
// Returns a pointer to the milestone if found, nil otherwise.
func FindMilestone(milestones []domain.Milestone, name string) *domain.Milestone {
	for i := range milestones {
		if milestones[i].Name == name {
			return &milestones[i]
		}
	}
	return nil
}

// FindNudge finds a nudge by title.
// Returns a pointer to the nudge if found, nil otherwise.
func FindNudge(nudges []domain.Nudge, title string) *domain.Nudge {
	for i := range nudges {
		if nudges[i].Title == title {
			return &nudges[i]
		}
	}
	return nil
}
