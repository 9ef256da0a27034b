package config

import (
	"fmt"

	"github.com/iwvelando/finance-planner/internal/optimizer"
	"github.com/iwvelando/finance-planner/pkg/constants"
)

const maxSolverIterations = 10000

// SolverConfig tunes the reverse solver's bisection search.
type SolverConfig struct {
	Tolerance         float64 `yaml:"tolerance,omitempty"`
	RelativeTolerance float64 `yaml:"relativeTolerance,omitempty"`
	MaxIterations     int     `yaml:"maxIterations,omitempty"`
}

// Normalize applies defaults for unset fields.
func (s *SolverConfig) Normalize() {
	if s == nil {
		return
	}
	if s.Tolerance == 0 {
		s.Tolerance = constants.DefaultSolverTolerance
	}
	if s.RelativeTolerance == 0 {
		s.RelativeTolerance = constants.DefaultSolverRelativeTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = constants.DefaultSolverMaxIterations
	}
}

// Validate returns an error when the solver configuration is unusable.
func (s *SolverConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("solver configuration cannot be nil")
	}

	s.Normalize()

	if s.Tolerance < 0 {
		return fmt.Errorf("solver tolerance %.2f must not be negative", s.Tolerance)
	}
	if s.RelativeTolerance < 0 || s.RelativeTolerance >= 1 {
		return fmt.Errorf("solver relative tolerance %g must be in [0, 1)", s.RelativeTolerance)
	}
	if s.MaxIterations < 1 || s.MaxIterations > maxSolverIterations {
		return fmt.Errorf("solver max iterations %d must be between 1 and %d", s.MaxIterations, maxSolverIterations)
	}

	return nil
}

// Options converts the configuration into solver options.
func (s SolverConfig) Options() optimizer.Options {
	return optimizer.Options{
		Tolerance:         s.Tolerance,
		RelativeTolerance: s.RelativeTolerance,
		MaxIterations:     s.MaxIterations,
	}
}
