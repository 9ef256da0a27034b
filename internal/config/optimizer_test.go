package config

import (
	"testing"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

func TestSolverConfigNormalize(t *testing.T) {
	solver := SolverConfig{}
	solver.Normalize()

	if solver.Tolerance != constants.DefaultSolverTolerance {
		t.Errorf("expected tolerance %v, got %v", constants.DefaultSolverTolerance, solver.Tolerance)
	}
	if solver.RelativeTolerance != constants.DefaultSolverRelativeTolerance {
		t.Errorf("expected relative tolerance %v, got %v", constants.DefaultSolverRelativeTolerance, solver.RelativeTolerance)
	}
	if solver.MaxIterations != constants.DefaultSolverMaxIterations {
		t.Errorf("expected max iterations %d, got %d", constants.DefaultSolverMaxIterations, solver.MaxIterations)
	}

	custom := SolverConfig{Tolerance: 0.01, MaxIterations: 40}
	custom.Normalize()
	if custom.Tolerance != 0.01 || custom.MaxIterations != 40 {
		t.Errorf("Normalize overwrote explicit values: %+v", custom)
	}
}

func TestSolverConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		solver  SolverConfig
		wantErr bool
	}{
		{name: "defaults", solver: SolverConfig{}},
		{name: "explicit", solver: SolverConfig{Tolerance: 0.01, RelativeTolerance: 1e-9, MaxIterations: 200}},
		{name: "negative tolerance", solver: SolverConfig{Tolerance: -1}, wantErr: true},
		{name: "relative tolerance of one", solver: SolverConfig{RelativeTolerance: 1}, wantErr: true},
		{name: "negative iterations", solver: SolverConfig{MaxIterations: -5}, wantErr: true},
		{name: "too many iterations", solver: SolverConfig{MaxIterations: 10001}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.solver.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tc.solver)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	var nilSolver *SolverConfig
	if err := nilSolver.Validate(); err == nil {
		t.Fatal("expected error for nil solver configuration")
	}
}

func TestSolverConfigOptions(t *testing.T) {
	solver := SolverConfig{Tolerance: 0.25, RelativeTolerance: 1e-8, MaxIterations: 75}
	opts := solver.Options()

	if opts.Tolerance != 0.25 || opts.RelativeTolerance != 1e-8 || opts.MaxIterations != 75 {
		t.Errorf("Options() = %+v", opts)
	}
}
