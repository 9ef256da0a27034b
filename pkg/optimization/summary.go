// Package optimization provides shared data structures for numeric search results.
package optimization

// Method names how a solution was obtained.
const (
	MethodNone      = "none"
	MethodAnalytic  = "analytic"
	MethodBisection = "bisection"
)

// Summary captures the result of a single contribution search.
type Summary struct {
	Method       string   `json:"method"`
	Target       float64  `json:"target"`
	Value        float64  `json:"value"`
	Achieved     float64  `json:"achieved"`
	Residual     float64  `json:"residual"`
	Lower        float64  `json:"lower"`
	Upper        float64  `json:"upper"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
	ValueDisplay string   `json:"valueDisplay,omitempty"`
}

// AddNote appends a note to the summary.
func (s *Summary) AddNote(note string) {
	if note == "" {
		return
	}
	s.Notes = append(s.Notes, note)
}
