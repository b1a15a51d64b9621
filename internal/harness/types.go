package harness

// Outcome is what one flow step produced.
type Outcome struct {
	Seq  int    `json:"seq"`
	Kind string `json:"kind"`

	// Bindings are the match solutions, variable name to N-Quads term.
	Bindings []map[string]string `json:"bindings,omitempty"`

	// Value is the decoded tree value, printed.
	Value string `json:"value,omitempty"`

	// Term is the encoded or inserted resource.
	Term string `json:"term,omitempty"`

	// Error is the error code the step failed with.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per flow step, in order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutcome appends a step outcome.
func (r *Result) AddOutcome(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}
