package problem

import (
	"fmt"
	"strings"
)

// Validator checks a generated problem set before it reaches the user.
type Validator interface {
	Name() string
	Validate(p *ProblemSet) *ValidationError
}

// ValidationError describes why a problem set was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // a fresh generation is likely to pass
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that the answer key lines up with the
// headers.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *ProblemSet) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if strings.TrimSpace(p.Instructions) == "" {
		return fail("instructions is empty")
	}
	if len(p.Fields) == 0 {
		return fail("templateHeaders is empty")
	}
	seen := make(map[string]bool, len(p.Fields))
	for i, f := range p.Fields {
		if strings.TrimSpace(f) == "" {
			return fail("header %d is empty", i+1)
		}
		if seen[f] {
			return fail("header %q is duplicated", f)
		}
		seen[f] = true
	}
	if len(p.Records) == 0 {
		return fail("sourceData has no records")
	}
	for i, rec := range p.Records {
		if len(rec) != len(p.Fields) {
			return fail("record %d has %d values, want %d", i+1, len(rec), len(p.Fields))
		}
	}
	if strings.TrimSpace(p.DisplayText) == "" {
		return fail("displayData is empty")
	}
	return nil
}

// DisplayValidator rejects display text rendered as a markdown table.
type DisplayValidator struct{}

func (v *DisplayValidator) Name() string { return "display" }

func (v *DisplayValidator) Validate(p *ProblemSet) *ValidationError {
	for _, line := range strings.Split(p.DisplayText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "displayData is a markdown table",
				Retryable: true,
			}
		}
	}
	return nil
}
