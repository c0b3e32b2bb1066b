package departments

import "errors"

// ErrDecisionNotImplemented marks a decision point that has no real
// policy behind it yet. Callers treat it as "no decision", never as a
// crash.
var ErrDecisionNotImplemented = errors.New("decision policy not implemented")

// DecisionPolicy picks one of the offered options for an issue. The
// core ships no heuristic policy on purpose: anywhere a choice would
// previously have been arbitrary now surfaces
// ErrDecisionNotImplemented instead of hidden nondeterminism.
type DecisionPolicy interface {
	Decide(issue string, options []string) (string, error)
}

// UnimplementedPolicy is the default DecisionPolicy.
type UnimplementedPolicy struct{}

func (UnimplementedPolicy) Decide(issue string, options []string) (string, error) {
	return "", ErrDecisionNotImplemented
}
