package workflow

import (
	"fmt"
)

// Check is the outcome of validating a requested stage transition. A
// detected skip is a normal outcome, not an error: the caller decides
// whether to surface a confirmation and re-submit.
type Check struct {
	Valid         bool
	IsSkipping    bool
	SkippedStages []Stage
	Message       string
}

// AllowedNextStages returns the stages a workflow at the given stage may
// move to: the single next stage in sequence (when not terminal) plus every
// regression-whitelisted stage sitting before the current one. An empty
// current stage (new workflow) allows any stage in the sequence.
func AllowedNextStages(current Stage, t Type) ([]Stage, error) {
	seq, ok := sequences[t]
	if !ok {
		return nil, fmt.Errorf("unknown workflow type %q", t)
	}

	if current == "" {
		out := make([]Stage, len(seq))
		copy(out, seq)

		return out, nil
	}

	idx, ok := stageIndex(t, current)
	if !ok {
		return nil, fmt.Errorf("stage %q is not part of the %s sequence", current, t)
	}

	var allowed []Stage

	for _, s := range seq[:idx] {
		if _, ok := regressionAllowed[s]; ok {
			allowed = append(allowed, s)
		}
	}

	if idx < len(seq)-1 {
		allowed = append(allowed, seq[idx+1])
	}

	return allowed, nil
}

// ValidateTransition checks a requested move from one stage to another
// within the type's sequence.
//
//   - no current stage (new workflow): any stage is a valid initial stage
//   - same stage: valid no-op
//   - one step forward: valid
//   - more than one step forward: rejected as a skip, reporting every stage
//     strictly between, in order; whether to honour a confirmed skip anyway
//     is the caller's decision, not this function's
//   - backward: valid only into a regression-whitelisted stage
//
// Unknown stages and types are hard errors.
func ValidateTransition(from, to Stage, t Type) (Check, error) {
	if _, ok := sequences[t]; !ok {
		return Check{}, fmt.Errorf("unknown workflow type %q", t)
	}

	toIdx, ok := stageIndex(t, to)
	if !ok {
		return Check{}, fmt.Errorf("stage %q is not part of the %s sequence", to, t)
	}

	if from == "" {
		return Check{Valid: true}, nil
	}

	fromIdx, ok := stageIndex(t, from)
	if !ok {
		return Check{}, fmt.Errorf("stage %q is not part of the %s sequence", from, t)
	}

	switch {
	case toIdx == fromIdx:
		return Check{Valid: true}, nil

	case toIdx < fromIdx:
		if _, ok := regressionAllowed[to]; !ok {
			return Check{
				Message: fmt.Sprintf("cannot move back to %s", to.Display()),
			}, nil
		}

		return Check{Valid: true}, nil

	case toIdx == fromIdx+1:
		return Check{Valid: true}, nil

	default:
		skipped := make([]Stage, 0, toIdx-fromIdx-1)
		skipped = append(skipped, sequences[t][fromIdx+1:toIdx]...)

		return Check{
			IsSkipping:    true,
			SkippedStages: skipped,
			Message:       fmt.Sprintf("skips %d stage(s)", len(skipped)),
		}, nil
	}
}
