package workflows

import "fmt"

// OutcomeKind tells the pipeline driver what to do after a step.
type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Skip
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of processing one file. Reason is nil for
// Continue and for quiet skips such as unchanged files.
type Outcome struct {
	Kind   OutcomeKind
	Reason error
}

func proceed() Outcome {
	return Outcome{Kind: Continue}
}

func skip(reason error) Outcome {
	return Outcome{Kind: Skip, Reason: reason}
}

func fatal(reason error) Outcome {
	return Outcome{Kind: Fatal, Reason: reason}
}

// warnOrAbort demotes a per-file failure to a skip when forceContinue is set.
func warnOrAbort(forceContinue bool, reason error) Outcome {
	if forceContinue {
		return skip(reason)
	}
	return fatal(reason)
}
