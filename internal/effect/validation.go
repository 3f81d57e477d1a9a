package effect

import (
	"errors"
	"fmt"
	"strings"
)

// Severity of a validation problem.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Problem is one authoring issue found by validation.
type Problem struct {
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	return p.Severity.String() + ": " + p.Message
}

// Problems is the result of validating an effect template.
// A nil Problems means the template is valid.
type Problems []Problem

func (ps *Problems) errorf(format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

func (ps *Problems) warnf(format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Merge appends other with prefix prepended to every message.
func (ps *Problems) Merge(prefix string, other Problems) {
	for _, p := range other {
		if prefix != "" {
			p.Message = prefix + ": " + p.Message
		}
		*ps = append(*ps, p)
	}
}

// HasErrors reports whether any problem has error severity.
func (ps Problems) HasErrors() bool {
	for _, p := range ps {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity problems.
func (ps Problems) Errors() Problems {
	var out Problems
	for _, p := range ps {
		if p.Severity == SeverityError {
			out = append(out, p)
		}
	}
	return out
}

// Err joins the error-severity problems into one error, or returns nil.
func (ps Problems) Err() error {
	var errs []error
	for _, p := range ps {
		if p.Severity == SeverityError {
			errs = append(errs, errors.New(p.Message))
		}
	}
	return errors.Join(errs...)
}

func (ps Problems) String() string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

// ValidateOptions tunes validation to where an effect is placed.
type ValidateOptions struct {
	// Reactive placements are seeded with ConditionalEffectValueID.
	Reactive bool
	// PreviousSeeds are ids available as previous-stage values before the
	// Self stage (PartialEffectPlaceholderID for partial templates).
	PreviousSeeds IDSet
}

// stageWalker tracks the ids written so far while walking stages in order.
type stageWalker struct {
	prior   IDSet // saved by earlier stages
	current IDSet // saved earlier in the current stage
}

// check validates effects of one stage and folds their saves in.
func (w *stageWalker) check(stage Stage, effects []SingleStage, ps *Problems) {
	prefix := stage.String() + " stage"
	for i, e := range effects {
		if isNil(e) {
			ps.errorf("%s: effect %d is nil", prefix, i)
			continue
		}
		ps.Merge(fmt.Sprintf("%s: effect %d", prefix, i), e.Validate())

		uses := e.UseIDs()
		if missing := uses.Local.Difference(w.current); !missing.IsEmpty() && !e.SavesBeforeUsing(missing) {
			ps.errorf("%s: effect %d uses ids %s before they are saved in this stage", prefix, i, missing)
		}
		if !uses.Previous.IsEmpty() {
			if stage == StageSelf && w.prior.IsEmpty() {
				ps.errorf("%s: effect %d uses previous-stage ids %s but nothing precedes the self stage", prefix, i, uses.Previous)
			} else if missing := uses.Previous.Difference(w.prior); !missing.IsEmpty() {
				ps.errorf("%s: effect %d uses previous-stage ids %s that no earlier stage saves", prefix, i, missing)
			}
		}
		w.current.Append(e.SaveIDs())
	}
}

// next closes the current stage.
func (w *stageWalker) next() {
	w.prior.Append(w.current)
	w.current = IDSet{}
}

func validateStages(stages [StageCount][]SingleStage, opts ValidateOptions) Problems {
	var ps Problems
	w := stageWalker{prior: opts.PreviousSeeds}
	if opts.Reactive {
		w.current.Add(ConditionalEffectValueID)
		if len(stages[StageTarget]) > 0 || len(stages[StageCallback]) > 0 {
			ps.warnf("reactive effects only apply their self stage")
		}
	}
	for st := range StageCount {
		w.check(st, stages[st], &ps)
		w.next()
	}
	if len(stages[StageCallback]) > 0 && len(stages[StageTarget]) == 0 {
		ps.errorf("callback stage has effects but the target stage is empty")
	}
	return ps
}

func isNil(e SingleStage) bool {
	if e == nil {
		return true
	}
	switch v := e.(type) {
	case *SimpleEffect:
		return v == nil
	case *Group:
		return v == nil
	case *ComplexEffect:
		return v == nil
	case *BonusEffect:
		return v == nil
	case *StatusEffect:
		return v == nil
	}
	return false
}
