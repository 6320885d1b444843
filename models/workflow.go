package models

import "fmt"

// TransitionAction names an edge of the order pipeline. Each action maps
// 1:1 to a dashboard button.
type TransitionAction string

const (
	ActionStartProgress TransitionAction = "start_progress" // ongoing -> design review
	ActionAdvance       TransitionAction = "advance"        // next design review stage
	ActionBack          TransitionAction = "back"           // previous design review stage
	ActionMoveToSizing  TransitionAction = "move_to_sizing" // design review (last stage) -> sizing
	ActionNextStep      TransitionAction = "next_step"      // sizing -> printing
	ActionMarkPrinted   TransitionAction = "mark_printed"   // printing -> done_print
	ActionSendToSew     TransitionAction = "send_to_sew"    // done_print -> to_sew
	ActionMarkSewn      TransitionAction = "mark_sewn"      // to_sew -> to_deliver
	ActionComplete      TransitionAction = "complete"       // to_deliver -> finished, requires Delivered
)

// TransitionActions lists every defined action.
var TransitionActions = []TransitionAction{
	ActionStartProgress,
	ActionAdvance,
	ActionBack,
	ActionMoveToSizing,
	ActionNextStep,
	ActionMarkPrinted,
	ActionSendToSew,
	ActionMarkSewn,
	ActionComplete,
}

// InvalidTransitionError signals an edge that is not defined for the
// order's current state. A correctly gated UI never triggers it, so
// callers treat it as a defensive failure, never a silent no-op.
type InvalidTransitionError struct {
	Action TransitionAction
	Status OrderStatus
	Stage  string
}

func (e *InvalidTransitionError) Error() string {
	if e.Status == StatusDesignReview {
		return fmt.Sprintf("transition %q is not defined for status %q at stage %q", e.Action, e.Status, e.Stage)
	}
	return fmt.Sprintf("transition %q is not defined for status %q", e.Action, e.Status)
}

// StageIndex returns the position of stage in the design review
// sub-pipeline, or -1 when stage is not a declared stage.
func StageIndex(stage string) int {
	for i, s := range ProgressStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// ProgressRatio is the design review completion shown by the dashboard's
// progress bar: (stage index + 1) / number of stages.
func ProgressRatio(stage string) float64 {
	idx := StageIndex(stage)
	if idx < 0 {
		return 0
	}
	return float64(idx+1) / float64(len(ProgressStages))
}

// StartProgress moves a new order into design review at the first stage.
func StartProgress(o Order) (Order, error) {
	if o.Status != StatusOngoing {
		return o, &InvalidTransitionError{Action: ActionStartProgress, Status: o.Status}
	}
	o.Status = StatusDesignReview
	o.ProgressStage = ProgressStages[0]
	return o, nil
}

// AdvanceStage moves design review forward one stage. Advancing past the
// last stage is undefined; the pipeline must not cycle.
func AdvanceStage(o Order) (Order, error) {
	if o.Status != StatusDesignReview {
		return o, &InvalidTransitionError{Action: ActionAdvance, Status: o.Status}
	}
	idx := StageIndex(o.ProgressStage)
	if idx < 0 || idx >= len(ProgressStages)-1 {
		return o, &InvalidTransitionError{Action: ActionAdvance, Status: o.Status, Stage: o.ProgressStage}
	}
	o.ProgressStage = ProgressStages[idx+1]
	return o, nil
}

// RetreatStage moves design review back one stage. Going back from the
// first stage is undefined.
func RetreatStage(o Order) (Order, error) {
	if o.Status != StatusDesignReview {
		return o, &InvalidTransitionError{Action: ActionBack, Status: o.Status}
	}
	idx := StageIndex(o.ProgressStage)
	if idx <= 0 {
		return o, &InvalidTransitionError{Action: ActionBack, Status: o.Status, Stage: o.ProgressStage}
	}
	o.ProgressStage = ProgressStages[idx-1]
	return o, nil
}

// MoveToSizing leaves design review for sizing. Only available once the
// review has reached its final stage.
func MoveToSizing(o Order) (Order, error) {
	if o.Status != StatusDesignReview || StageIndex(o.ProgressStage) != len(ProgressStages)-1 {
		return o, &InvalidTransitionError{Action: ActionMoveToSizing, Status: o.Status, Stage: o.ProgressStage}
	}
	o.Status = StatusSizing
	return o, nil
}

// NextStep moves a sized order into printing.
func NextStep(o Order) (Order, error) {
	if o.Status != StatusSizing {
		return o, &InvalidTransitionError{Action: ActionNextStep, Status: o.Status}
	}
	o.Status = StatusPrinting
	return o, nil
}

// MarkPrinted completes the printing step.
func MarkPrinted(o Order) (Order, error) {
	if o.Status != StatusPrinting {
		return o, &InvalidTransitionError{Action: ActionMarkPrinted, Status: o.Status}
	}
	o.Status = StatusDonePrint
	return o, nil
}

// SendToSew hands a printed order to sewing.
func SendToSew(o Order) (Order, error) {
	if o.Status != StatusDonePrint {
		return o, &InvalidTransitionError{Action: ActionSendToSew, Status: o.Status}
	}
	o.Status = StatusToSew
	return o, nil
}

// MarkSewn moves a sewn order out for delivery.
func MarkSewn(o Order) (Order, error) {
	if o.Status != StatusToSew {
		return o, &InvalidTransitionError{Action: ActionMarkSewn, Status: o.Status}
	}
	o.Status = StatusToDeliver
	return o, nil
}

// CompleteOrder finishes the pipeline. The order must already be
// confirmed Delivered; this is the single safety guard in the machine.
func CompleteOrder(o Order) (Order, error) {
	if o.Status != StatusToDeliver || o.DeliveryStatus != DeliveryDelivered {
		return o, &InvalidTransitionError{Action: ActionComplete, Status: o.Status}
	}
	o.Status = StatusFinished
	return o, nil
}

// ApplyTransition dispatches a named action against the order and returns
// the transitioned copy. Unknown actions and undefined edges both yield
// InvalidTransitionError; the input order is never mutated.
func ApplyTransition(o Order, action TransitionAction) (Order, error) {
	switch action {
	case ActionStartProgress:
		return StartProgress(o)
	case ActionAdvance:
		return AdvanceStage(o)
	case ActionBack:
		return RetreatStage(o)
	case ActionMoveToSizing:
		return MoveToSizing(o)
	case ActionNextStep:
		return NextStep(o)
	case ActionMarkPrinted:
		return MarkPrinted(o)
	case ActionSendToSew:
		return SendToSew(o)
	case ActionMarkSewn:
		return MarkSewn(o)
	case ActionComplete:
		return CompleteOrder(o)
	default:
		return o, &InvalidTransitionError{Action: action, Status: o.Status}
	}
}
