package exam

import "context"

// ActionKind is one student action per request.
type ActionKind string

const (
	ActionAnswer ActionKind = "answer"
	ActionNext   ActionKind = "next"
	ActionPrev   ActionKind = "prev"
	ActionJump   ActionKind = "jump"
	ActionSubmit ActionKind = "submit"
)

// Action is one navigation request against the current attempt. Index is the
// question the form was rendered for; Answer, when non-empty, is recorded for
// that question before any cursor movement (the "select then click Next"
// pattern sends both in one request).
type Action struct {
	Kind   ActionKind
	Index  int
	Answer string
	JumpTo int
}

// Controller applies the navigation transition table to the session's
// attempt.
//
//	action        precondition   effect                        new cursor
//	answer(l)     -              record answer at Index        unchanged
//	next          i < N-1        record answer, cursor = i+1   i+1
//	next at N-1   -              record answer only            i
//	prev          i > 0          record answer, cursor = i-1   i-1
//	prev at 0     -              record answer only            i
//	jump(k)       0 <= k < N     record answer, cursor = k     k
//	jump(k) OOR   -              record answer only            i
//	submit        -              caller scores and destroys    terminal
//
// Out-of-bounds movement is ignored rather than rejected: double-clicks and
// stale form replays must re-render the current state, not error.
type Controller struct {
	store *AttemptStore
}

func NewController(store *AttemptStore) *Controller {
	return &Controller{store: store}
}

// Apply mutates the attempt per the transition table and persists it.
// It returns true when the action is a submit, which the caller hands to the
// scoring engine.
func (c *Controller) Apply(ctx context.Context, sid string, a *Attempt, act Action) (submit bool, err error) {
	// An answer included with any action is recorded for the departing
	// question first. Invalid labels and stale indexes are dropped silently.
	if act.Answer != "" && ValidLabel(act.Answer) && act.Index >= 0 && act.Index < a.Len() {
		if err := c.store.RecordAnswer(ctx, sid, a, act.Index, act.Answer); err != nil {
			return false, err
		}
	}

	switch act.Kind {
	case ActionAnswer:
		// Recorded above; cursor stays put.
	case ActionNext:
		if a.Cursor < a.Len()-1 {
			if err := c.store.SetCursor(ctx, sid, a, a.Cursor+1); err != nil {
				return false, err
			}
		}
	case ActionPrev:
		if a.Cursor > 0 {
			if err := c.store.SetCursor(ctx, sid, a, a.Cursor-1); err != nil {
				return false, err
			}
		}
	case ActionJump:
		if act.JumpTo >= 0 && act.JumpTo < a.Len() {
			if err := c.store.SetCursor(ctx, sid, a, act.JumpTo); err != nil {
				return false, err
			}
		}
	case ActionSubmit:
		return true, nil
	}
	return false, nil
}
