package session

import (
	"fmt"
	"strings"
)

// Engine drills a fixed list of quiz items until every item has been
// answered correctly once. Wrong answers and skips send an item to the back
// of the queue; only a correct answer retires it.
//
// An Engine is not safe for concurrent use. Callers that receive events on
// several goroutines must serialize calls.
type Engine struct {
	state *state
}

// NewEngine returns an engine with no active session.
func NewEngine() *Engine {
	return &Engine{}
}

// Initialize replaces any existing session with a new one over items.
// The first item becomes current. Items must be non-empty and each must
// carry a unique ID and a non-blank expected answer.
func (e *Engine) Initialize(sessionID string, items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: session %q has no items", ErrMalformedSession, sessionID)
	}

	queued := make([]Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrMalformedSession, i)
		}
		if strings.TrimSpace(it.ExpectedAnswer) == "" {
			return fmt.Errorf("%w: item %q has no expected answer", ErrMalformedSession, it.ID)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate item id %q", ErrMalformedSession, it.ID)
		}
		seen[it.ID] = true

		it = it.clone()
		it.Attempts = 0
		it.Skipped = false
		queued = append(queued, it)
	}

	e.state = &state{
		sessionID: sessionID,
		queue:     queue{items: queued},
		ledger:    newLedger(len(queued)),
	}
	return nil
}

// SessionID returns the active session's id, or "" when none is loaded.
func (e *Engine) SessionID() string {
	if e.state == nil {
		return ""
	}
	return e.state.sessionID
}

// Phase returns the engine's lifecycle phase.
func (e *Engine) Phase() Phase {
	switch {
	case e.state == nil:
		return PhaseUninitialized
	case e.state.queue.done():
		return PhaseComplete
	default:
		return PhaseActive
	}
}

// CurrentItem returns a copy of the item due for presentation. The second
// result is false when no session is active or the session is complete.
func (e *Engine) CurrentItem() (Item, bool) {
	if e.state == nil {
		return Item{}, false
	}
	cur := e.state.queue.current()
	if cur == nil {
		return Item{}, false
	}
	return cur.clone(), true
}

// SubmitAnswer checks raw against the current item. A match retires the
// item; a miss moves it to the back of the queue. Only the first submission
// decides the item's ledger correctness.
func (e *Engine) SubmitAnswer(raw string) (Outcome, error) {
	if e.state == nil {
		return Outcome{}, ErrNoCurrentItem
	}
	cur := e.state.queue.current()
	if cur == nil {
		return Outcome{}, ErrNoCurrentItem
	}

	match := Matches(raw, cur.ExpectedAnswer)
	cur.Attempts++

	out := Outcome{
		ItemID:   cur.ID,
		Expected: cur.ExpectedAnswer,
		Correct:  match,
	}

	rec := e.state.ledger.get(cur.ID)
	if rec == nil {
		out.FirstAttempt = true
		e.state.ledger.add(&AnswerRecord{
			ItemID:     cur.ID,
			Correct:    match,
			Attempts:   1,
			LastAnswer: raw,
			Answered:   true,
		})
	} else {
		rec.Attempts++
		rec.LastAnswer = raw
		rec.Answered = true
	}

	if match {
		e.state.queue.retire()
		out.Retired = true
	} else {
		e.state.queue.requeue()
	}
	return out, nil
}

// SkipWord defers the current item to the back of the queue. A skipped item
// must still be answered before the session completes, but it can no longer
// count as a first-try success.
func (e *Engine) SkipWord() error {
	if e.state == nil {
		return ErrNoCurrentItem
	}
	cur := e.state.queue.current()
	if cur == nil {
		return ErrNoCurrentItem
	}

	cur.Skipped = true
	cur.Attempts++

	if rec := e.state.ledger.get(cur.ID); rec != nil {
		rec.Skipped = true
		rec.Attempts++
	} else {
		e.state.ledger.add(&AnswerRecord{
			ItemID:   cur.ID,
			Attempts: 1,
			Skipped:  true,
		})
	}

	e.state.queue.requeue()
	return nil
}

// IsComplete reports whether every item has been retired.
func (e *Engine) IsComplete() bool {
	return e.state != nil && e.state.queue.done()
}

// Progress reports retired and remaining item counts.
func (e *Engine) Progress() Progress {
	if e.state == nil {
		return Progress{}
	}
	q := e.state.queue
	return Progress{
		Total:     len(q.items),
		Retired:   q.cursor,
		Remaining: len(q.items) - q.cursor,
	}
}

// Ledger returns copies of the answer records in first-encounter order.
func (e *Engine) Ledger() []AnswerRecord {
	if e.state == nil {
		return nil
	}
	return e.state.ledger.snapshot()
}

// Summary scores a completed session.
func (e *Engine) Summary() (*Summary, error) {
	if !e.IsComplete() {
		return nil, ErrIncompleteSession
	}
	return buildSummary(e.state.sessionID, e.state.ledger.snapshot()), nil
}

// Reset discards the active session, if any.
func (e *Engine) Reset() {
	e.state = nil
}
