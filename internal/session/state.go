package session

// Phase is the lifecycle phase of the engine.
type Phase int

const (
	PhaseUninitialized Phase = iota // No session loaded
	PhaseActive                     // Items remain in the queue
	PhaseComplete                   // Every item retired
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "uninitialized"
	}
}

// queue holds the items awaiting presentation. Items before cursor are
// retired; the item at cursor is due next.
type queue struct {
	items  []Item
	cursor int
}

func (q *queue) current() *Item {
	if q.cursor >= len(q.items) {
		return nil
	}
	return &q.items[q.cursor]
}

// retire moves the cursor past the current item.
func (q *queue) retire() {
	q.cursor++
}

// requeue moves the current item behind every other item in the queue.
func (q *queue) requeue() {
	it := q.items[q.cursor]
	copy(q.items[q.cursor:], q.items[q.cursor+1:])
	q.items[len(q.items)-1] = it
}

func (q *queue) done() bool {
	return q.cursor == len(q.items)
}

// ledger keeps one AnswerRecord per item id in first-encounter order.
type ledger struct {
	order   []string
	records map[string]*AnswerRecord
}

func newLedger(capacity int) ledger {
	return ledger{
		order:   make([]string, 0, capacity),
		records: make(map[string]*AnswerRecord, capacity),
	}
}

func (l *ledger) get(id string) *AnswerRecord {
	return l.records[id]
}

func (l *ledger) add(rec *AnswerRecord) {
	l.order = append(l.order, rec.ItemID)
	l.records[rec.ItemID] = rec
}

func (l *ledger) len() int {
	return len(l.order)
}

// snapshot returns copies of all records in first-encounter order.
func (l *ledger) snapshot() []AnswerRecord {
	out := make([]AnswerRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.records[id])
	}
	return out
}

// state is the engine's state for one active session.
type state struct {
	sessionID string
	queue     queue
	ledger    ledger
}
