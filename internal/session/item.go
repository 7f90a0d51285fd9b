package session

// Item is a single quiz item in a practice session.
type Item struct {
	// ID is unique within a session.
	ID string

	// Prompt is the text shown to the learner.
	Prompt string

	// ExpectedAnswer is compared against the learner's answer after
	// normalization.
	ExpectedAnswer string

	// Attempts counts submissions and skips for this item.
	Attempts int

	// Skipped is set once the learner skips the item.
	Skipped bool

	// Meta carries descriptive fields from provisioning (source word,
	// language codes, domain). The engine never reads it.
	Meta map[string]string
}

// clone returns a copy of the item that shares no mutable state.
func (it Item) clone() Item {
	if it.Meta != nil {
		meta := make(map[string]string, len(it.Meta))
		for k, v := range it.Meta {
			meta[k] = v
		}
		it.Meta = meta
	}
	return it
}

// AnswerRecord is the ledger entry for one item's outcome.
type AnswerRecord struct {
	ItemID string

	// Correct is true only if the first submission matched. A later
	// successful retry never sets it.
	Correct bool

	// Attempts counts submissions and skips for the item.
	Attempts int

	// Skipped is permanent once set.
	Skipped bool

	// LastAnswer is the most recent raw answer. Answered is false when the
	// item was only ever skipped.
	LastAnswer string
	Answered   bool
}

// FirstTry reports whether the item was answered correctly on sight.
func (r AnswerRecord) FirstTry() bool {
	return r.Attempts == 1 && r.Correct && !r.Skipped
}

// Outcome describes the effect of a single SubmitAnswer call.
type Outcome struct {
	ItemID   string
	Expected string

	// Correct reports whether this submission matched.
	Correct bool

	// FirstAttempt is true when this was the item's first submission.
	FirstAttempt bool

	// Retired is true when the item left the rotation.
	Retired bool
}

// Progress reports how far a session has advanced.
type Progress struct {
	Total     int
	Retired   int
	Remaining int
}
