package session

// Summary is the final score of a completed session.
type Summary struct {
	SessionID string

	// SuccessfulFirstTry holds items answered correctly on the first
	// submission and never skipped.
	SuccessfulFirstTry []AnswerRecord

	// Unsuccessful holds every other item: wrong first, skipped, or
	// needing more than one attempt.
	Unsuccessful []AnswerRecord

	// SuccessRate is the first-try percentage, rounded half up.
	SuccessRate int

	TotalItems int

	// records keeps the full ledger order for Results.
	records []AnswerRecord
}

// Result is one entry of the payload sent to the result submission service.
type Result struct {
	ItemID  string `json:"item_id"`
	Correct bool   `json:"correct"`
	Answer  string `json:"answer,omitempty"`
}

func buildSummary(sessionID string, records []AnswerRecord) *Summary {
	s := &Summary{
		SessionID:  sessionID,
		TotalItems: len(records),
		records:    records,
	}
	for _, r := range records {
		if r.FirstTry() {
			s.SuccessfulFirstTry = append(s.SuccessfulFirstTry, r)
		} else {
			s.Unsuccessful = append(s.Unsuccessful, r)
		}
	}
	s.SuccessRate = Rate(len(s.SuccessfulFirstTry), s.TotalItems)
	return s
}

// Results returns the submission payload in ledger order. An item is
// reported correct only if it was a first-try success.
func (s *Summary) Results() []Result {
	out := make([]Result, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, Result{
			ItemID:  r.ItemID,
			Correct: r.FirstTry(),
			Answer:  r.LastAnswer,
		})
	}
	return out
}

// Rate returns round(100 * successful / total) with halves rounded up.
// A zero total yields 0.
func Rate(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*successful + total) / (2 * total)
}
