package provision

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/store"
)

// WeakestLimit is how many words Stats lists as weakest.
const WeakestLimit = 5

// ErrNoProgress is returned by Local.Stats when no progress repo was given.
var ErrNoProgress = errors.New("progress tracking not configured")

// Stats aggregates a learner's per-word progress.
type Stats struct {
	WordsReviewed int        `json:"words_reviewed"`
	Attempts      int        `json:"attempts"`
	Correct       int        `json:"correct"`
	CorrectRate   int        `json:"correct_rate"`
	// Weakest never includes words answered correctly every time, so it
	// can be shorter than WeakestLimit or empty.
	Weakest       []WeakWord `json:"weakest"`
}

// WeakWord is a word the learner has missed.
type WeakWord struct {
	Concept   string `json:"concept"`
	Language  string `json:"language"`
	Text      string `json:"text"`
	Incorrect int    `json:"incorrect"`
	Correct   int    `json:"correct"`
}

// BuildStats tallies entries. Weakest holds up to WeakestLimit words with
// at least one miss, most misses first. Words never missed are left out
// even when fewer than WeakestLimit words qualify.
func BuildStats(entries []store.ProgressEntry) Stats {
	st := Stats{WordsReviewed: len(entries), Weakest: []WeakWord{}}
	for _, e := range entries {
		st.Correct += e.CorrectCount
		st.Attempts += e.CorrectCount + e.IncorrectCount
	}
	st.CorrectRate = session.Rate(st.Correct, st.Attempts)

	missed := make([]store.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if e.IncorrectCount > 0 {
			missed = append(missed, e)
		}
	}
	sort.SliceStable(missed, func(i, j int) bool {
		return missed[i].IncorrectCount > missed[j].IncorrectCount
	})
	for i, e := range missed {
		if i == WeakestLimit {
			break
		}
		st.Weakest = append(st.Weakest, WeakWord{
			Concept:   e.Concept,
			Language:  e.Language,
			Text:      e.Text,
			Incorrect: e.IncorrectCount,
			Correct:   e.CorrectCount,
		})
	}
	return st
}

// WithProgress enables Stats.
func WithProgress(p store.ProgressRepo) LocalOption {
	return func(l *Local) { l.progress = p }
}

// Stats summarizes the context learner's progress.
func (l *Local) Stats(ctx context.Context) (*Stats, error) {
	if l.progress == nil {
		return nil, ErrNoProgress
	}
	entries, err := l.progress.Progress(ctx, auth.LearnerFrom(ctx), store.QueryOpts{})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	st := BuildStats(entries)
	return &st, nil
}
