package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordiz/internal/session"
)

func resultsFor(p *Provisioned, correct bool) []session.Result {
	out := make([]session.Result, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, session.Result{ItemID: it.ID, Correct: correct, Answer: it.ExpectedAnswer})
	}
	return out
}

func TestForLearnerScopesCalls(t *testing.T) {
	l := newTestLocal(t)
	ana := ForLearner(l, "ana")
	ben := ForLearner(l, "ben")
	ctx := context.Background()

	p, err := ana.Start(ctx, Config{NativeLanguage: "en", LanguageTested: "es"})
	require.NoError(t, err)

	_, err = ben.Submit(ctx, p.SessionID, nil)
	assert.ErrorIs(t, err, ErrEmptyResults)

	results := resultsFor(p, true)
	_, err = ben.Submit(ctx, p.SessionID, results)
	assert.ErrorIs(t, err, ErrForbidden)

	receipt, err := ana.Submit(ctx, p.SessionID, results)
	require.NoError(t, err)
	assert.Equal(t, 100, receipt.Score)

	anaHistory, err := ana.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, anaHistory, 1)

	benHistory, err := ben.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, benHistory)
}

func TestForLearnerEmptyIsIdentity(t *testing.T) {
	l := newTestLocal(t)
	assert.Same(t, Service(l), ForLearner(l, ""))
}
