package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence number stored in
// the global_sequence table. Events keep their own surrogate ids; the
// sequence is what orders them and what QueryOpts.After/Before filter on.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

func newSequenceCounter(drv *entsql.Driver) *sequenceCounter {
	return &sequenceCounter{drv: drv}
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	q := entsql.Dialect(sc.drv.Dialect()).
		Update(tableSequence).
		Set("next_val", entsql.Expr("next_val + 1")).
		Where(entsql.EQ("id", 1)).
		Returning("next_val")

	var next []int64
	if err := scanAll(ctx, sc.drv, q, &next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if len(next) != 1 {
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	return next[0] - 1, nil
}
