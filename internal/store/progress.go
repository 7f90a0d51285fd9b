package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo.
type progressRepo struct {
	drv *entsql.Driver
}

type progressRow struct {
	TranslationID  string `sql:"translation_id"`
	Concept        string `sql:"concept"`
	Language       string `sql:"language_code"`
	Text           string `sql:"text"`
	CorrectCount   int    `sql:"correct_count"`
	IncorrectCount int    `sql:"incorrect_count"`
	LastReviewed   int64  `sql:"last_reviewed"`
}

func (r *progressRepo) Progress(ctx context.Context, learnerID string, opts QueryOpts) ([]ProgressEntry, error) {
	p := entsql.Table(tableUserProgress)
	tr := entsql.Table(tableTranslations).As("tr")
	w := entsql.Table(tableWords).As("w")

	sel := entsql.Dialect(r.drv.Dialect()).Select().From(p)
	sel.Join(tr).On(p.C("translation_id"), tr.C("id")).
		Join(w).On(tr.C("word_id"), w.C("id"))
	sel.Select(
		p.C("translation_id"),
		w.C("concept"),
		tr.C("language_code"),
		tr.C("text"),
		p.C("correct_count"),
		p.C("incorrect_count"),
		p.C("last_reviewed"),
	)

	preds := []*entsql.Predicate{entsql.EQ(p.C("learner_id"), learnerID)}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(p.C("last_reviewed"), toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(p.C("last_reviewed"), toMillis(opts.To)))
	}
	sel.Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(p.C("last_reviewed")), w.C("concept"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []progressRow
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	out := make([]ProgressEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProgressEntry{
			TranslationID:  row.TranslationID,
			Concept:        row.Concept,
			Language:       row.Language,
			Text:           row.Text,
			CorrectCount:   row.CorrectCount,
			IncorrectCount: row.IncorrectCount,
			LastReviewed:   fromMillis(row.LastReviewed),
		})
	}
	return out, nil
}
