package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/wordiz/internal/vocab"
)

// catalogRepo implements CatalogRepo.
type catalogRepo struct {
	drv *entsql.Driver
}

type wordRow struct {
	ID         string `sql:"id"`
	Concept    string `sql:"concept"`
	DomainCode string `sql:"domain_code"`
	Difficulty string `sql:"difficulty"`
	WordType   string `sql:"word_type"`
}

type translationRow struct {
	ID           string `sql:"id"`
	WordID       string `sql:"word_id"`
	LanguageCode string `sql:"language_code"`
	Text         string `sql:"text"`
}

type pairRow struct {
	Concept    string `sql:"concept"`
	DomainCode string `sql:"domain_code"`
	Difficulty string `sql:"difficulty"`
	FromID     string `sql:"from_id"`
	FromText   string `sql:"from_text"`
	ToID       string `sql:"to_id"`
	ToText     string `sql:"to_text"`
}

func (r *catalogRepo) UpsertLanguage(ctx context.Context, l vocab.Language) error {
	if err := upsertLanguage(ctx, r.drv, r.drv.Dialect(), l); err != nil {
		return fmt.Errorf("upsert language %q: %w", l.Code, err)
	}
	return nil
}

func (r *catalogRepo) UpsertDomain(ctx context.Context, d vocab.Domain) error {
	if err := upsertDomain(ctx, r.drv, r.drv.Dialect(), d); err != nil {
		return fmt.Errorf("upsert domain %q: %w", d.Code, err)
	}
	return nil
}

func upsertLanguage(ctx context.Context, eq dialect.ExecQuerier, dia string, l vocab.Language) error {
	_, err := execute(ctx, eq, entsql.Dialect(dia).
		Insert(tableLanguages).
		Columns("code", "name").
		Values(l.Code, l.Name).
		OnConflict(entsql.ConflictColumns("code"), entsql.ResolveWithNewValues()))
	return err
}

func upsertDomain(ctx context.Context, eq dialect.ExecQuerier, dia string, d vocab.Domain) error {
	_, err := execute(ctx, eq, entsql.Dialect(dia).
		Insert(tableDomains).
		Columns("code", "name").
		Values(d.Code, d.Name).
		OnConflict(entsql.ConflictColumns("code"), entsql.ResolveWithNewValues()))
	return err
}

func (r *catalogRepo) ImportWords(ctx context.Context, wl *vocab.WordList) (ImportStats, error) {
	var stats ImportStats
	dia := r.drv.Dialect()

	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		for _, l := range wl.Languages {
			if err := upsertLanguage(ctx, tx, dia, l); err != nil {
				return fmt.Errorf("upsert language %q: %w", l.Code, err)
			}
			stats.Languages++
		}
		for _, d := range wl.Domains {
			if err := upsertDomain(ctx, tx, dia, d); err != nil {
				return fmt.Errorf("upsert domain %q: %w", d.Code, err)
			}
			stats.Domains++
		}

		for _, w := range wl.Words {
			_, err := execute(ctx, tx, entsql.Dialect(dia).
				Insert(tableWords).
				Columns("id", "concept", "domain_code", "difficulty", "word_type").
				Values(uuid.NewString(), w.Concept, w.Domain, string(w.Difficulty), string(w.Type)).
				OnConflict(
					entsql.ConflictColumns("concept"),
					entsql.ResolveWith(func(u *entsql.UpdateSet) {
						u.SetExcluded("domain_code")
						u.SetExcluded("difficulty")
						u.SetExcluded("word_type")
					}),
				))
			if err != nil {
				return fmt.Errorf("upsert word %q: %w", w.Concept, err)
			}

			var ids []string
			t := entsql.Table(tableWords)
			sel := entsql.Dialect(dia).Select().From(t)
			sel.Select(t.C("id")).Where(entsql.EQ(t.C("concept"), w.Concept))
			if err := scanAll(ctx, tx, sel, &ids); err != nil {
				return fmt.Errorf("lookup word %q: %w", w.Concept, err)
			}
			if len(ids) != 1 {
				return fmt.Errorf("lookup word %q: %w", w.Concept, ErrNotFound)
			}
			stats.Words++

			for _, tr := range w.Translations {
				_, err := execute(ctx, tx, entsql.Dialect(dia).
					Insert(tableTranslations).
					Columns("id", "word_id", "language_code", "text").
					Values(uuid.NewString(), ids[0], tr.Language, tr.Text).
					OnConflict(
						entsql.ConflictColumns("word_id", "language_code"),
						entsql.ResolveWith(func(u *entsql.UpdateSet) {
							u.SetExcluded("text")
						}),
					))
				if err != nil {
					return fmt.Errorf("upsert translation %q/%q: %w", w.Concept, tr.Language, err)
				}
				stats.Translations++
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("import words: %w", err)
	}
	return stats, nil
}

func (r *catalogRepo) Languages(ctx context.Context) ([]vocab.Language, error) {
	t := entsql.Table(tableLanguages)
	sel := entsql.Dialect(r.drv.Dialect()).Select().From(t)
	sel.Select(t.C("code"), t.C("name")).OrderBy(t.C("code"))

	var out []vocab.Language
	if err := scanAll(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("query languages: %w", err)
	}
	return out, nil
}

func (r *catalogRepo) Domains(ctx context.Context) ([]vocab.Domain, error) {
	t := entsql.Table(tableDomains)
	sel := entsql.Dialect(r.drv.Dialect()).Select().From(t)
	sel.Select(t.C("code"), t.C("name")).OrderBy(t.C("code"))

	var out []vocab.Domain
	if err := scanAll(ctx, r.drv, sel, &out); err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	return out, nil
}

func (r *catalogRepo) Words(ctx context.Context, domain string) ([]vocab.Word, error) {
	dia := r.drv.Dialect()

	w := entsql.Table(tableWords)
	sel := entsql.Dialect(dia).Select().From(w)
	sel.Select(w.C("id"), w.C("concept"), w.C("domain_code"), w.C("difficulty"), w.C("word_type")).
		OrderBy(w.C("domain_code"), w.C("concept"))
	if domain != "" && domain != vocab.AllDomains {
		sel.Where(entsql.EQ(w.C("domain_code"), domain))
	}

	var words []wordRow
	if err := scanAll(ctx, r.drv, sel, &words); err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	if len(words) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(words))
	for _, row := range words {
		ids = append(ids, row.ID)
	}
	t := entsql.Table(tableTranslations)
	tsel := entsql.Dialect(dia).Select().From(t)
	tsel.Select(t.C("id"), t.C("word_id"), t.C("language_code"), t.C("text")).
		Where(entsql.In(t.C("word_id"), ids...)).
		OrderBy(t.C("language_code"))

	var trs []translationRow
	if err := scanAll(ctx, r.drv, tsel, &trs); err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	byWord := make(map[string][]vocab.Translation, len(words))
	for _, tr := range trs {
		byWord[tr.WordID] = append(byWord[tr.WordID], vocab.Translation{Language: tr.LanguageCode, Text: tr.Text})
	}

	out := make([]vocab.Word, 0, len(words))
	for _, row := range words {
		out = append(out, vocab.Word{
			Concept:      row.Concept,
			Domain:       row.DomainCode,
			Difficulty:   vocab.Difficulty(row.Difficulty),
			Type:         vocab.WordType(row.WordType),
			Translations: byWord[row.ID],
		})
	}
	return out, nil
}

func (r *catalogRepo) CandidatePairs(ctx context.Context, q PairQuery) ([]vocab.Pair, error) {
	w := entsql.Table(tableWords)
	from := entsql.Table(tableTranslations).As("tf")
	to := entsql.Table(tableTranslations).As("tt")

	sel := entsql.Dialect(r.drv.Dialect()).Select().From(w)
	sel.Join(from).On(w.C("id"), from.C("word_id")).
		Join(to).On(w.C("id"), to.C("word_id"))
	sel.Select(
		w.C("concept"),
		w.C("domain_code"),
		w.C("difficulty"),
		entsql.As(from.C("id"), "from_id"),
		entsql.As(from.C("text"), "from_text"),
		entsql.As(to.C("id"), "to_id"),
		entsql.As(to.C("text"), "to_text"),
	)

	preds := []*entsql.Predicate{
		entsql.EQ(from.C("language_code"), q.From),
		entsql.EQ(to.C("language_code"), q.To),
	}
	if q.Domain != "" && q.Domain != vocab.AllDomains {
		preds = append(preds, entsql.EQ(w.C("domain_code"), q.Domain))
	}
	if q.Difficulty != "" {
		levels := make([]any, 0, 3)
		for _, d := range q.Difficulty.Includes() {
			levels = append(levels, string(d))
		}
		preds = append(preds, entsql.In(w.C("difficulty"), levels...))
	}
	sel.Where(entsql.And(preds...)).OrderBy(w.C("concept"))

	var rows []pairRow
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query candidate pairs: %w", err)
	}

	out := make([]vocab.Pair, 0, len(rows))
	for _, row := range rows {
		out = append(out, vocab.Pair{
			Concept:    row.Concept,
			Domain:     row.DomainCode,
			Difficulty: vocab.Difficulty(row.Difficulty),
			FromID:     row.FromID,
			ToID:       row.ToID,
			From:       row.FromText,
			To:         row.ToText,
		})
	}
	return out, nil
}

func (r *catalogRepo) CountWords(ctx context.Context) (int, error) {
	t := entsql.Table(tableWords)
	sel := entsql.Dialect(r.drv.Dialect()).Select().From(t)
	sel.Select(entsql.Count("*"))

	n, err := scanInt(ctx, r.drv, sel)
	if err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}
