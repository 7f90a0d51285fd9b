package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Table names.
const (
	tableLanguages      = "languages"
	tableDomains        = "domains"
	tableWords          = "words"
	tableTranslations   = "translations"
	tableSessionConfigs = "session_configs"
	tableSessions       = "sessions"
	tableSessionWords   = "session_words"
	tableUserProgress   = "user_progress"
	tableLLMEvents      = "llm_request_events"
	tableSequence       = "global_sequence"
)

// sharedDDL is valid on both SQLite and Postgres.
var sharedDDL = []string{
	`CREATE TABLE IF NOT EXISTS languages (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS domains (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id TEXT PRIMARY KEY,
		concept TEXT NOT NULL UNIQUE,
		domain_code TEXT NOT NULL REFERENCES domains(code),
		difficulty TEXT NOT NULL,
		word_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS translations (
		id TEXT PRIMARY KEY,
		word_id TEXT NOT NULL REFERENCES words(id) ON DELETE CASCADE,
		language_code TEXT NOT NULL REFERENCES languages(code),
		text TEXT NOT NULL,
		UNIQUE (word_id, language_code)
	)`,
	`CREATE TABLE IF NOT EXISTS session_configs (
		id TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		native_language TEXT NOT NULL,
		language_tested TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		session_type TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		config_id TEXT NOT NULL DEFAULT '',
		learner_id TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL,
		session_type TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		completed_at BIGINT,
		score INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_learner_created ON sessions (learner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS session_words (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		concept TEXT NOT NULL,
		translation_from_id TEXT NOT NULL,
		translation_to_id TEXT NOT NULL,
		from_language TEXT NOT NULL,
		to_language TEXT NOT NULL,
		prompt TEXT NOT NULL,
		expected_answer TEXT NOT NULL,
		prompt_language TEXT NOT NULL,
		answer_language TEXT NOT NULL,
		correct BOOLEAN,
		user_answer TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS session_words_session ON session_words (session_id, position)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		learner_id TEXT NOT NULL,
		translation_id TEXT NOT NULL,
		correct_count INTEGER NOT NULL DEFAULT 0,
		incorrect_count INTEGER NOT NULL DEFAULT 0,
		last_reviewed BIGINT NOT NULL,
		PRIMARY KEY (learner_id, translation_id)
	)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`,
	`INSERT INTO global_sequence (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`,
}

// eventDDL differs only in how the surrogate key is generated.
var eventDDL = map[string]string{
	dialect.SQLite: `CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence BIGINT NOT NULL UNIQUE,
		occurred_at BIGINT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms BIGINT NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	dialect.Postgres: `CREATE TABLE IF NOT EXISTS llm_request_events (
		id BIGSERIAL PRIMARY KEY,
		sequence BIGINT NOT NULL UNIQUE,
		occurred_at BIGINT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms BIGINT NOT NULL,
		success BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

// migrate creates any missing tables and indexes.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	stmts := append([]string{}, sharedDDL...)
	ev, ok := eventDDL[drv.Dialect()]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", drv.Dialect())
	}
	stmts = append(stmts, ev)

	for _, stmt := range stmts {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}

// querier is satisfied by every ent SQL builder.
type querier interface {
	Query() (string, []any)
}

// execute runs a non-row-returning statement and reports affected rows.
func execute(ctx context.Context, eq dialect.ExecQuerier, b querier) (int64, error) {
	q, args := b.Query()
	var res entsql.Result
	if err := eq.Exec(ctx, q, args, &res); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// scanAll runs a select and scans every row into dest, a pointer to a
// slice. Rows are closed before returning so the connection is free for
// the next statement.
func scanAll(ctx context.Context, eq dialect.ExecQuerier, sel querier, dest any) error {
	q, args := sel.Query()
	var rows entsql.Rows
	if err := eq.Query(ctx, q, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dest)
}

// scanInt runs a single-value select such as COUNT(*).
func scanInt(ctx context.Context, eq dialect.ExecQuerier, sel querier) (int, error) {
	q, args := sel.Query()
	var rows entsql.Rows
	if err := eq.Query(ctx, q, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}
