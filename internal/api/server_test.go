package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordiz/internal/auth"
	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

func newTestServer(t *testing.T, iss *auth.Issuer) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	st, err := store.Open(store.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	wl, err := vocab.Seed()
	require.NoError(t, err)
	_, err = st.CatalogRepo().ImportWords(context.Background(), wl)
	require.NoError(t, err)

	svc := provision.NewLocal(st.CatalogRepo(), st.SessionRepo(),
		provision.WithRand(rand.New(rand.NewPCG(7, 7))),
		provision.WithProgress(st.ProgressRepo()))
	srv := httptest.NewServer(New(svc, Options{
		Issuer: iss,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConfigEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	var diffs []difficultyInfo
	resp, err := http.Get(srv.URL + "/api/v1/config/difficulties")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&diffs))
	require.Len(t, diffs, 3)
	assert.Equal(t, 20, diffs[2].WordCount)

	c := provision.NewClient(srv.URL, "", nil)
	langs, err := c.Languages(context.Background())
	require.NoError(t, err)
	assert.Len(t, langs, 5)

	domains, err := c.Domains(context.Background())
	require.NoError(t, err)
	assert.Len(t, domains, 5)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	c := provision.NewClient(srv.URL, "", nil)
	ctx := context.Background()

	p, err := c.Start(ctx, provision.Config{NativeLanguage: "en", LanguageTested: "es", Domain: "FOOD", Difficulty: vocab.Easy})
	require.NoError(t, err)
	require.Len(t, p.Items, 7)

	eng := session.NewEngine()
	require.NoError(t, eng.Initialize(p.SessionID, p.SessionItems()))
	for !eng.IsComplete() {
		it, _ := eng.CurrentItem()
		_, err := eng.SubmitAnswer(it.ExpectedAnswer)
		require.NoError(t, err)
	}
	sum, err := eng.Summary()
	require.NoError(t, err)

	r, err := c.Submit(ctx, p.SessionID, sum.Results())
	require.NoError(t, err)
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 7, r.Total)

	_, err = c.Submit(ctx, p.SessionID, sum.Results())
	assert.ErrorIs(t, err, provision.ErrAlreadySubmitted)

	d, err := c.Session(ctx, p.SessionID)
	require.NoError(t, err)
	require.NotNil(t, d.Score)
	assert.Equal(t, 100, *d.Score)
	assert.Len(t, d.Words, 7)

	h, err := c.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, p.SessionID, h[0].ID)
}

func TestStartErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	c := provision.NewClient(srv.URL, "", nil)

	_, err := c.Start(context.Background(), provision.Config{NativeLanguage: "en", LanguageTested: "en"})
	assert.ErrorIs(t, err, provision.ErrInvalidConfig)

	_, err = c.Start(context.Background(), provision.Config{NativeLanguage: "en", LanguageTested: "xx"})
	assert.ErrorIs(t, err, provision.ErrNoWords)

	_, err = c.Session(context.Background(), "missing")
	assert.ErrorIs(t, err, provision.ErrNotFound)
}

func TestSubmitStatusCodes(t *testing.T) {
	srv := newTestServer(t, nil)
	c := provision.NewClient(srv.URL, "", nil)
	p, err := c.Start(context.Background(), provision.Config{NativeLanguage: "en", LanguageTested: "fr"})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/api/v1/sessions/"+p.SessionID+"/submit", "", []session.Result{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/v1/sessions/missing/submit", "", []session.Result{{ItemID: "x"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/sessions/start", bytes.NewBufferString("{"))
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestSavedConfig(t *testing.T) {
	srv := newTestServer(t, nil)
	c := provision.NewClient(srv.URL, "", nil)
	ctx := context.Background()

	cfg, err := c.SaveConfig(ctx, provision.Config{NativeLanguage: "en", LanguageTested: "de", Difficulty: vocab.Medium})
	require.NoError(t, err)
	require.NotEmpty(t, cfg.ConfigID)

	p, err := c.Start(ctx, provision.Config{ConfigID: cfg.ConfigID})
	require.NoError(t, err)
	assert.Len(t, p.Items, 15)
}

func TestOwnershipWithTokens(t *testing.T) {
	iss := auth.NewIssuer("s3cret", 0)
	srv := newTestServer(t, iss)
	ctx := context.Background()

	anaTok, err := iss.Issue("ana")
	require.NoError(t, err)
	benTok, err := iss.Issue("ben")
	require.NoError(t, err)

	ana := provision.NewClient(srv.URL, anaTok, nil)
	ben := provision.NewClient(srv.URL, benTok, nil)
	anon := provision.NewClient(srv.URL, "", nil)

	_, err = anon.Start(ctx, provision.Config{NativeLanguage: "en", LanguageTested: "es"})
	assert.ErrorIs(t, err, provision.ErrUnauthorized)

	p, err := ana.Start(ctx, provision.Config{NativeLanguage: "en", LanguageTested: "es"})
	require.NoError(t, err)

	_, err = ben.Session(ctx, p.SessionID)
	assert.ErrorIs(t, err, provision.ErrForbidden)

	_, err = ben.Submit(ctx, p.SessionID, []session.Result{{ItemID: p.Items[0].ID, Correct: true}})
	assert.ErrorIs(t, err, provision.ErrForbidden)

	h, err := ben.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, h)

	// Catalog endpoints stay public.
	_, err = anon.Languages(ctx)
	assert.NoError(t, err)
}

func TestStatsOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	c := provision.NewClient(srv.URL, "", nil)
	ctx := context.Background()

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.WordsReviewed)
	assert.Empty(t, st.Weakest)

	p, err := c.Start(ctx, provision.Config{NativeLanguage: "en", LanguageTested: "es", Domain: "FOOD", Difficulty: vocab.Easy})
	require.NoError(t, err)
	require.Len(t, p.Items, 7)

	results := make([]session.Result, len(p.Items))
	for i, it := range p.Items {
		results[i] = session.Result{ItemID: it.ID, Correct: i != 0, Answer: it.ExpectedAnswer}
	}
	_, err = c.Submit(ctx, p.SessionID, results)
	require.NoError(t, err)

	st, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, st.WordsReviewed)
	assert.Equal(t, 7, st.Attempts)
	assert.Equal(t, 6, st.Correct)
	assert.Equal(t, 86, st.CorrectRate)
	require.Len(t, st.Weakest, 1)
	assert.Equal(t, "es", st.Weakest[0].Language)
	assert.Equal(t, 1, st.Weakest[0].Incorrect)
}

func TestCORSOrigins(t *testing.T) {
	get := func(t *testing.T, origins []string, origin string) *http.Response {
		t.Helper()
		srv := httptest.NewServer(New(nil, Options{
			CORSOrigins: origins,
			Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		}))
		t.Cleanup(srv.Close)
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("none configured", func(t *testing.T) {
		resp := get(t, nil, "http://evil.test")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin", func(t *testing.T) {
		resp := get(t, []string{"http://app.test"}, "http://app.test")
		assert.Equal(t, "http://app.test", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		resp := get(t, []string{"http://app.test"}, "http://evil.test")
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
