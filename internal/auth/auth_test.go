package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)

	tok, err := iss.Issue("ana")
	require.NoError(t, err)

	learner, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", learner)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewIssuer("one", 0).Issue("ana")
	require.NoError(t, err)

	_, err = NewIssuer("two", 0).Verify(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken), "err = %v", err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := NewIssuer("s3cret", time.Minute)
	base := time.Now()
	iss.now = func() time.Time { return base }

	tok, err := iss.Issue("ana")
	require.NoError(t, err)

	iss.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDisabledIssuer(t *testing.T) {
	iss := NewIssuer("", 0)
	assert.False(t, iss.Enabled())

	_, err := iss.Issue("ana")
	assert.Error(t, err)

	learner, err := iss.Verify("anything")
	require.NoError(t, err)
	assert.Equal(t, DefaultLearner, learner)
}

func TestLearnerFromDefaults(t *testing.T) {
	assert.Equal(t, DefaultLearner, LearnerFrom(context.Background()))
	assert.Equal(t, "ben", LearnerFrom(WithLearner(context.Background(), "ben")))
}

func TestMiddleware(t *testing.T) {
	iss := NewIssuer("s3cret", 0)
	tok, err := iss.Issue("ana")
	require.NoError(t, err)

	var seen string
	h := iss.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LearnerFrom(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		status int
		want   string
	}{
		{"valid", "Bearer " + tok, http.StatusOK, "ana"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + tok, http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	var seen string
	h := NewIssuer("", 0).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LearnerFrom(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultLearner, seen)
}
