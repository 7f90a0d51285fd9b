package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screens/screentest"
	"github.com/abhisek/wordiz/internal/vocab"
)

func ptr[T any](v T) *T { return &v }

func testService() *screentest.Service {
	svc := screentest.NewService()
	created := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)
	svc.Sessions = []provision.SessionInfo{
		{ID: "a", NativeLanguage: "en", LanguageTested: "es", Domain: "ANIMALS", Difficulty: vocab.Easy, CreatedAt: created, Score: ptr(80)},
		{ID: "b", NativeLanguage: "en", LanguageTested: "fr", Difficulty: vocab.Hard, CreatedAt: created},
	}
	svc.Details["a"] = &provision.SessionDetail{
		SessionInfo: svc.Sessions[0],
		Words: []provision.WordInfo{
			{ID: "1", Prompt: "perro", ExpectedAnswer: "dog", Correct: ptr(true)},
			{ID: "2", Prompt: "gato", ExpectedAnswer: "cat", Correct: ptr(false)},
		},
	}
	return svc
}

func loaded(t *testing.T, svc *screentest.Service) *HistoryScreen {
	t.Helper()
	s := New(svc)
	scr, _ := s.Update(s.Init()())
	return scr.(*HistoryScreen)
}

func TestHistoryScreen_Loading(t *testing.T) {
	s := New(testService())
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading message before data arrives")
	}
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	s := loaded(t, testService())
	view := s.View(100, 24)
	for _, want := range []string{"Mar 04, 2026", "EN → ES", "ANIMALS", "80%", "EN → FR", "ALL", "in progress"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, screentest.NewService())
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty-state message")
	}
	if _, cmd := s.Update(screentest.Special(tea.KeyEnter)); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := New(testService())
	scr, _ := s.Update(historyLoadedMsg{Err: errors.New("boom")})
	if !strings.Contains(scr.View(80, 24), "Error: boom") {
		t.Error("expected error message")
	}
}

func TestHistoryScreen_ExpandLoadsDetail(t *testing.T) {
	s := loaded(t, testService())

	scr, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a detail load")
	}
	if !strings.Contains(scr.View(100, 24), "Loading words") {
		t.Error("expected placeholder while words load")
	}

	scr, _ = scr.Update(cmd())
	view := scr.View(100, 24)
	if !strings.Contains(view, "✓ perro → dog") || !strings.Contains(view, "✗ gato → cat") {
		t.Errorf("expected word details, got:\n%s", view)
	}

	// Collapse and expand again without reloading.
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	_, cmd = scr.Update(screentest.Special(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected cached details to be reused")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := loaded(t, testService())

	scr, _ := s.Update(screentest.Special(tea.KeyDown))
	scr, _ = scr.Update(screentest.Special(tea.KeyDown))
	if got := scr.(*HistoryScreen).selected; got != 1 {
		t.Errorf("selected = %d, want 1", got)
	}
	scr, _ = scr.Update(screentest.Key('k'))
	if got := scr.(*HistoryScreen).selected; got != 0 {
		t.Errorf("selected = %d, want 0", got)
	}

	_, cmd := scr.Update(screentest.Special(tea.KeyEscape))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected Esc to pop")
	}
}
