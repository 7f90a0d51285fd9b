package setup

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screens/screentest"
	sessionscreen "github.com/abhisek/wordiz/internal/screens/session"
	"github.com/abhisek/wordiz/internal/vocab"
)

func loaded(t *testing.T, defaults provision.Config) *SetupScreen {
	t.Helper()
	s := New(screentest.NewService(), defaults)
	scr, _ := s.Update(s.Init()())
	ss := scr.(*SetupScreen)
	if ss.errMsg != "" {
		t.Fatalf("load error: %s", ss.errMsg)
	}
	return ss
}

func press(t *testing.T, s *SetupScreen, keys ...tea.KeyPressMsg) *SetupScreen {
	t.Helper()
	for _, k := range keys {
		scr, _ := s.Update(k)
		s = scr.(*SetupScreen)
	}
	return s
}

func TestSetupScreen_Defaults(t *testing.T) {
	s := loaded(t, provision.Config{})
	got := s.Config()
	want := provision.Config{
		NativeLanguage: "en",
		LanguageTested: "es",
		Difficulty:     vocab.Easy,
		SessionType:    vocab.Comprehension,
	}
	if got != want {
		t.Errorf("Config = %+v, want %+v", got, want)
	}
}

func TestSetupScreen_PresetDefaults(t *testing.T) {
	s := loaded(t, provision.Config{
		NativeLanguage: "es",
		LanguageTested: "fr",
		Difficulty:     "hard",
		Domain:         "food",
		SessionType:    vocab.Mixed,
	})
	got := s.Config()
	want := provision.Config{
		NativeLanguage: "es",
		LanguageTested: "fr",
		Difficulty:     vocab.Hard,
		Domain:         "FOOD",
		SessionType:    vocab.Mixed,
	}
	if got != want {
		t.Errorf("Config = %+v, want %+v", got, want)
	}
}

func TestSetupScreen_ChangeFields(t *testing.T) {
	s := loaded(t, provision.Config{})
	down := screentest.Special(tea.KeyDown)
	right := screentest.Special(tea.KeyRight)

	// tested: es → fr; difficulty: Easy → Medium; domain: All → Animals.
	s = press(t, s, down, right, down, right, down, right)
	got := s.Config()
	if got.LanguageTested != "fr" || got.Difficulty != vocab.Medium || got.Domain != "ANIMALS" {
		t.Errorf("Config = %+v", got)
	}

	// Left wraps around to the last session type.
	s = press(t, s, down, screentest.Special(tea.KeyLeft))
	if s.Config().SessionType != vocab.Mixed {
		t.Errorf("SessionType = %s, want MIXED", s.Config().SessionType)
	}
}

func TestSetupScreen_Start(t *testing.T) {
	s := loaded(t, provision.Config{})
	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected the session screen to replace setup")
	}
	if _, ok := msg.Screen.(*sessionscreen.SessionScreen); !ok {
		t.Errorf("replacement = %T", msg.Screen)
	}
}

func TestSetupScreen_SameLanguageRejected(t *testing.T) {
	s := loaded(t, provision.Config{NativeLanguage: "es", LanguageTested: "fr"})

	// Move the tested language back onto Spanish.
	s = press(t, s, screentest.Special(tea.KeyDown), screentest.Special(tea.KeyLeft))
	if s.Config().LanguageTested != "es" {
		t.Fatalf("tested = %s, want es", s.Config().LanguageTested)
	}

	scr, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no navigation for an invalid config")
	}
	if !strings.Contains(scr.View(100, 30), "must differ") {
		t.Error("expected a warning in the view")
	}
}

func TestSetupScreen_LoadError(t *testing.T) {
	s := New(screentest.NewService(), provision.Config{})
	scr, _ := s.Update(catalogLoadedMsg{Err: errors.New("offline")})
	if !strings.Contains(scr.View(80, 24), "offline") {
		t.Error("expected load error in the view")
	}
	if _, cmd := scr.Update(screentest.Special(tea.KeyEnter)); cmd != nil {
		t.Error("keys should be ignored after a load error")
	}
}

func TestSetupScreen_TooFewLanguages(t *testing.T) {
	s := New(screentest.NewService(), provision.Config{})
	scr, _ := s.Update(catalogLoadedMsg{Languages: []vocab.Language{{Code: "en", Name: "English"}}})
	if !strings.Contains(scr.View(100, 24), "at least two languages") {
		t.Error("expected catalog warning")
	}
}

func TestSetupScreen_View(t *testing.T) {
	s := loaded(t, provision.Config{})
	view := s.View(100, 30)
	for _, want := range []string{"I speak", "English", "Spanish", "All topics", "START"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
