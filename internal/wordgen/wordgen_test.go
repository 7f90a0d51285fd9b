package wordgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/wordiz/internal/llm"
	"github.com/abhisek/wordiz/internal/vocab"
)

func testRequest() Request {
	return Request{
		Domain:     vocab.Domain{Code: "ANIMALS", Name: "Animals"},
		Difficulty: vocab.Easy,
		Languages: []vocab.Language{
			{Code: "en", Name: "English"},
			{Code: "es", Name: "Spanish"},
		},
		Count:   3,
		Exclude: []string{"dog"},
	}
}

func animalsJSON() json.RawMessage {
	return json.RawMessage(`{"words": [
		{"concept": "Cat", "word_type": "NOUN", "translations": [
			{"language": "en", "text": "cat"}, {"language": "es", "text": "gato"}]},
		{"concept": "dog", "word_type": "NOUN", "translations": [
			{"language": "en", "text": "dog"}, {"language": "es", "text": "perro"}]},
		{"concept": "guinea pig", "word_type": "NOUN", "translations": [
			{"language": "es", "text": " cobaya "}, {"language": "EN", "text": "guinea pig"}]},
		{"concept": "cat", "word_type": "NOUN", "translations": [
			{"language": "en", "text": "cat"}, {"language": "es", "text": "gata"}]}
	]}`)
}

func TestGenerate_AssemblesWordList(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: animalsJSON()})
	gen := New(mock, DefaultConfig())

	wl, err := gen.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(wl.Words) != 2 {
		t.Fatalf("expected 2 words (dog excluded, duplicate cat dropped), got %d", len(wl.Words))
	}
	cat, pig := wl.Words[0], wl.Words[1]
	if cat.Concept != "cat" || pig.Concept != "guinea_pig" {
		t.Fatalf("unexpected concepts %q, %q", cat.Concept, pig.Concept)
	}
	if es, _ := cat.Text("es"); es != "gato" {
		t.Errorf("expected first cat translation to win, got %q", es)
	}
	if es, _ := pig.Text("es"); es != "cobaya" {
		t.Errorf("expected trimmed translation, got %q", es)
	}
	for _, w := range wl.Words {
		if w.Domain != "ANIMALS" || w.Difficulty != vocab.Easy || w.Type != vocab.Noun {
			t.Errorf("word %q: unexpected metadata %+v", w.Concept, w)
		}
		if len(w.Translations) != 2 || w.Translations[0].Language != "en" {
			t.Errorf("word %q: translations not in request order: %+v", w.Concept, w.Translations)
		}
	}
	if len(wl.Domains) != 1 || wl.Domains[0].Code != "ANIMALS" || len(wl.Languages) != 2 {
		t.Fatalf("expected request domain and languages, got %+v %+v", wl.Domains, wl.Languages)
	}
}

func TestGenerate_PromptAndPurpose(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: animalsJSON()})
	gen := New(mock, DefaultConfig())

	if _, err := gen.Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	call := mock.Calls[0]
	if call.Schema != WordListSchema {
		t.Error("expected word list schema on the request")
	}
	if call.MaxTokens != DefaultConfig().MaxTokens {
		t.Errorf("expected default max tokens, got %d", call.MaxTokens)
	}
	msg := call.Messages[0].Content
	for _, want := range []string{"Topic: Animals (ANIMALS)", "Difficulty: EASY", "Number of words: 3", "- es: Spanish", "dog"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerate_StopsAtCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: animalsJSON()})
	gen := New(mock, DefaultConfig())

	req := testRequest()
	req.Count = 1
	wl, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wl.Words) != 1 || wl.Words[0].Concept != "cat" {
		t.Fatalf("expected only cat, got %+v", wl.Words)
	}
}

func TestGenerate_MissingLanguage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"words": [
		{"concept": "cat", "word_type": "NOUN", "translations": [{"language": "en", "text": "cat"}]}
	]}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testRequest())
	if !errors.Is(err, ErrInvalidList) {
		t.Fatalf("expected ErrInvalidList, got %v", err)
	}
	if !strings.Contains(err.Error(), "Spanish") {
		t.Errorf("expected the missing language to be named, got %v", err)
	}
}

func TestGenerate_NothingNew(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"words": [
		{"concept": "dog", "word_type": "NOUN", "translations": [
			{"language": "en", "text": "dog"}, {"language": "es", "text": "perro"}]}
	]}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testRequest())
	if !errors.Is(err, ErrInvalidList) {
		t.Fatalf("expected ErrInvalidList, got %v", err)
	}
}

func TestGenerate_SchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"words": [{"concept": "cat"}]}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testRequest())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testRequest())
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestGenerate_InvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"no domain", func(r *Request) { r.Domain = vocab.Domain{} }},
		{"bad difficulty", func(r *Request) { r.Difficulty = "EXPERT" }},
		{"one language", func(r *Request) { r.Languages = r.Languages[:1] }},
		{"duplicate language", func(r *Request) { r.Languages[1] = vocab.Language{Code: "EN"} }},
		{"zero count", func(r *Request) { r.Count = 0 }},
		{"count too large", func(r *Request) { r.Count = MaxCount + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			gen := New(mock, DefaultConfig())

			req := testRequest()
			tt.mutate(&req)
			_, err := gen.Generate(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if mock.CallCount() != 0 {
				t.Fatal("provider must not be called for invalid requests")
			}
		})
	}
}

func TestNormalizeConcept(t *testing.T) {
	tests := map[string]string{
		"Living Room":    "living_room",
		"  ice_cream ":   "ice_cream",
		"guinea   pig":   "guinea_pig",
		"":               "",
		"Already_Normal": "already_normal",
	}
	for in, want := range tests {
		if got := normalizeConcept(in); got != want {
			t.Errorf("normalizeConcept(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildExclude(t *testing.T) {
	if got := buildExclude(nil, 5); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
	if got := buildExclude([]string{"a", "b", "c"}, 2); got != "b, c" {
		t.Errorf("expected last two, got %q", got)
	}
}
