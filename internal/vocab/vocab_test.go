package vocab

import (
	"strings"
	"testing"
)

func TestDifficulty_WordCount(t *testing.T) {
	tests := []struct {
		d    Difficulty
		want int
	}{
		{Easy, 10},
		{Medium, 15},
		{Hard, 20},
		{Difficulty(""), 10},
	}
	for _, tt := range tests {
		if got := tt.d.WordCount(); got != tt.want {
			t.Errorf("%q.WordCount() = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestDifficulty_IncludesIsCumulative(t *testing.T) {
	if got := Easy.Includes(); len(got) != 1 || got[0] != Easy {
		t.Errorf("Easy.Includes() = %v, want [EASY]", got)
	}
	if got := Medium.Includes(); len(got) != 2 {
		t.Errorf("Medium.Includes() = %v, want EASY and MEDIUM", got)
	}
	if got := Hard.Includes(); len(got) != 3 {
		t.Errorf("Hard.Includes() = %v, want all three", got)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" medium ")
	if err != nil {
		t.Fatalf("ParseDifficulty: %v", err)
	}
	if d != Medium {
		t.Errorf("ParseDifficulty = %q, want MEDIUM", d)
	}
	if _, err := ParseDifficulty("brutal"); err == nil {
		t.Error("ParseDifficulty(brutal) should fail")
	}
}

func TestParseSessionType(t *testing.T) {
	for _, s := range []string{"comprehension", "EXPRESSION", "Mixed"} {
		if _, err := ParseSessionType(s); err != nil {
			t.Errorf("ParseSessionType(%q): %v", s, err)
		}
	}
	if _, err := ParseSessionType("dictation"); err == nil {
		t.Error("ParseSessionType(dictation) should fail")
	}
}

func TestWord_Text(t *testing.T) {
	w := Word{Concept: "dog", Translations: []Translation{
		{Language: "en", Text: "dog"},
		{Language: "es", Text: "perro"},
	}}
	if got, ok := w.Text("es"); !ok || got != "perro" {
		t.Errorf("Text(es) = %q, %v; want perro, true", got, ok)
	}
	if _, ok := w.Text("fr"); ok {
		t.Error("Text(fr) should report missing")
	}
}

func TestSeed(t *testing.T) {
	wl, err := Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(wl.Languages) == 0 || len(wl.Domains) == 0 {
		t.Fatalf("seed has %d languages and %d domains", len(wl.Languages), len(wl.Domains))
	}
	if len(wl.Words) < Hard.WordCount() {
		t.Errorf("seed has %d words, want at least %d", len(wl.Words), Hard.WordCount())
	}

	langs := map[string]bool{}
	for _, l := range wl.Languages {
		langs[l.Code] = true
	}
	for _, w := range wl.Words {
		for _, tr := range w.Translations {
			if !langs[tr.Language] {
				t.Errorf("concept %q uses undeclared language %q", w.Concept, tr.Language)
			}
		}
	}
}

func TestDecodeWordList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "valid",
			input: `{"words":[{"concept":"dog","domain":"ANIMALS","difficulty":"EASY",
				"translations":[{"language":"en","text":"dog"},{"language":"es","text":"perro"}]}]}`,
		},
		{
			name:    "missing words",
			input:   `{}`,
			wantErr: "validate",
		},
		{
			name: "bad difficulty",
			input: `{"words":[{"concept":"dog","domain":"ANIMALS","difficulty":"TRIVIAL",
				"translations":[{"language":"en","text":"dog"}]}]}`,
			wantErr: "validate",
		},
		{
			name: "empty translations",
			input: `{"words":[{"concept":"dog","domain":"ANIMALS","difficulty":"EASY",
				"translations":[]}]}`,
			wantErr: "validate",
		},
		{
			name: "duplicate concept",
			input: `{"words":[
				{"concept":"dog","domain":"ANIMALS","difficulty":"EASY","translations":[{"language":"en","text":"dog"}]},
				{"concept":"dog","domain":"ANIMALS","difficulty":"EASY","translations":[{"language":"en","text":"hound"}]}]}`,
			wantErr: "duplicate concept",
		},
		{
			name: "duplicate language",
			input: `{"words":[{"concept":"dog","domain":"ANIMALS","difficulty":"EASY",
				"translations":[{"language":"en","text":"dog"},{"language":"en","text":"hound"}]}]}`,
			wantErr: "duplicate translation",
		},
		{
			name:    "not json",
			input:   `words: []`,
			wantErr: "decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wl, err := ParseWordList(strings.NewReader(tt.input))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(wl.Words) != 1 {
					t.Errorf("got %d words, want 1", len(wl.Words))
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
