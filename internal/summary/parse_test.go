package summary

import "testing"

func TestParseReply(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantText  string
		wantErr   bool
	}{
		{
			name:      "plain JSON",
			input:     `{"summary":{"title":"Election","section_text":"- point"}}`,
			wantTitle: "Election",
			wantText:  "- point",
		},
		{
			name:      "fenced JSON",
			input:     "```json\n{\"summary\":{\"title\":\"T\",\"section_text\":\"- p\"}}\n```",
			wantTitle: "T",
			wantText:  "- p",
		},
		{
			name:      "JSON surrounded by prose",
			input:     "Here is your summary:\n{\"summary\":{\"title\":\"T\",\"section_text\":\"- p\"}}\nHope that helps!",
			wantTitle: "T",
			wantText:  "- p",
		},
		{
			name:      "multiline JSON",
			input:     "{\n  \"summary\": {\n    \"title\": \"T\",\n    \"section_text\": \"- p\"\n  }\n}",
			wantTitle: "T",
			wantText:  "- p",
		},
		{
			name:    "no JSON at all",
			input:   "I could not produce a summary.",
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			input:   `{"summary": {"title": "T",`,
			wantErr: true,
		},
		{
			name:    "JSON without summary object",
			input:   `{"something":"else"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.wantTitle || got.SectionText != tt.wantText {
				t.Errorf("got (%q, %q), want (%q, %q)", got.Title, got.SectionText, tt.wantTitle, tt.wantText)
			}
		})
	}
}

func TestParseReply_MalformedTrailingBrace(t *testing.T) {
	// The greedy match grabs the outermost braces; stray trailing text after
	// the closing brace must not break parsing.
	input := `{"summary":{"title":"T","section_text":"- p"}} trailing`
	got, err := parseReply(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "T" {
		t.Errorf("title %q", got.Title)
	}
}

func TestParseFact(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain",
			input: `{"fact":"Honey never spoils."}`,
			want:  "Honey never spoils.",
		},
		{
			name:  "with prose",
			input: "Sure!\n{\"fact\": \"Octopuses have three hearts.\"}",
			want:  "Octopuses have three hearts.",
		},
		{
			name:    "no fact field",
			input:   `{"other": true}`,
			wantErr: true,
		},
		{
			name:    "no JSON",
			input:   "A plain sentence.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFact(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
