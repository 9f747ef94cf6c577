package catalogue

import (
	"reflect"
	"testing"
)

func TestParseNamesDropsHeader(t *testing.T) {
	got := ParseNames("header line\npromptA\npromptB\n", []string{"header"})
	want := []string{"promptA", "promptB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNames() = %v, want %v", got, want)
	}
}

func TestParseNamesKeepsUnknownHeader(t *testing.T) {
	got := ParseNames("header line\npromptA\npromptB\n", DefaultHeaderPrefixes)
	want := []string{"header line", "promptA", "promptB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNames() = %v, want %v", got, want)
	}
}

func TestParseNamesServerListing(t *testing.T) {
	text := "可用的prompts (3):\ncode_review\ngen_title\nwriting_assistant"
	got := ParseNames(text, DefaultHeaderPrefixes)
	want := []string{"code_review", "gen_title", "writing_assistant"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNames() = %v, want %v", got, want)
	}
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"blank lines", "\n\na\n\n b \n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"no header", "a\nb", []string{"a", "b"}},
		{"english header", "Available prompts (1):\nonly", []string{"only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNames(tt.text, DefaultHeaderPrefixes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseNames(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseNamesIgnoresEmptyPrefix(t *testing.T) {
	got := ParseNames("a\nb", []string{""})
	if len(got) != 2 {
		t.Errorf("empty prefix must not match every line, got %v", got)
	}
}

var sample = []Entry{
	{Name: "code_review", Description: "代码审查"},
	{Name: "gen_title", Description: "Title Generator"},
	{Name: "writing_assistant", Description: "写作助手"},
}

func names(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"code_review", "gen_title", "writing_assistant"}},
		{"  ", []string{"code_review", "gen_title", "writing_assistant"}},
		{"REVIEW", []string{"code_review"}},
		{"title gen", []string{"gen_title"}},
		{"generator title", nil},
		{"generator", []string{"gen_title"}},
		{"写作", []string{"writing_assistant"}},
		{"_", []string{"code_review", "gen_title", "writing_assistant"}},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := names(Filter(sample, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFuzzyFilter(t *testing.T) {
	if got := FuzzyFilter(sample, ""); len(got) != len(sample) {
		t.Errorf("expected all entries for empty query, got %d", len(got))
	}

	got := names(FuzzyFilter(sample, "cdrv"))
	if len(got) == 0 || got[0] != "code_review" {
		t.Errorf("expected code_review first, got %v", got)
	}

	if got := FuzzyFilter(sample, "zzzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", names(got))
	}
}
