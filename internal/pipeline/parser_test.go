package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		lines        []string
		wantQuestion string
		wantAnswers  []Answer
	}{
		{
			name:         "empty document",
			lines:        nil,
			wantQuestion: "",
			wantAnswers:  nil,
		},
		{
			name:         "question and answers",
			lines:        []string{"How are you?", "", "Sam: Fine:thanks", "Alex: -"},
			wantQuestion: "How are you?",
			wantAnswers: []Answer{
				{Respondent: "Sam", Text: "Fine:thanks"},
				{Respondent: "Alex", Text: "-"},
			},
		},
		{
			name:         "multi-line question",
			lines:        []string{"Describe your week.", "Be honest.", "   ", "Jo:  busy  "},
			wantQuestion: "Describe your week.\nBe honest.",
			wantAnswers:  []Answer{{Respondent: "Jo", Text: "busy"}},
		},
		{
			name:         "no blank line folds everything into the question",
			lines:        []string{"Q1", "Sam: yes", "Alex: no"},
			wantQuestion: "Q1\nSam: yes\nAlex: no",
			wantAnswers:  nil,
		},
		{
			name:         "lines without separator are skipped",
			lines:        []string{"Q", "", "no colon here", "", "Kim: ok"},
			wantQuestion: "Q",
			wantAnswers:  []Answer{{Respondent: "Kim", Text: "ok"}},
		},
		{
			name:         "respondent keeps surrounding whitespace",
			lines:        []string{"Q", "", "  Sam : hi"},
			wantQuestion: "Q",
			wantAnswers:  []Answer{{Respondent: "  Sam ", Text: "hi"}},
		},
		{
			name:         "last write wins in first position",
			lines:        []string{"Q", "", "Sam: first", "Alex: a", "Sam: second"},
			wantQuestion: "Q",
			wantAnswers: []Answer{
				{Respondent: "Sam", Text: "second"},
				{Respondent: "Alex", Text: "a"},
			},
		},
		{
			name:         "blank first line still seeds the question",
			lines:        []string{"", "Q", "", "Sam: x"},
			wantQuestion: "\nQ",
			wantAnswers:  []Answer{{Respondent: "Sam", Text: "x"}},
		},
		{
			name:         "empty answer",
			lines:        []string{"Q", "", "Sam:"},
			wantQuestion: "Q",
			wantAnswers:  []Answer{{Respondent: "Sam", Text: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.lines)
			assert.Equal(t, tt.wantQuestion, got.Question)
			assert.Equal(t, tt.wantAnswers, got.Answers)
		})
	}
}

func TestParseStructure(t *testing.T) {
	for q := 1; q <= 4; q++ {
		for a := 0; a <= 5; a++ {
			var lines, question []string
			for i := 0; i < q; i++ {
				question = append(question, strings.Repeat("q", i+1))
			}
			lines = append(lines, question...)
			lines = append(lines, "")

			var want []Answer
			for i := 0; i < a; i++ {
				name := "r" + strings.Repeat("x", i)
				if i%2 == 1 {
					lines = append(lines, name+" without separator")
					continue
				}
				lines = append(lines, name+": answer "+name)
				want = append(want, Answer{Respondent: name, Text: "answer " + name})
			}

			got := Parse(lines)
			assert.Equal(t, strings.Join(question, "\n"), got.Question)
			assert.Equal(t, want, got.Answers)
		}
	}
}
