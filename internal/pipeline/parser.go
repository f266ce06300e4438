package pipeline

import "strings"

// AnswerSeparator splits a respondent's name from their answer.
const AnswerSeparator = ":"

// Answer is one respondent's raw reply as it appeared in a document.
type Answer struct {
	Respondent string
	Text       string
}

// Record is the question and answers parsed from one document.
type Record struct {
	Question string
	Answers  []Answer
}

type parseState int

const (
	stateQuestion parseState = iota
	stateQuestionContinued
	stateAnswers
)

// Parse extracts a Record from the paragraphs of one document.
//
// The first line seeds the question and following non-blank lines extend it.
// The first blank line ends the question; every later line containing ':' is
// split at its first ':' into respondent and answer. Lines without ':' are
// ignored. A respondent repeated within a document keeps its first position
// but takes the later answer. A document without a blank line yields a
// question and no answers.
func Parse(lines []string) Record {
	var (
		rec   Record
		index = make(map[string]int)
		state = stateQuestion
	)

	for _, line := range lines {
		switch state {
		case stateQuestion:
			rec.Question = line
			state = stateQuestionContinued

		case stateQuestionContinued:
			if strings.TrimSpace(line) == "" {
				state = stateAnswers
				continue
			}
			rec.Question += "\n" + line

		case stateAnswers:
			respondent, text, ok := strings.Cut(line, AnswerSeparator)
			if !ok {
				continue
			}
			text = strings.TrimSpace(text)

			if i, seen := index[respondent]; seen {
				rec.Answers[i].Text = text
				continue
			}
			index[respondent] = len(rec.Answers)
			rec.Answers = append(rec.Answers, Answer{Respondent: respondent, Text: text})
		}
	}

	return rec
}
