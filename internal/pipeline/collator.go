package pipeline

import (
	"sort"
	"strings"

	"github.com/sant0-9/packet/internal/alias"
)

// Sentinel marks an intentionally empty respondent or answer.
const Sentinel = "-"

// Entry is one answered question in a respondent's history.
type Entry struct {
	Label    string
	Question string
	Answer   string
}

// Stats counts collation outcomes for every answer seen.
type Stats struct {
	Kept               int
	ExcludedRespondent int
	ExcludedAnswer     int
}

// Total returns the number of answers examined.
func (s Stats) Total() int {
	return s.Kept + s.ExcludedRespondent + s.ExcludedAnswer
}

// History holds every respondent's entries keyed by canonical name.
type History struct {
	Entries map[string][]Entry
	// Order lists canonical names in order of first appearance.
	Order []string
	Stats Stats
}

// Respondents returns the number of respondents with at least one entry.
func (h *History) Respondents() int {
	return len(h.Order)
}

func (h *History) add(name string, e Entry) {
	if _, ok := h.Entries[name]; !ok {
		h.Order = append(h.Order, name)
	}
	h.Entries[name] = append(h.Entries[name], e)
}

// Labels returns the record labels in collation order.
func Labels(records map[string]Record) []string {
	labels := make([]string, 0, len(records))
	for label := range records {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Collate folds records into per-respondent histories.
//
// Labels are visited in ascending lexical order, so each respondent's entries
// are in label order. Raw names are trimmed and resolved through aliases.
// An answer is dropped when the resolved name is "-" or blank, or when the
// answer itself is "-".
func Collate(records map[string]Record, aliases alias.Map) *History {
	h := &History{Entries: make(map[string][]Entry)}

	for _, label := range Labels(records) {
		rec := records[label]

		for _, a := range rec.Answers {
			name := aliases.Resolve(strings.TrimSpace(a.Respondent))

			if name == Sentinel || strings.TrimSpace(name) == "" {
				h.Stats.ExcludedRespondent++
				continue
			}
			if strings.TrimSpace(a.Text) == Sentinel {
				h.Stats.ExcludedAnswer++
				continue
			}

			h.add(name, Entry{Label: label, Question: rec.Question, Answer: a.Text})
			h.Stats.Kept++
		}
	}

	return h
}
