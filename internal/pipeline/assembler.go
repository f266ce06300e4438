package pipeline

// Report is everything written for one respondent.
type Report struct {
	Respondent string
	Entries    []Entry
}

// Assemble turns a history into one report per respondent, in order of first
// appearance. Entries are copied so sinks cannot alter the history.
func Assemble(h *History) []Report {
	if h == nil {
		return nil
	}

	reports := make([]Report, 0, len(h.Order))
	for _, name := range h.Order {
		entries := make([]Entry, len(h.Entries[name]))
		copy(entries, h.Entries[name])
		reports = append(reports, Report{Respondent: name, Entries: entries})
	}
	return reports
}
