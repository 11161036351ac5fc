// Package entity defines the narrative result model.
package entity

// Section is one generated text, or the reason it is missing.
type Section struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the section holds generated text.
func (s Section) OK() bool { return s.Error == "" && s.Text != "" }

// NarrativeResult bundles the three generated texts of a report.
// Each section fails independently.
type NarrativeResult struct {
	Explanation Section `json:"explanation"`
	Summary     Section `json:"summary"`
	Sentiment   Section `json:"sentiment"`
}
