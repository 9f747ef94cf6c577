// Package catalogue turns the server's prompt name listing into described
// entries and filters them for display.
package catalogue

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Param describes one argument a prompt accepts.
type Param struct {
	Name        string
	Description string
	// Default is only meaningful when HasDefault is set.
	Default    any
	HasDefault bool
}

// Entry is one prompt in the catalogue, keyed by Name.
type Entry struct {
	Name        string
	Description string
	Params      []Param
}

// DefaultHeaderPrefixes mark the human-readable header line the server puts
// in front of the name listing.
var DefaultHeaderPrefixes = []string{"可用的prompts", "Available prompts"}

// ParseNames splits a newline-delimited listing into prompt names, dropping
// empty lines and any line starting with one of headerPrefixes. Order is
// preserved.
func ParseNames(text string, headerPrefixes []string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeader(line, headerPrefixes) {
			continue
		}
		names = append(names, line)
	}
	return names
}

func isHeader(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Filter returns the entries whose name or description contains query,
// ignoring case. An empty query returns entries unchanged. Relative order is
// kept.
func Filter(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// FuzzyFilter ranks entries by fuzzy match of query against name and
// description, best match first. An empty query returns entries unchanged.
func FuzzyFilter(entries []Entry, query string) []Entry {
	q := strings.TrimSpace(query)
	if q == "" {
		return entries
	}
	matches := fuzzy.FindFrom(q, entrySource(entries))
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

type entrySource []Entry

func (s entrySource) String(i int) string {
	return s[i].Name + " " + s[i].Description
}

func (s entrySource) Len() int {
	return len(s)
}
