package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator censors forbidden words in message bodies before they reach the
// broadcast bus, so every subscriber observes the same sanitized text.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the Aho-Corasick automaton over the lowercased word
// list. An empty list yields a pass-through moderator.
func NewModerator(words []string, replacement rune) (Moderator, error) {
	if len(words) == 0 {
		return Moderator{replacement: replacement}, nil
	}

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = []rune(strings.ToLower(word))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: machine, replacement: replacement}, nil
}

// Censor replaces every matched word with the replacement rune, preserving
// the length and casing of everything around it. Matching is case
// insensitive.
func (m *Moderator) Censor(body string) string {
	if m.matcher == nil {
		return body
	}

	runes := []rune(body)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}

	terms := m.matcher.MultiPatternSearch(lowered, false)
	if len(terms) == 0 {
		return body
	}

	for _, term := range terms {
		end := term.Pos + len(term.Word)
		if end > len(runes) {
			continue
		}
		for i := term.Pos; i < end; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}
