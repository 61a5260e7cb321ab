package features

import (
	"strings"
	"unicode"
)

// leadingStopwords are capitalized words that start headlines without being
// part of a name. A candidate run is trimmed from the left until its first
// token is not one of these.
var leadingStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"these": true, "those": true, "how": true, "why": true, "what": true,
	"when": true, "where": true, "who": true, "which": true, "after": true,
	"before": true, "during": true, "amid": true, "despite": true,
	"as": true, "at": true, "in": true, "on": true, "for": true,
	"from": true, "with": true, "new": true, "breaking": true,
	"exclusive": true, "live": true, "watch": true, "opinion": true,
	"analysis": true, "report": true, "update": true, "updated": true,
}

// connectors may appear inside a multi-token entity without breaking it,
// but never start or end one.
var connectors = map[string]bool{
	"of": true, "and": true, "de": true, "der": true, "von": true,
	"van": true, "el": true, "al": true, "la": true, "le": true,
}

// ExtractEntities pulls named-entity surface strings out of headline text.
// It collects maximal runs of capitalized tokens, allowing lowercase
// connectors inside a run. Results are deduplicated and returned in order
// of first appearance.
func ExtractEntities(text string) []string {
	tokens := strings.Fields(text)

	var entities []string
	seen := make(map[string]bool)
	var run []string
	var pending []string // connectors awaiting a capitalized continuation

	flush := func() {
		run = trimLeadingStopwords(run)
		if len(run) > 0 {
			entity := strings.Join(run, " ")
			if !seen[entity] {
				seen[entity] = true
				entities = append(entities, entity)
			}
		}
		run = nil
		pending = nil
	}

	for _, token := range tokens {
		word := strings.Trim(token, ".,!?;:'\"“”‘’()[]")
		endsClause := strings.TrimRight(token, ".,!?;:") != token

		switch {
		case word == "":
			flush()
		case isCapitalized(word):
			if len(run) > 0 && len(pending) > 0 {
				run = append(run, pending...)
			}
			pending = nil
			run = append(run, word)
		case len(run) > 0 && connectors[strings.ToLower(word)]:
			pending = append(pending, strings.ToLower(word))
		default:
			flush()
		}

		if endsClause {
			flush()
		}
	}
	flush()

	return entities
}

// trimLeadingStopwords drops headline-initial filler from a candidate run.
func trimLeadingStopwords(run []string) []string {
	for len(run) > 0 && leadingStopwords[strings.ToLower(run[0])] {
		run = run[1:]
	}
	// A single leftover token shorter than two runes is noise.
	if len(run) == 1 && len([]rune(run[0])) < 2 {
		return nil
	}
	return run
}

func isCapitalized(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 {
		return false
	}
	return unicode.IsUpper(runes[0])
}
