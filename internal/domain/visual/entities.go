package visual

import (
	"strings"
	"unicode"
)

// ExtractEntities pulls diagram node names out of a visual description.
// Two shapes are recognized: chains of capitalized technology-like tokens
// joined by arrows or "to" phrasing ("MongoDB to Express.js to React"),
// and capitalized multi-word names ("User Service", "Event Loop"). The
// longest chain wins; order of appearance is preserved.
func ExtractEntities(visualDescription string) []string {
	text := normalizeArrows(visualDescription)
	words := strings.Fields(text)

	type candidate struct {
		name       string
		start, end int // word positions, end exclusive
	}

	// Group consecutive capitalized words into candidate entities.
	var cands []candidate
	for i := 0; i < len(words); i++ {
		w := cleanWord(words[i])
		if !entityWord(w) {
			continue
		}
		j := i + 1
		name := w
		for ; j < len(words); j++ {
			next := cleanWord(words[j])
			if !entityWord(next) {
				break
			}
			name += " " + next
		}
		cands = append(cands, candidate{name: name, start: i, end: j})
		i = j - 1
	}
	if len(cands) == 0 {
		return nil
	}

	// Chain candidates whose gap is pure connector phrasing.
	var best []string
	chain := []string{cands[0].name}
	for i := 1; i < len(cands); i++ {
		if connectorGap(words[cands[i-1].end:cands[i].start]) {
			chain = append(chain, cands[i].name)
			continue
		}
		if len(chain) > len(best) {
			best = chain
		}
		chain = []string{cands[i].name}
	}
	if len(chain) > len(best) {
		best = chain
	}
	if len(best) >= 2 {
		return best
	}

	// No chain: fall back to multi-word capitalized names.
	var multi []string
	for _, c := range cands {
		if strings.Contains(c.name, " ") {
			multi = append(multi, c.name)
		}
	}
	if len(multi) >= 2 {
		return multi
	}
	return nil
}

func normalizeArrows(s string) string {
	for _, arrow := range []string{"→", "->", "=>", "-->"} {
		s = strings.ReplaceAll(s, arrow, " to ")
	}
	return s
}

func connectorGap(gap []string) bool {
	if len(gap) == 0 {
		return false
	}
	for _, w := range gap {
		switch strings.ToLower(strings.Trim(w, ",")) {
		case "to", "and", "then", "":
		default:
			return false
		}
	}
	return true
}

// cleanWord strips the punctuation that attaches to a name in running
// text. Trailing sentence periods go, internal dots stay (Node.js).
func cleanWord(w string) string {
	w = strings.Trim(w, ",;:()\"'")
	return strings.TrimRight(w, ".!?")
}

// entityWord reports whether a cleaned token looks like a technology
// name: it starts with an uppercase letter and contains only letters,
// digits and internal dots (Node.js, S3).
func entityWord(w string) bool {
	if w == "" {
		return false
	}
	runes := []rune(w)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-' {
			return false
		}
	}
	return true
}
