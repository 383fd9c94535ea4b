package script

import (
	"regexp"
	"strings"

	"github.com/forPelevin/scenecast/internal/types"
)

// Section headers that content generators sometimes leave in narration text.
// They are stage directions, not spoken words.
var sectionHeaders = map[string]bool{
	"HOOK":         true,
	"INTRO":        true,
	"MAIN CONTENT": true,
	"EXAMPLE":      true,
	"SUMMARY":      true,
	"CTA":          true,
	"CONCLUSION":   true,
}

var (
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	fencedCodeRe = regexp.MustCompile("```[^`]*```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	hruleRe      = regexp.MustCompile(`^-{3,}$`)
)

// ExtractNarration joins every scene's spoken text into one script for the
// narration synthesis service. Scenes are separated by a natural pause
// marker; code blocks contribute their text only when marked read_aloud.
func ExtractNarration(scenes []types.Scene) string {
	parts := make([]string, 0, len(scenes))
	for i, sc := range scenes {
		text := sc.Narration
		if sc.Code != nil && sc.Code.ReadAloud && strings.TrimSpace(sc.Code.Content) != "" {
			text = strings.TrimSpace(text + " " + sc.Code.Content)
		}
		text = CleanNarration(text)
		if text == "" {
			continue
		}
		if i < len(scenes)-1 {
			text += "..."
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

// CleanNarration strips section headers and markdown formatting so only
// speakable text reaches the synthesizer.
func CleanNarration(text string) string {
	if text == "" {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		header := strings.ToUpper(strings.Trim(line, "* "))
		if sectionHeaders[header] {
			continue
		}
		if hruleRe.MatchString(line) {
			continue
		}
		line = fencedCodeRe.ReplaceAllString(line, "")
		line = boldRe.ReplaceAllString(line, "$1")
		line = italicRe.ReplaceAllString(line, "$1")
		line = inlineCodeRe.ReplaceAllString(line, "$1")
		line = linkRe.ReplaceAllString(line, "$1")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
