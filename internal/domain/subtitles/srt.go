// Package subtitles renders the script's narration as an SRT track, one
// cue per sentence, timed against the scenes' reconciled durations.
package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/scenecast/internal/types"
)

const maxCueChars = 84

// RenderSRT produces a complete SRT document for the given scenes. Scenes
// are expected in script order; each scene's time window is its reconciled
// duration when set, falling back to the nominal duration otherwise.
// Within a scene, cue windows are split across sentences proportionally to
// their length, so long sentences stay on screen longer.
func RenderSRT(scenes []types.Scene) string {
	var b strings.Builder
	var cursor time.Duration
	n := 0

	for _, sc := range scenes {
		window := sc.Duration
		if window <= 0 {
			window = sc.NominalDuration
		}
		cues := sentenceCues(sc.Narration)
		if len(cues) == 0 || window <= 0 {
			cursor += window
			continue
		}

		total := 0
		for _, c := range cues {
			total += len(c)
		}
		start := cursor
		for i, c := range cues {
			d := time.Duration(float64(window) * float64(len(c)) / float64(total))
			end := start + d
			if i == len(cues)-1 {
				end = cursor + window
			}
			n++
			fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", n, srtTimestamp(start), srtTimestamp(end), wrapCue(c))
			start = end
		}
		cursor += window
	}
	return b.String()
}

// sentenceCues splits narration into display sentences, dropping markup
// and anything too short to read as a cue on its own.
func sentenceCues(narration string) []string {
	text := strings.Join(strings.Fields(strings.ReplaceAll(narration, "`", "")), " ")
	var cues []string
	for _, part := range strings.SplitAfter(text, ". ") {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			continue
		}
		cues = append(cues, part)
	}
	return cues
}

// wrapCue keeps cues to at most two lines of readable width.
func wrapCue(s string) string {
	if len(s) <= maxCueChars/2 {
		return s
	}
	words := strings.Fields(s)
	var first, second string
	for _, w := range words {
		if len(first)+len(w) < len(s)/2 {
			first += w + " "
			continue
		}
		second += w + " "
	}
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" {
		return s
	}
	return first + "\n" + second
}

// srtTimestamp formats `HH:MM:SS,mmm` as the SRT grammar requires.
func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
