package subtitles

import (
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/scenecast/internal/types"
)

func TestRenderSRT_OneCuePerSentence(t *testing.T) {
	t.Parallel()

	scenes := []types.Scene{
		{Index: 1, Narration: "Welcome to the show.", Duration: 4 * time.Second},
		{Index: 2, Narration: "First point. Second point.", Duration: 6 * time.Second},
	}
	got := RenderSRT(scenes)

	if !strings.HasPrefix(got, "1\n00:00:00,000 --> 00:00:04,000\nWelcome to the show.\n") {
		t.Errorf("first cue wrong:\n%s", got)
	}
	// Scene 2 starts where scene 1 ended and its last cue closes the scene.
	if !strings.Contains(got, "00:00:04,000 --> ") {
		t.Errorf("second scene should start at 4s:\n%s", got)
	}
	if !strings.Contains(got, " --> 00:00:10,000\nSecond point.\n") {
		t.Errorf("last cue should end at 10s:\n%s", got)
	}
	if !strings.Contains(got, "\n2\n") || !strings.Contains(got, "\n3\n") {
		t.Errorf("cue numbering should be continuous across scenes:\n%s", got)
	}
}

func TestRenderSRT_NominalFallbackAndEmptyNarration(t *testing.T) {
	t.Parallel()

	scenes := []types.Scene{
		{Index: 1, Narration: "", NominalDuration: 3 * time.Second},
		{Index: 2, Narration: "After a silent scene.", NominalDuration: 5 * time.Second},
	}
	got := RenderSRT(scenes)

	// The silent scene still advances the clock.
	if !strings.Contains(got, "00:00:03,000 --> 00:00:08,000") {
		t.Errorf("silent scene should offset the next cue:\n%s", got)
	}
	if strings.Contains(got, "00:00:00,000 -->") {
		t.Errorf("no cue expected for empty narration:\n%s", got)
	}
}

func TestSRTTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{4500 * time.Millisecond, "00:00:04,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
		{-time.Second, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := srtTimestamp(tc.in); got != tc.want {
			t.Errorf("srtTimestamp(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWrapCue_TwoLinesMax(t *testing.T) {
	t.Parallel()

	long := "This sentence is comfortably longer than a single subtitle line should ever be on screen."
	got := wrapCue(long)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("wrapCue returned %d lines, want 2:\n%s", len(lines), got)
	}
	if strings.Join(strings.Fields(got), " ") != long {
		t.Errorf("wrapping lost or reordered words:\n%s", got)
	}

	short := "Short line."
	if wrapCue(short) != short {
		t.Errorf("short cue should be untouched")
	}
}
