// Package timing adjusts nominal scene durations so the rendered video is
// exactly as long as the measured narration audio. The script author's
// durations are advisory; the audio track is authoritative.
package timing

import (
	"time"

	"github.com/forPelevin/scenecast/internal/types"
)

// Reconcile scales every scene's nominal duration by audio/nominal-sum,
// preserving relative proportions, and folds the rounding remainder into
// the final scene so the sum matches the audio duration exactly.
//
// A zero nominal sum falls back to an even split: over the audio duration
// when it is positive, otherwise over fallbackTotal. The returned bool
// reports that fallback so the caller can log a warning; this is the only
// non-fatal timing condition.
func Reconcile(scenes []types.Scene, audio, fallbackTotal time.Duration) ([]types.Scene, bool) {
	if len(scenes) == 0 {
		return scenes, false
	}

	var nominalSum time.Duration
	for _, sc := range scenes {
		nominalSum += sc.NominalDuration
	}

	out := make([]types.Scene, len(scenes))
	copy(out, scenes)

	if nominalSum <= 0 {
		total := audio
		if total <= 0 {
			total = fallbackTotal
		}
		evenSplit(out, total)
		return out, true
	}

	scale := float64(audio) / float64(nominalSum)
	var assigned time.Duration
	for i := range out {
		out[i].Duration = time.Duration(float64(out[i].NominalDuration) * scale)
		assigned += out[i].Duration
	}
	// Rounding remainder lands on the last scene so the sum is exact.
	out[len(out)-1].Duration += audio - assigned
	return out, false
}

func evenSplit(scenes []types.Scene, total time.Duration) {
	per := total / time.Duration(len(scenes))
	var assigned time.Duration
	for i := range scenes {
		scenes[i].Duration = per
		assigned += per
	}
	scenes[len(scenes)-1].Duration += total - assigned
}
