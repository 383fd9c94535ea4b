package types

import "time"

// AspectRatio selects the output frame geometry for a scene.
type AspectRatio string

const (
	AspectWidescreen AspectRatio = "16:9"
	AspectVertical   AspectRatio = "9:16"
)

// Resolution returns the pixel dimensions for the ratio.
func (a AspectRatio) Resolution() (width, height int) {
	if a == AspectVertical {
		return 1080, 1920
	}
	return 1920, 1080
}

// TTSSettings carries per-scene narration synthesis hints. The narration
// audio itself is produced by an external service; these values only travel
// through parsing and narration extraction.
type TTSSettings struct {
	Speed  float64
	Tone   string
	Pauses []string
}

// VideoSettings carries per-scene rendering hints.
type VideoSettings struct {
	Camera     string
	Mood       string
	Animation  string
	Background string
}

// CodeBlock is an optional embedded code snippet. When ReadAloud is true its
// text is part of the spoken narration; otherwise it is visual-only.
type CodeBlock struct {
	ReadAloud bool
	Content   string
}

// Assets holds optional per-scene asset tags requested by the script.
type Assets struct {
	Music   string
	Icons   []string
	Diagram string
}

// Scene is one narrated/visual beat of the unified script. Scenes are
// immutable after parsing except for the attached Strategy and the
// reconciled Duration.
type Scene struct {
	Index           int
	Narration       string
	Visual          string
	NominalDuration time.Duration
	TTS             TTSSettings
	Video           VideoSettings
	Ratio           AspectRatio
	Code            *CodeBlock
	TransitionNext  string
	Assets          *Assets

	// Extra keeps unrecognized scene keys for forward compatibility.
	Extra map[string]string

	// Attached after parsing.
	Strategy Strategy
	Entities []string
	Duration time.Duration
}

// Strategy is the rendering template chosen for a scene's visual content.
type Strategy string

const (
	StrategyCodeDisplay   Strategy = "code-display"
	StrategyDiagram       Strategy = "diagram"
	StrategyBulletText    Strategy = "bullet-text"
	StrategyTitleCard     Strategy = "title-card"
	StrategyLogoAnimation Strategy = "logo-animation"
	StrategyScreenshot    Strategy = "screenshot"
	StrategyCallToAction  Strategy = "call-to-action"
	StrategyGeneric       Strategy = "generic"
)

// Transition is the stitching style applied between two adjacent segments.
type Transition string

const (
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionCut   Transition = "cut"
)

// Segment is one rendered scene's output media before final composition.
type Segment struct {
	SceneIndex int
	Path       string
	Duration   time.Duration

	// Exit is the transition into the following segment.
	Exit Transition
}
