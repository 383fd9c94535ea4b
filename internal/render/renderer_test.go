package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/ports"
	"github.com/forPelevin/scenecast/internal/types"
)

// fakeTool records every encoder invocation and answers probes from the
// durations implied by each invocation's -t argument.
type fakeTool struct {
	mu      sync.Mutex
	encodes [][]string
	probed  map[string]time.Duration

	encodeErr func(args []string) error
	probeSkew time.Duration
}

func newFakeTool() *fakeTool {
	return &fakeTool{probed: make(map[string]time.Duration)}
}

func (f *fakeTool) Encode(_ context.Context, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.encodeErr != nil {
		if err := f.encodeErr(args); err != nil {
			return err
		}
	}
	f.encodes = append(f.encodes, append([]string(nil), args...))
	out := args[len(args)-1]
	if d, ok := argDuration(args); ok {
		f.probed[out] = d
	}
	return nil
}

func (f *fakeTool) ProbeDuration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.probed[path]
	if !ok {
		return 0, &ports.ProbeError{Path: path, Err: errors.New("no such file")}
	}
	return d + f.probeSkew, nil
}

func argDuration(args []string) (time.Duration, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-t" {
			sec, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return 0, false
			}
			return time.Duration(sec * float64(time.Second)), true
		}
	}
	return 0, false
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func testScene(index int, d time.Duration) types.Scene {
	return types.Scene{
		Index:     index,
		Narration: "A short line of narration.",
		Visual:    "Calm gradient backdrop",
		Duration:  d,
		Ratio:     types.AspectWidescreen,
	}
}

func TestRenderScene_EncodesWithPinnedDuration(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	r := New(tool, Options{FPS: 30}, zerolog.Nop())

	sc := testScene(1, 4500*time.Millisecond)
	seg, err := r.RenderScene(context.Background(), sc, "/tmp/seg.mp4")
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}

	if len(tool.encodes) != 1 {
		t.Fatalf("encodes = %d, want 1", len(tool.encodes))
	}
	args := tool.encodes[0]
	if got := argValue(args, "-t"); got != "4.500" {
		t.Errorf("-t = %q, want 4.500", got)
	}
	input := argValue(args, "-i")
	if !strings.Contains(input, "s=1920x1080") || !strings.Contains(input, "r=30") {
		t.Errorf("lavfi input = %q, want 1920x1080 at 30fps", input)
	}
	if argValue(args, "-c:v") != "libx264" || argValue(args, "-pix_fmt") != "yuv420p" {
		t.Errorf("codec args wrong: %v", args)
	}

	if seg.SceneIndex != 1 || seg.Path != "/tmp/seg.mp4" {
		t.Errorf("segment = %+v", seg)
	}
	if seg.Duration != sc.Duration {
		t.Errorf("segment duration = %s, want %s", seg.Duration, sc.Duration)
	}
	if seg.Exit != types.TransitionFade {
		t.Errorf("exit = %s, want fade (default)", seg.Exit)
	}
}

func TestRenderScene_ZeroDuration(t *testing.T) {
	t.Parallel()

	r := New(newFakeTool(), Options{}, zerolog.Nop())
	_, err := r.RenderScene(context.Background(), testScene(3, 0), "/tmp/seg.mp4")

	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RenderError", err)
	}
	if re.SceneIndex != 3 {
		t.Errorf("SceneIndex = %d, want 3", re.SceneIndex)
	}
}

func TestRenderScene_EncodeFailure(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	tool.encodeErr = func([]string) error {
		return &ports.EncodeError{ExitCode: 1, Stderr: "filter parse failed"}
	}
	r := New(tool, Options{}, zerolog.Nop())

	_, err := r.RenderScene(context.Background(), testScene(2, 3*time.Second), "/tmp/seg.mp4")

	var re *RenderError
	if !errors.As(err, &re) || re.SceneIndex != 2 {
		t.Fatalf("err = %v, want *RenderError for scene 2", err)
	}
	var ee *ports.EncodeError
	if !errors.As(err, &ee) || ee.ExitCode != 1 {
		t.Errorf("err = %v, want wrapped *ports.EncodeError", err)
	}
}

func TestRenderScene_DurationDriftBeyondOneFrame(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	tool.probeSkew = 200 * time.Millisecond // > 1 frame at 30fps
	r := New(tool, Options{FPS: 30}, zerolog.Nop())

	_, err := r.RenderScene(context.Background(), testScene(1, 5*time.Second), "/tmp/seg.mp4")
	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RenderError", err)
	}
}

func TestRenderScene_DriftWithinOneFrameAccepted(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	tool.probeSkew = 20 * time.Millisecond // < 33ms frame interval
	r := New(tool, Options{FPS: 30}, zerolog.Nop())

	seg, err := r.RenderScene(context.Background(), testScene(1, 5*time.Second), "/tmp/seg.mp4")
	if err != nil {
		t.Fatalf("RenderScene: %v", err)
	}
	if seg.Duration != 5*time.Second+20*time.Millisecond {
		t.Errorf("segment duration = %s, want probed value", seg.Duration)
	}
}

func TestRenderAll_SegmentsFollowSceneOrder(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	r := New(tool, Options{Workers: 3}, zerolog.Nop())

	scenes := []types.Scene{
		testScene(1, 2*time.Second),
		testScene(2, 3*time.Second),
		testScene(3, 4*time.Second),
	}
	segs, err := r.RenderAll(context.Background(), scenes, "/tmp/work")
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	for i, seg := range segs {
		if seg.SceneIndex != i+1 {
			t.Errorf("segment %d has scene index %d", i, seg.SceneIndex)
		}
		want := fmt.Sprintf("segment_%03d.mp4", i+1)
		if !strings.HasSuffix(seg.Path, want) {
			t.Errorf("segment %d path = %q, want suffix %q", i, seg.Path, want)
		}
	}
}

func TestRenderAll_ReportsFailedSceneIndex(t *testing.T) {
	t.Parallel()

	tool := newFakeTool()
	tool.encodeErr = func(args []string) error {
		if strings.HasSuffix(args[len(args)-1], "segment_002.mp4") {
			return &ports.EncodeError{ExitCode: 187, Stderr: "boom"}
		}
		return nil
	}
	r := New(tool, Options{Workers: 2}, zerolog.Nop())

	scenes := []types.Scene{
		testScene(1, 2*time.Second),
		testScene(2, 3*time.Second),
		testScene(3, 4*time.Second),
	}
	_, err := r.RenderAll(context.Background(), scenes, "/tmp/work")

	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RenderError", err)
	}
	if re.SceneIndex != 2 {
		t.Errorf("SceneIndex = %d, want 2", re.SceneIndex)
	}
}

func TestParseTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want types.Transition
	}{
		{"", types.TransitionFade},
		{"fade", types.TransitionFade},
		{"smooth fade", types.TransitionFade},
		{"slide", types.TransitionSlide},
		{"Slide left", types.TransitionSlide},
		{"cut", types.TransitionCut},
		{"hard cut", types.TransitionCut},
		{"something else", types.TransitionFade},
	}
	for _, tc := range cases {
		if got := parseTransition(tc.in); got != tc.want {
			t.Errorf("parseTransition(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestBuildSceneFilter_DiagramDegradesWithoutEntities(t *testing.T) {
	t.Parallel()

	sc := testScene(1, 5*time.Second)
	sc.Strategy = types.StrategyDiagram
	sc.Entities = []string{"OnlyOne"}

	filter := buildSceneFilter(sc, 1920, 1080, 30, 5)
	if strings.Contains(filter, "OnlyOne") {
		t.Errorf("degraded filter still draws diagram nodes: %q", filter)
	}

	sc.Entities = []string{"API", "Database"}
	filter = buildSceneFilter(sc, 1920, 1080, 30, 5)
	if !strings.Contains(filter, "API") || !strings.Contains(filter, "Database") {
		t.Errorf("diagram filter missing entity boxes: %q", filter)
	}
}

func TestBuildSceneFilter_EscapesNarration(t *testing.T) {
	t.Parallel()

	sc := testScene(1, 5*time.Second)
	sc.Strategy = types.StrategyTitleCard
	sc.Narration = "What's new: generics"

	filter := buildSceneFilter(sc, 1920, 1080, 30, 5)
	if strings.Contains(filter, "What's") {
		t.Errorf("unescaped quote reached the filter graph: %q", filter)
	}
	if !strings.Contains(filter, `What\'s`) {
		t.Errorf("escaped text missing from filter graph: %q", filter)
	}
}
