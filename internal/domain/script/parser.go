package script

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/scenecast/internal/types"
)

// ParseError reports a malformed script. It always names the scene the
// pipeline should point the author at; SceneIndex 0 means the failure is
// not attributable to a single scene.
type ParseError struct {
	SceneIndex int
	Field      string
	Reason     string
}

func (e *ParseError) Error() string {
	if e.SceneIndex == 0 {
		return fmt.Sprintf("script: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("script: scene %d: %s", e.SceneIndex, e.Reason)
	}
	return fmt.Sprintf("script: scene %d: field %q: %s", e.SceneIndex, e.Field, e.Reason)
}

// Keys the parser understands at the scene level. Anything else lands in
// Scene.Extra so newer script generators do not break older renderers.
const (
	keyNarration   = "narration"
	keyVisual      = "visual"
	keyDuration    = "duration"
	keyRatio       = "ratio"
	keyTTS         = "tts_settings"
	keyVideo       = "video_settings"
	keyCode        = "code"
	keyTransitions = "transitions"
	keyAssets      = "assets"
)

// Parse turns raw unified-script text into an ordered scene list. Scene
// markers are `[scene N]` with N strictly increasing from 1; partial
// results are never returned because duration reconciliation needs the
// complete set.
func Parse(text string) ([]types.Scene, error) {
	blocks, err := splitScenes(text)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, &ParseError{Reason: "no [scene N] markers found"}
	}

	scenes := make([]types.Scene, 0, len(blocks))
	for _, b := range blocks {
		sc, err := parseScene(b)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, nil
}

type sceneBlock struct {
	index int
	lines []string
}

func splitScenes(text string) ([]sceneBlock, error) {
	var blocks []sceneBlock
	var cur *sceneBlock

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if n, ok := sceneMarker(trimmed); ok {
			want := 1
			if cur != nil {
				want = cur.index + 1
			}
			if n != want {
				return nil, &ParseError{
					SceneIndex: n,
					Reason:     fmt.Sprintf("scene numbers must increase by 1, expected %d", want),
				}
			}
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &sceneBlock{index: n}
			continue
		}
		if trimmed == "---" {
			// Scene separator, carries no content.
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, line)
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks, nil
}

func sceneMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, "[scene") || !strings.HasSuffix(line, "]") {
		return 0, false
	}
	numStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "[scene"), "]"))
	n, err := strconv.Atoi(numStr)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseScene(b sceneBlock) (types.Scene, error) {
	sc := types.Scene{
		Index: b.index,
		Ratio: types.AspectWidescreen,
		Extra: map[string]string{},
	}
	seen := map[string]bool{}

	for i := 0; i < len(b.lines); i++ {
		line := b.lines[i]
		key, value, ok := topLevelField(line)
		if !ok {
			continue
		}
		seen[key] = true

		switch key {
		case keyNarration:
			text, next := fieldText(b.lines, i, value)
			sc.Narration = text
			i = next
		case keyVisual:
			text, next := fieldText(b.lines, i, value)
			sc.Visual = text
			i = next
		case keyDuration:
			d, err := parseDuration(value)
			if err != nil {
				return types.Scene{}, &ParseError{SceneIndex: b.index, Field: keyDuration, Reason: err.Error()}
			}
			sc.NominalDuration = d
		case keyRatio:
			sc.Ratio = parseRatio(unquote(value))
		case keyTTS:
			m, next := nestedBlock(b.lines, i)
			sc.TTS = ttsFromMap(m)
			i = next
		case keyVideo:
			m, next := nestedBlock(b.lines, i)
			sc.Video = videoFromMap(m)
			i = next
		case keyCode:
			code, next := parseCodeBlock(b.lines, i)
			sc.Code = code
			i = next
		case "code.content":
			// Shorthand form some generators emit: the body is visual-only.
			text, next := fieldText(b.lines, i, value)
			sc.Code = &types.CodeBlock{Content: stripFences(text)}
			i = next
		case keyTransitions:
			m, next := nestedBlock(b.lines, i)
			sc.TransitionNext = m["next"]
			i = next
		case keyAssets:
			m, next := nestedBlock(b.lines, i)
			sc.Assets = assetsFromMap(m)
			i = next
		default:
			text, next := fieldText(b.lines, i, value)
			sc.Extra[key] = text
			i = next
		}
	}

	for _, required := range []string{keyNarration, keyVisual, keyDuration} {
		if !seen[required] {
			return types.Scene{}, &ParseError{SceneIndex: b.index, Field: required, Reason: "missing required field"}
		}
	}
	if strings.TrimSpace(sc.Visual) == "" {
		return types.Scene{}, &ParseError{SceneIndex: b.index, Field: keyVisual, Reason: "must not be empty"}
	}
	return sc, nil
}

// topLevelField matches `key: value` and `key:` lines at zero indentation.
func topLevelField(line string) (key, value string, ok bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", "", false
	}
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	if strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(line[idx+1:]), true
}

// fieldText resolves a field value that is either inline or a `|` block of
// indented lines. Returns the index of the last consumed line.
func fieldText(lines []string, i int, inline string) (string, int) {
	if inline != "|" {
		return unquote(inline), i
	}
	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		line := lines[j]
		if strings.TrimSpace(line) == "" {
			body = append(body, "")
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		body = append(body, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(body, "\n")), j - 1
}

// nestedBlock reads an indented `key: value` map under a section header.
func nestedBlock(lines []string, i int) (map[string]string, int) {
	m := map[string]string{}
	var listKey string
	j := i + 1
	for ; j < len(lines); j++ {
		line := lines[j]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		if strings.HasPrefix(trimmed, "- ") {
			if listKey != "" {
				item := unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "- ")))
				if m[listKey] == "" {
					m[listKey] = item
				} else {
					m[listKey] += "\n" + item
				}
			}
			continue
		}
		idx := strings.Index(trimmed, ":")
		if idx <= 0 {
			continue
		}
		k := strings.TrimSpace(trimmed[:idx])
		v := strings.TrimSpace(trimmed[idx+1:])
		if v == "" {
			listKey = k
			m[k] = ""
			continue
		}
		listKey = ""
		m[k] = unquote(v)
	}
	return m, j - 1
}

// parseCodeBlock reads the code section: a read_aloud flag plus a `content: |`
// body. Markdown fences inside the body are stripped.
func parseCodeBlock(lines []string, i int) (*types.CodeBlock, int) {
	code := &types.CodeBlock{}
	j := i + 1
	for ; j < len(lines); j++ {
		line := lines[j]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		switch {
		case strings.HasPrefix(trimmed, "read_aloud:"):
			code.ReadAloud = strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(trimmed, "read_aloud:")), "true")
		case strings.HasPrefix(trimmed, "content:"):
			var body []string
			base := indentOf(line)
			for j++; j < len(lines); j++ {
				inner := lines[j]
				if strings.TrimSpace(inner) == "" {
					body = append(body, "")
					continue
				}
				if indentOf(inner) <= base {
					break
				}
				body = append(body, strings.TrimPrefix(strings.TrimPrefix(inner, strings.Repeat(" ", base)), "\t"))
			}
			code.Content = stripFences(strings.TrimRight(strings.Join(body, "\n"), "\n"))
			j--
		}
	}
	return code, j - 1
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

func stripFences(code string) string {
	lines := strings.Split(strings.TrimSpace(code), "\n")
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// parseDuration accepts `8s`, `15.5s`, optionally quoted. Bare numbers are
// treated as seconds.
func parseDuration(raw string) (time.Duration, error) {
	s := strings.TrimSpace(unquote(raw))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	s = strings.TrimSuffix(s, "s")
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if sec <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", raw)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func parseRatio(s string) types.AspectRatio {
	switch s {
	case "9:16", "vertical":
		return types.AspectVertical
	default:
		return types.AspectWidescreen
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func ttsFromMap(m map[string]string) types.TTSSettings {
	tts := types.TTSSettings{Speed: 1.05, Tone: "Educational and energetic"}
	if v, ok := m["speed"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			tts.Speed = f
		}
	}
	if v, ok := m["tone"]; ok && v != "" {
		tts.Tone = v
	}
	if v, ok := m["pauses"]; ok && v != "" {
		tts.Pauses = strings.Split(v, "\n")
	}
	return tts
}

func videoFromMap(m map[string]string) types.VideoSettings {
	vs := types.VideoSettings{
		Camera:     "static front",
		Mood:       "modern, clean, minimal",
		Background: "dark gradient",
	}
	if v, ok := m["camera"]; ok && v != "" {
		vs.Camera = v
	}
	if v, ok := m["mood"]; ok && v != "" {
		vs.Mood = v
	}
	if v, ok := m["animation"]; ok {
		vs.Animation = v
	}
	if v, ok := m["background"]; ok && v != "" {
		vs.Background = v
	}
	return vs
}

func assetsFromMap(m map[string]string) *types.Assets {
	a := &types.Assets{}
	a.Music = m["music"]
	a.Diagram = m["diagram"]
	if raw, ok := m["icons"]; ok && raw != "" {
		raw = strings.Trim(raw, "[]")
		for _, part := range strings.Split(raw, ",") {
			if icon := unquote(strings.TrimSpace(part)); icon != "" {
				a.Icons = append(a.Icons, icon)
			}
		}
	}
	if a.Music == "" && a.Diagram == "" && len(a.Icons) == 0 {
		return nil
	}
	return a
}
