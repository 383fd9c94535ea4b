package render

import (
	"fmt"
	"strings"

	"github.com/forPelevin/scenecast/internal/types"
)

// buildSceneFilter assembles the full filter chain for one scene. The
// strategy template draws first, then camera movement and entrance
// animation transform the composition, and the narration subtitle is
// drawn last so it stays static and readable.
func buildSceneFilter(sc types.Scene, width, height, fps int, durSec float64) string {
	th := themeFor(sc.Video.Background)
	fb := newFilterBuilder()

	strategy := sc.Strategy
	if strategy == types.StrategyDiagram && len(sc.Entities) < 2 {
		// Not enough extracted nodes to draw a meaningful graph.
		strategy = types.StrategyGeneric
	}

	switch strategy {
	case types.StrategyCodeDisplay:
		addCodeEditor(fb, sc, width, height, durSec)
	case types.StrategyDiagram:
		addDiagram(fb, sc.Entities, width, height)
	case types.StrategyBulletText:
		addBullets(fb, sc, th, width, height, durSec)
	case types.StrategyTitleCard:
		addTitleCard(fb, sc, th, width, height)
	case types.StrategyLogoAnimation:
		addLogo(fb, sc, width, height)
	case types.StrategyScreenshot:
		addScreenshot(fb, sc, width, height)
	case types.StrategyCallToAction:
		addCallToAction(fb, sc, width, height)
	default:
		addGeneric(fb, sc, th, width, height)
	}

	fb.zoomPan(sc.Video.Camera, width, height, fps, durSec)
	if strings.Contains(strings.ToLower(sc.Video.Animation), "fade") {
		fb.fadeIn(1.0)
	}
	if strategy != types.StrategyGeneric {
		addSubtitle(fb, sc.Narration, width, height)
	}
	return fb.build()
}

func addGeneric(fb *filterBuilder, sc types.Scene, th theme, width, height int) {
	lines := wrapText(cleanOverlayText(sc.Narration), 44)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	lineHeight := 72
	startY := height/2 - len(lines)*lineHeight/2
	for i, line := range lines {
		fb.drawText(drawTextOpts{
			text:  line,
			x:     "(w-text_w)/2",
			y:     fmt.Sprintf("%d", startY+i*lineHeight),
			size:  52,
			color: th.text,
		})
	}
}

func addTitleCard(fb *filterBuilder, sc types.Scene, th theme, width, height int) {
	title := titleFrom(sc)
	// Accent bar under the title anchors the card visually.
	fb.drawBox(width/2-220, height/2+70, 440, 10, colorAccent, 1.0)
	fb.drawText(drawTextOpts{
		text:  title,
		x:     "(w-text_w)/2",
		y:     fmt.Sprintf("%d", height/2-60),
		size:  96,
		color: colorPrimary,
	})
	if sc.Video.Mood != "" {
		fb.drawText(drawTextOpts{
			text:  strings.TrimSpace(strings.Split(sc.Video.Mood, ",")[0]),
			x:     "(w-text_w)/2",
			y:     fmt.Sprintf("%d", height/2+110),
			size:  36,
			color: th.text,
		})
	}
}

func addCodeEditor(fb *filterBuilder, sc types.Scene, width, height int, durSec float64) {
	edX, edY := width/8, height/6
	edW, edH := width*3/4, height*2/3

	fb.drawBox(edX+8, edY+8, edW, edH, "black", 0.5) // drop shadow
	fb.drawBox(edX, edY, edW, edH, colorCodeBG, 1.0)
	fb.drawBox(edX, edY, edW, 50, colorPrimaryDark, 1.0)
	// Traffic-light window dots.
	for i, c := range []string{"0xFF5F57", "0xFFBD2E", "0x28C940"} {
		fb.drawBox(edX+20+i*26, edY+18, 14, 14, c, 1.0)
	}

	code := ""
	if sc.Code != nil {
		code = sc.Code.Content
	}
	if strings.TrimSpace(code) == "" {
		code = cleanOverlayText(sc.Visual)
	}
	lines := strings.Split(code, "\n")
	if len(lines) > 15 {
		lines = lines[:15]
	}

	// Line reveal paced to fill the scene: the last line appears well
	// before the end so it stays readable.
	interval := durSec * 0.7 / float64(len(lines))
	for i, line := range lines {
		color := colorCodeText
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			color = "0x6B7280"
		} else if hasKeyword(trimmed) {
			color = colorKeyword
		}
		fb.drawText(drawTextOpts{
			text:       line,
			x:          fmt.Sprintf("%d", edX+30),
			y:          fmt.Sprintf("%d", edY+80+i*46),
			size:       30,
			color:      color,
			enableFrom: float64(i) * interval,
		})
	}
}

func hasKeyword(line string) bool {
	for _, kw := range []string{"function ", "const ", "let ", "var ", "return ", "func ", "def "} {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

func addDiagram(fb *filterBuilder, entities []string, width, height int) {
	n := len(entities)
	if n > 6 {
		entities, n = entities[:6], 6
	}

	if height > width {
		// Vertical layout for portrait output.
		boxW, boxH := width*3/5, 110
		gap := (height - n*boxH - 400) / (n + 1)
		x := (width - boxW) / 2
		for i, ent := range entities {
			y := 200 + gap + i*(boxH+gap)
			fb.drawBox(x, y, boxW, boxH, colorPrimary, 1.0)
			fb.drawText(drawTextOpts{
				text:  ent,
				x:     "(w-text_w)/2",
				y:     fmt.Sprintf("%d", y+boxH/2-20),
				size:  40,
				color: colorTextLight,
			})
			if i < n-1 {
				fb.drawBox(width/2-4, y+boxH, 8, gap, colorPrimaryDark, 1.0)
			}
		}
		return
	}

	boxH := 110
	gap := 80
	boxW := (width - 240 - gap*(n-1)) / n
	y := height/2 - boxH/2
	for i, ent := range entities {
		x := 120 + i*(boxW+gap)
		fb.drawBox(x, y, boxW, boxH, colorPrimary, 1.0)
		fb.drawText(drawTextOpts{
			text:  ent,
			x:     fmt.Sprintf("%d+(%d-text_w)/2", x, boxW),
			y:     fmt.Sprintf("%d", y+boxH/2-18),
			size:  34,
			color: colorTextLight,
		})
		if i < n-1 {
			fb.drawBox(x+boxW, y+boxH/2-4, gap, 8, colorPrimaryDark, 1.0)
		}
	}
}

func addBullets(fb *filterBuilder, sc types.Scene, th theme, width, height int, durSec float64) {
	items := bulletItems(sc)
	if len(items) == 0 {
		addGeneric(fb, sc, th, width, height)
		return
	}

	lineHeight := 90
	startY := height / 3
	leftMargin := width / 6
	// Bullets appear one after another over the first part of the scene.
	interval := durSec * 0.6 / float64(len(items))
	for i, item := range items {
		y := startY + i*lineHeight
		fb.drawBox(leftMargin-34, y+14, 18, 18, colorPrimary, 1.0)
		fb.drawText(drawTextOpts{
			text:       item,
			x:          fmt.Sprintf("%d", leftMargin),
			y:          fmt.Sprintf("%d", y),
			size:       42,
			color:      th.text,
			enableFrom: float64(i) * interval,
		})
	}
}

// bulletItems prefers explicit `-` items in the visual description and
// falls back to narration sentences, mirroring how authors write these
// scenes.
func bulletItems(sc types.Scene) []string {
	var items []string
	for _, line := range strings.Split(sc.Visual, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
			items = append(items, strings.TrimSpace(strings.TrimLeft(line, "-• ")))
		}
	}
	if len(items) == 0 {
		for _, sent := range strings.Split(cleanOverlayText(sc.Narration), ".") {
			sent = strings.TrimSpace(sent)
			if len(sent) > 5 {
				items = append(items, sent)
			}
		}
	}
	if len(items) > 5 {
		items = items[:5]
	}
	for i, item := range items {
		if len(item) > 60 {
			items[i] = item[:57] + "..."
		}
	}
	return items
}

func addLogo(fb *filterBuilder, sc types.Scene, width, height int) {
	fb.drawText(drawTextOpts{
		text:      titleFrom(sc),
		x:         "(w-text_w)/2",
		y:         fmt.Sprintf("%d", height/2-140),
		size:      160,
		color:     colorAccent,
		alphaExpr: "0.75+0.25*sin(2*PI*t)",
	})
}

func addScreenshot(fb *filterBuilder, sc types.Scene, width, height int) {
	winX, winY := width/10, height/8
	winW, winH := width*4/5, height*3/4

	fb.drawBox(winX+10, winY+10, winW, winH, "black", 0.4)
	fb.drawBox(winX, winY, winW, winH, colorBGLight, 1.0)
	fb.drawBox(winX, winY, winW, 56, "0xE2E8F0", 1.0)
	fb.drawBox(winX+90, winY+12, winW-180, 32, "white", 1.0)

	lines := wrapText(cleanOverlayText(sc.Visual), 52)
	if len(lines) > 6 {
		lines = lines[:6]
	}
	for i, line := range lines {
		fb.drawText(drawTextOpts{
			text:  line,
			x:     fmt.Sprintf("%d", winX+60),
			y:     fmt.Sprintf("%d", winY+120+i*56),
			size:  34,
			color: colorTextDark,
		})
	}
}

func addCallToAction(fb *filterBuilder, sc types.Scene, width, height int) {
	fb.drawBox(width/2-420, height/2-110, 840, 220, colorPrimary, 0.9)
	text := titleFrom(sc)
	if text == "" {
		text = "Subscribe"
	}
	fb.drawText(drawTextOpts{
		text:  text,
		x:     "(w-text_w)/2",
		y:     fmt.Sprintf("%d", height/2-40),
		size:  72,
		color: colorTextLight,
	})
}

func addSubtitle(fb *filterBuilder, narration string, width, height int) {
	text := cleanOverlayText(narration)
	if text == "" {
		return
	}
	lines := wrapText(text, 60)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	lineHeight := 48
	startY := height - 120 - len(lines)*lineHeight
	for i, line := range lines {
		fb.drawText(drawTextOpts{
			text:     line,
			x:        "(w-text_w)/2",
			y:        fmt.Sprintf("%d", startY+i*lineHeight),
			size:     38,
			color:    colorTextLight,
			box:      true,
			boxColor: "black@0.75",
		})
	}
}

// titleFrom derives a short display title: the first three words of the
// opening narration sentence, capped at 30 characters.
func titleFrom(sc types.Scene) string {
	source := cleanOverlayText(sc.Narration)
	if source == "" {
		source = cleanOverlayText(sc.Visual)
	}
	first := strings.SplitN(source, ".", 2)[0]
	words := strings.Fields(first)
	if len(words) > 3 {
		words = words[:3]
	}
	title := strings.Join(words, " ")
	if len(title) > 30 {
		title = title[:27] + "..."
	}
	return title
}

func cleanOverlayText(s string) string {
	s = strings.ReplaceAll(s, "`", "")
	return strings.Join(strings.Fields(s), " ")
}

func wrapText(s string, maxChars int) []string {
	if s == "" {
		return nil
	}
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		if cur == "" {
			cur = word
			continue
		}
		if len(cur)+1+len(word) > maxChars {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur += " " + word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
