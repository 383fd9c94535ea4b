// Package visual maps a scene's free-text visual description to a fixed
// renderer strategy. Classification is heuristic keyword matching with an
// explicit precedence order; it never fails, only degrades to generic.
package visual

import (
	"strings"

	"github.com/forPelevin/scenecast/internal/types"
)

// Classification is the classifier's verdict for one scene.
type Classification struct {
	Strategy types.Strategy
	// Entities are the diagram nodes extracted from the description, in
	// order of appearance. Only populated for the diagram strategy.
	Entities []string
}

type rule struct {
	strategy types.Strategy
	match    func(lower string) bool
}

func triggers(phrases ...string) func(string) bool {
	return func(lower string) bool {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
}

// Rules are evaluated top-down, first match wins. Order is load-bearing:
// a description mentioning both code and a diagram renders as code.
var rules = []rule{
	{types.StrategyCodeDisplay, triggers("code", "snippet", "editor", "syntax", "terminal", "typing")},
	{types.StrategyDiagram, triggers("diagram", "flowchart", "circles", "arrows", "flow", "architecture", "nodes connected")},
	{types.StrategyBulletText, triggers("bullet", "text overlay", "checklist", "key points")},
	{types.StrategyTitleCard, triggers("title", "card", "headline")},
	{types.StrategyLogoAnimation, triggers("logo", "geometric shapes", "intro animation")},
	{types.StrategyScreenshot, triggers("screenshot", "screen capture", "screen recording", "browser window")},
	{types.StrategyCallToAction, triggers("call to action", "cta", "subscribe", "like and", "follow")},
}

// Classify assigns exactly one strategy to a visual description. A chain of
// two or more technology-like entities ("MongoDB to Express.js to React")
// classifies as diagram even without a diagram keyword, so data-flow
// descriptions never fall through to generic.
func Classify(visualDescription string) Classification {
	lower := strings.ToLower(visualDescription)

	for _, r := range rules {
		if !r.match(lower) {
			continue
		}
		c := Classification{Strategy: r.strategy}
		if r.strategy == types.StrategyDiagram {
			c.Entities = ExtractEntities(visualDescription)
		}
		return c
	}

	if ents := ExtractEntities(visualDescription); len(ents) >= 2 {
		return Classification{Strategy: types.StrategyDiagram, Entities: ents}
	}
	return Classification{Strategy: types.StrategyGeneric}
}
