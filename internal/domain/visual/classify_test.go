package visual

import (
	"reflect"
	"testing"

	"github.com/forPelevin/scenecast/internal/types"
)

func TestClassify_KeywordRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		visual string
		want   types.Strategy
	}{
		{"code editor", "Code editor typing out a function line by line", types.StrategyCodeDisplay},
		{"terminal", "A terminal session scrolling through output", types.StrategyCodeDisplay},
		{"flowchart", "Flowchart with three connected stages", types.StrategyDiagram},
		{"architecture", "High level architecture of the system", types.StrategyDiagram},
		{"bullets", "Bullet points appearing one at a time", types.StrategyBulletText},
		{"checklist", "A checklist being ticked off", types.StrategyBulletText},
		{"title card", "Bold title card with the episode name", types.StrategyTitleCard},
		{"logo", "Logo pulsing over geometric shapes", types.StrategyLogoAnimation},
		{"screenshot", "Screenshot of the dashboard", types.StrategyScreenshot},
		{"browser", "Browser window showing the docs page", types.StrategyScreenshot},
		{"cta", "Subscribe button animation at the end", types.StrategyCallToAction},
		{"plain scenery", "Calm gradient backdrop, nothing else", types.StrategyGeneric},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.visual)
			if got.Strategy != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.visual, got.Strategy, tc.want)
			}
		})
	}
}

func TestClassify_PrecedenceIsOrdered(t *testing.T) {
	t.Parallel()

	// Code wins over diagram wins over bullets, regardless of word order.
	cases := []struct {
		visual string
		want   types.Strategy
	}{
		{"A diagram next to a code snippet", types.StrategyCodeDisplay},
		{"Bullet list inside a flowchart", types.StrategyDiagram},
		{"Title card with bullet points", types.StrategyBulletText},
	}
	for _, tc := range cases {
		if got := Classify(tc.visual); got.Strategy != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.visual, got.Strategy, tc.want)
		}
	}
}

func TestClassify_DiagramEntities(t *testing.T) {
	t.Parallel()

	got := Classify("Flowchart animation showing data moving from MongoDB to Express.js to React to Node.js")
	if got.Strategy != types.StrategyDiagram {
		t.Fatalf("strategy = %s, want diagram", got.Strategy)
	}
	want := []string{"MongoDB", "Express.js", "React", "Node.js"}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Errorf("entities = %v, want %v", got.Entities, want)
	}
}

func TestClassify_EntityChainWithoutKeyword(t *testing.T) {
	t.Parallel()

	// No diagram keyword anywhere, but a chain of technologies still
	// classifies as diagram.
	got := Classify("Requests travel MongoDB to Express.js to React")
	if got.Strategy != types.StrategyDiagram {
		t.Fatalf("strategy = %s, want diagram", got.Strategy)
	}
	if len(got.Entities) != 3 {
		t.Errorf("entities = %v, want 3 chained names", got.Entities)
	}
}

func TestClassify_SentenceFinalEntityKept(t *testing.T) {
	t.Parallel()

	// A description ending in a period must not lose its last node; with
	// exactly two entities that would demote the whole scene to generic.
	got := Classify("Requests go from MongoDB to PostgreSQL.")
	if got.Strategy != types.StrategyDiagram {
		t.Fatalf("strategy = %s, want diagram", got.Strategy)
	}
	want := []string{"MongoDB", "PostgreSQL"}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Errorf("entities = %v, want %v", got.Entities, want)
	}
}

func TestClassify_DiagramKeywordWithoutEntities(t *testing.T) {
	t.Parallel()

	got := Classify("diagram of a sunset over water")
	if got.Strategy != types.StrategyDiagram {
		t.Fatalf("strategy = %s, want diagram", got.Strategy)
	}
	if len(got.Entities) != 0 {
		t.Errorf("entities = %v, want none", got.Entities)
	}
}

func TestExtractEntities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		visual string
		want   []string
	}{
		{
			name:   "to chain",
			visual: "Data moving from MongoDB to Express.js to React to Node.js",
			want:   []string{"MongoDB", "Express.js", "React", "Node.js"},
		},
		{
			name:   "trailing sentence period",
			visual: "Data moving from MongoDB to Express.js to React to Node.js.",
			want:   []string{"MongoDB", "Express.js", "React", "Node.js"},
		},
		{
			name:   "ascii arrows",
			visual: "Client -> Gateway -> Service",
			want:   []string{"Client", "Gateway", "Service"},
		},
		{
			name:   "unicode arrows",
			visual: "Browser → CDN → Origin",
			want:   []string{"Browser", "CDN", "Origin"},
		},
		{
			name:   "and connector",
			visual: "Boxes for Redis and Postgres and Kafka",
			want:   []string{"Redis", "Postgres", "Kafka"},
		},
		{
			name:   "multi-word names without chain",
			visual: "User Service talking with the Event Loop",
			want:   []string{"User Service", "Event Loop"},
		},
		{
			name:   "single entity is not a chain",
			visual: "A close-up of PostgreSQL",
			want:   nil,
		},
		{
			name:   "no capitalized tokens",
			visual: "soft gradient backdrop with particles",
			want:   nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractEntities(tc.visual)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractEntities(%q) = %v, want %v", tc.visual, got, tc.want)
			}
		})
	}
}
