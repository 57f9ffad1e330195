package graph

import (
	"strings"
	"testing"

	"github.com/bassjack1/monsterid/internal/catalog"
)

func TestMermaidByGroup(t *testing.T) {
	cat := loadFixture(t)
	g, _ := Build(cat, nil)

	out := Mermaid(cat, g, nil)

	if !strings.HasPrefix(out, "flowchart LR\n") {
		t.Errorf("expected flowchart LR header, got:\n%s", out)
	}
	for _, want := range []string{
		"    subgraph group_sh[\"small humanoid\"]\n",
		"        k[\"kobold\"]\n",
		"        o[\"orc\"]\n",
		"    k --> o\n",
		"    o --> k\n",
		"    mtl --> l5p\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "group_dra") {
		t.Error("groups without monsters should not get a subgraph")
	}
}

func TestMermaidFlat(t *testing.T) {
	cat := loadFixture(t)
	g, _ := Build(cat, nil)

	out := Mermaid(cat, g, &MermaidOptions{Direction: "sideways", Title: "companions"})

	if !strings.HasPrefix(out, "---\ntitle: companions\n---\nflowchart LR\n") {
		t.Errorf("invalid direction should fall back to LR, got:\n%s", out)
	}
	if strings.Contains(out, "subgraph") {
		t.Error("flat diagram should have no subgraphs")
	}
	if !strings.Contains(out, "    gc[\"gas cloud\"]\n") {
		t.Errorf("monsters without companions are still drawn:\n%s", out)
	}
}

func TestMermaidLooseMonsters(t *testing.T) {
	cat, err := catalog.New(
		[]catalog.Group{{Key: "sh", Name: "small humanoid"}},
		[]catalog.Monster{
			{Key: "k", Name: "kobold", GroupKey: "sh", XP: 50},
			{Key: "w", Name: "werdna", GroupKey: "boss", XP: 9000, CoOccurKeys: []string{"k"}},
		},
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	g, _ := Build(cat, nil)

	out := Mermaid(cat, g, DefaultMermaidOptions())
	if !strings.Contains(out, "    end\n    w[\"werdna\"]\n") {
		t.Errorf("monster with unknown group should follow the subgraphs:\n%s", out)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	tests := map[string]string{
		"l10m":    "l10m",
		"10m":     "_10m",
		"a-b c":   "a_b_c",
		"":        "_empty",
		"group_x": "group_x",
	}
	for in, want := range tests {
		if got := sanitizeMermaidID(in); got != want {
			t.Errorf("sanitizeMermaidID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeMermaidString(t *testing.T) {
	if got := escapeMermaidString(`a "b" <c>`); got != "a #quot;b#quot; #lt;c#gt;" {
		t.Errorf("unexpected escape: %q", got)
	}
}
