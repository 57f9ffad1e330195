package graph

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loadFixture(t *testing.T) *catalog.Catalog {
	t.Helper()
	src := catalog.NewFileSource(filepath.Join("..", "catalog", "testdata"), "", "")
	cat, err := catalog.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load fixture catalog: %v", err)
	}
	return cat
}

func TestBuild(t *testing.T) {
	cat := loadFixture(t)
	g, members := Build(cat, nil)

	if g.NodeCount() != 13 {
		t.Errorf("expected 13 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 8 {
		t.Errorf("expected 8 edges, got %d", g.EdgeCount())
	}

	if diff := cmp.Diff([]string{"ch"}, g.Successors("gg")); diff != "" {
		t.Errorf("Successors(gg) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ch", "mtm"}, sorted(g.Predecessors("aml"))); diff != "" {
		t.Errorf("Predecessors(aml) mismatch (-want +got):\n%s", diff)
	}
	if g.InDegree("aml") != 2 || g.OutDegree("aml") != 0 {
		t.Errorf("aml degrees = in %d out %d, want in 2 out 0", g.InDegree("aml"), g.OutDegree("aml"))
	}

	wantMembers := Members{
		"dra": {},
		"gas": {"gc"},
		"mil": {"mth", "mtl", "mtm"},
		"mir": {"aml", "l10m"},
		"pri": {"l1p", "l3p", "l5p"},
		"sa":  {"ch", "gg"},
		"sh":  {"k", "o"},
	}
	if diff := cmp.Diff(wantMembers, members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if got := members.Of("dra"); len(got) != 0 {
		t.Errorf("expected empty dragon group, got %v", got)
	}
}

func TestBuildWarnsOnUnknownGroup(t *testing.T) {
	cat, err := catalog.New(
		[]catalog.Group{{Key: "sa", Name: "strange animal"}},
		[]catalog.Monster{
			{Key: "gg", Name: "gorgon", GroupKey: "sa", XP: 2920},
			{Key: "wr", Name: "wererat", GroupKey: "wer", XP: 300},
		},
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	core, logs := observer.New(zap.WarnLevel)
	g, members := Build(cat, zap.New(core))

	if g.NodeCount() != 2 {
		t.Errorf("orphan monster should still be a node, got %d nodes", g.NodeCount())
	}
	if _, ok := members["wer"]; ok {
		t.Error("unknown group must not appear in members")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["monster"] != "wr" {
		t.Errorf("warning should name the monster, got %v", entry.ContextMap())
	}
}

func TestChains(t *testing.T) {
	cat := loadFixture(t)
	g, _ := Build(cat, nil)

	tests := []struct {
		start string
		want  []string
	}{
		{"aml", []string{"aml"}},
		{"l3p", []string{"l3p,l1p"}},
		{"l10m", []string{"l10m,gg,ch,aml"}},
		{"k", []string{"k,o,k,o"}},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			var got []string
			for _, c := range g.Chains(tt.start) {
				got = append(got, c.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Chains(%s) mismatch (-want +got):\n%s", tt.start, diff)
			}
		})
	}
}

func TestChainsFanOut(t *testing.T) {
	g := New()
	g.AddEdge("hs", "bb")
	g.AddEdge("hs", "sh")
	g.AddEdge("bb", "hs")
	g.AddNode("sh")

	var got []string
	for _, c := range g.Chains("hs") {
		got = append(got, c.String())
	}
	want := []string{"hs,sh", "hs,bb,hs,bb", "hs,bb,hs,sh"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fan-out chains mismatch (-want +got):\n%s", diff)
	}
}

func TestChainsBoundedOnCycles(t *testing.T) {
	cases := map[string]*Graph{
		"self loop": func() *Graph {
			g := New()
			g.AddEdge("a", "a")
			return g
		}(),
		"two cycle": func() *Graph {
			g := New()
			g.AddEdge("a", "b")
			g.AddEdge("b", "a")
			return g
		}(),
		"dense": func() *Graph {
			g := New()
			for _, from := range []string{"a", "b", "c"} {
				for _, to := range []string{"a", "b", "c"} {
					g.AddEdge(from, to)
				}
			}
			return g
		}(),
	}

	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			chains := g.AllChains()
			if len(chains) == 0 {
				t.Fatal("expected chains")
			}
			for _, c := range chains {
				if len(c) > MaxChainLength {
					t.Errorf("chain %s longer than %d", c, MaxChainLength)
				}
				if len(c) != MaxChainLength {
					t.Errorf("chain %s on a cycle should reach the cap", c)
				}
			}
		})
	}
}

func TestAllChains(t *testing.T) {
	cat := loadFixture(t)
	g, _ := Build(cat, nil)

	var got []string
	for _, c := range g.AllChains() {
		got = append(got, c.String())
	}
	want := []string{
		"aml",
		"ch,aml",
		"gc",
		"gg,ch,aml",
		"k,o,k,o",
		"l10m,gg,ch,aml",
		"l1p",
		"l3p,l1p",
		"l5p",
		"mth",
		"mtl,l5p",
		"mtm,aml",
		"o,k,o,k",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllChains mismatch (-want +got):\n%s", diff)
	}
}

func TestChainsDoNotShareBackingArrays(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("b", "e")

	chains := g.Chains("a")
	var got []string
	for _, c := range chains {
		got = append(got, c.String())
	}
	want := []string{"a,c", "a,b,d", "a,b,e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chains mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := New()
		g.AddEdge("l10m", "gg")
		g.AddEdge("gg", "ch")
		if has, cycle := g.FindCycles(); has {
			t.Errorf("unexpected cycle %v", cycle)
		}
	})

	t.Run("two cycle", func(t *testing.T) {
		g := New()
		g.AddEdge("k", "o")
		g.AddEdge("o", "k")
		has, cycle := g.FindCycles()
		if !has {
			t.Fatal("expected a cycle")
		}
		if diff := cmp.Diff([]string{"k", "o", "k"}, cycle); diff != "" {
			t.Errorf("cycle mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("longer cycle", func(t *testing.T) {
		g := New()
		g.AddEdge("s", "rc")
		g.AddEdge("rc", "gm")
		g.AddEdge("gm", "s")
		has, cycle := g.FindCycles()
		if !has {
			t.Fatal("expected a cycle")
		}
		if diff := cmp.Diff([]string{"gm", "s", "rc", "gm"}, cycle); diff != "" {
			t.Errorf("cycle mismatch (-want +got):\n%s", diff)
		}
	})
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
