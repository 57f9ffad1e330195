package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/query"
	"github.com/bassjack1/monsterid/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	src := catalog.NewFileSource(filepath.Join("..", "catalog", "testdata"), "", "")
	cat, err := catalog.Load(context.Background(), src)
	require.NoError(t, err)

	if cfg.DefaultPartySize == 0 {
		cfg.DefaultPartySize = 6
	}
	s, err := New(cfg, cat, nil)
	require.NoError(t, err)
	return s
}

func TestGetToolSchemas(t *testing.T) {
	expectedTools := []string{"monster_identify", "monster_codes", "monster_groups", "monster_check"}

	for _, name := range expectedTools {
		schema, ok := toolSchemaRegistry[name]
		if !ok {
			t.Errorf("toolSchemaRegistry missing tool: %s", name)
			continue
		}
		if schema.Name != name {
			t.Errorf("schema name mismatch: got %q, want %q", schema.Name, name)
		}
		if schema.Description == "" {
			t.Errorf("tool %s has empty description", name)
		}
	}

	if len(toolSchemaRegistry) != len(expectedTools) {
		t.Errorf("toolSchemaRegistry has %d tools, want %d", len(toolSchemaRegistry), len(expectedTools))
	}
}

func TestToolSchemaParameters(t *testing.T) {
	schema := toolSchemaRegistry["monster_identify"]
	found := false
	for _, p := range schema.Parameters {
		if p.Name == "query" {
			found = true
			assert.True(t, p.Required, "query should be required")
		}
		if p.Name == "split" {
			assert.False(t, p.Required, "split should be optional")
		}
	}
	assert.True(t, found, "monster_identify missing query parameter")

	for _, name := range []string{"monster_codes", "monster_groups", "monster_check"} {
		assert.Empty(t, toolSchemaRegistry[name].Parameters, "tool %s takes no parameters", name)
	}
}

func TestAllToolsMatchRegistry(t *testing.T) {
	registryNames := make([]string, 0, len(toolSchemaRegistry))
	for name := range toolSchemaRegistry {
		registryNames = append(registryNames, name)
	}
	sort.Strings(registryNames)

	allSorted := make([]string, len(AllTools))
	copy(allSorted, AllTools)
	sort.Strings(allSorted)

	assert.Equal(t, allSorted, registryNames)
}

func TestNewRejectsUnknownTool(t *testing.T) {
	src := catalog.NewFileSource(filepath.Join("..", "catalog", "testdata"), "", "")
	cat, err := catalog.Load(context.Background(), src)
	require.NoError(t, err)

	_, err = New(Config{Tools: []string{"monster_identify", "cx_find"}}, cat, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cx_find")
}

func TestListToolsSubset(t *testing.T) {
	s := testServer(t, Config{Tools: []string{"monster_groups", "monster_codes"}})
	assert.Equal(t, []string{"monster_codes", "monster_groups"}, s.ListTools())

	schemas := s.GetToolSchemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "monster_codes", schemas[0].Name)

	_, err := s.CallTool("monster_identify", map[string]interface{}{"query": "1sh8x"})
	assert.Error(t, err, "unregistered tool must not be callable")
}

func TestCallToolIdentify(t *testing.T) {
	s := testServer(t, Config{})

	out, err := s.CallTool("monster_identify", map[string]interface{}{"query": "5pri1mil1176x"})
	require.NoError(t, err)

	var got report.IdentifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "identified", got.Status)
	assert.Equal(t, 1176, got.Experience)
	assert.Equal(t, 6, got.PartySize)
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, []report.CountLine{
		{Key: "l5p", Name: "lvl 5 priest", Count: 5},
		{Key: "mtl", Name: "master thief (lo)", Count: 1},
	}, got.Assignments[0].Monsters)
}

func TestCallToolIdentifyAmbiguous(t *testing.T) {
	s := testServer(t, Config{})

	out, err := s.CallTool("monster_identify", map[string]interface{}{"query": "1sh 8x 6c"})
	require.NoError(t, err)

	var got report.IdentifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ambiguous", got.Status)
	assert.Len(t, got.Assignments, 2)
}

func TestCallToolIdentifySplit(t *testing.T) {
	s := testServer(t, Config{})

	out, err := s.CallTool("monster_identify", map[string]interface{}{"query": "1sh8x", "split": true})
	require.NoError(t, err)

	var got report.IdentifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Split)
}

func TestCallToolIdentifyErrors(t *testing.T) {
	s := testServer(t, Config{})

	_, err := s.CallTool("monster_identify", map[string]interface{}{})
	assert.Error(t, err)

	_, err = s.CallTool("monster_identify", map[string]interface{}{"query": "5pri"})
	assert.ErrorIs(t, err, query.ErrMissingExperience)
	assert.Contains(t, err.Error(), "expected input format is one or more <int><code> pairs")

	_, err = s.CallTool("monster_identify", map[string]interface{}{"query": "2zzz10x"})
	require.Error(t, err)
	var se *query.SyntaxError
	assert.ErrorAs(t, err, &se)
	for _, code := range []string{"mil mir pri", "mtl", "l5p"} {
		assert.True(t, strings.Contains(err.Error(), code), "input errors list the code %q: %v", code, err)
	}
	assert.Contains(t, err.Error(), "x (for experience points awarded per character)")
}

func TestCallToolCatalogViews(t *testing.T) {
	s := testServer(t, Config{})

	out, err := s.CallTool("monster_codes", nil)
	require.NoError(t, err)
	var codes report.CodesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &codes))
	assert.Len(t, codes.Groups, 7)
	assert.Len(t, codes.Monsters, 13)

	out, err = s.CallTool("monster_groups", nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"multi_occurring"`)

	out, err = s.CallTool("monster_check", nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"empty_groups"`)
}

func TestCallToolUnknown(t *testing.T) {
	s := testServer(t, Config{})
	_, err := s.CallTool("cx_show", nil)
	assert.Error(t, err)
}
