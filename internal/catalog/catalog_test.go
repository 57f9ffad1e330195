package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"pri", true},
		{"l10m", true},
		{"A", true},
		{"mt-lo", true},
		{"x", false},
		{"X", false},
		{"c", false},
		{"C", false},
		{"10m", false},
		{"", false},
		{"ma n", false},
		{"_comment", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsValidKey(tt.key); got != tt.valid {
				t.Errorf("IsValidKey(%q) = %v, want %v", tt.key, got, tt.valid)
			}
		})
	}
}

func TestEntityKeyTagRegistered(t *testing.T) {
	assert.NoError(t, recordValidate.Var("pri", "entitykey"))
	assert.Error(t, recordValidate.Var("x", "entitykey"))
	assert.Error(t, recordValidate.Var("10m", "entitykey"))
	assert.NotPanics(t, func() {
		_ = recordValidate.Struct(Group{Key: "sh", Name: "small humanoid"})
	})
}

func TestNew(t *testing.T) {
	groups := []Group{
		{Key: "sa", Name: "strange animal", GameGroup: "STRANGE ANIMAL"},
		{Key: "dra", Name: "dragon", GameGroup: "DRAGON"},
	}
	monsters := []Monster{
		{Key: "gg", Name: "gorgon", GroupKey: "sa", XP: 2920, CoOccurKeys: []string{"ch"}},
		{Key: "ch", Name: "chimera", GroupKey: "sa", XP: 1500},
	}

	cat, err := New(groups, monsters)
	require.NoError(t, err)

	assert.Equal(t, []string{"dra", "sa"}, cat.GroupKeys())
	assert.Equal(t, []string{"ch", "gg"}, cat.MonsterKeys())

	kind, ok := cat.KindOf("sa")
	assert.True(t, ok)
	assert.Equal(t, KindGroup, kind)
	kind, ok = cat.KindOf("gg")
	assert.True(t, ok)
	assert.Equal(t, KindMonster, kind)
	_, ok = cat.KindOf("zz")
	assert.False(t, ok)

	assert.Equal(t, "gorgon", cat.DisplayName("gg"))
	assert.Equal(t, "strange animal", cat.DisplayName("sa"))

	// Records are copied on construction.
	monsters[0].XP = 1
	m, _ := cat.Monster("gg")
	assert.Equal(t, 2920, m.XP)
}

func TestNewErrors(t *testing.T) {
	group := Group{Key: "sa", Name: "strange animal"}
	monster := func(key string, co ...string) Monster {
		return Monster{Key: key, Name: key, GroupKey: "sa", XP: 10, CoOccurKeys: co}
	}

	tests := []struct {
		name     string
		groups   []Group
		monsters []Monster
		want     error
	}{
		{
			name:   "duplicate group",
			groups: []Group{group, group},
			want:   ErrDuplicateKey,
		},
		{
			name:     "duplicate monster",
			groups:   []Group{group},
			monsters: []Monster{monster("gg"), monster("gg")},
			want:     ErrDuplicateKey,
		},
		{
			name:     "monster key shadows group key",
			groups:   []Group{group},
			monsters: []Monster{monster("sa")},
			want:     ErrDuplicateKey,
		},
		{
			name:   "reserved group key",
			groups: []Group{{Key: "x", Name: "reserved"}},
			want:   ErrInvalidKey,
		},
		{
			name:     "monster key with digit first",
			groups:   []Group{group},
			monsters: []Monster{monster("9lives")},
			want:     ErrInvalidKey,
		},
		{
			name:     "negative xp",
			groups:   []Group{group},
			monsters: []Monster{{Key: "gg", Name: "gorgon", GroupKey: "sa", XP: -5}},
			want:     ErrInvalidRecord,
		},
		{
			name:     "missing name",
			groups:   []Group{group},
			monsters: []Monster{{Key: "gg", GroupKey: "sa"}},
			want:     ErrInvalidRecord,
		},
		{
			name:     "unknown companion",
			groups:   []Group{group},
			monsters: []Monster{monster("gg", "ch")},
			want:     ErrUnknownCompanion,
		},
		{
			name:     "self companion",
			groups:   []Group{group},
			monsters: []Monster{monster("gg", "gg")},
			want:     ErrSelfCompanion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.groups, tt.monsters)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAllowsUnknownGroup(t *testing.T) {
	cat, err := New(nil, []Monster{{Key: "gg", Name: "gorgon", GroupKey: "nope", XP: 1}})
	require.NoError(t, err)
	_, ok := cat.Monster("gg")
	assert.True(t, ok)
}

func TestNewAllowsCycles(t *testing.T) {
	groups := []Group{{Key: "sh", Name: "small humanoid"}}
	monsters := []Monster{
		{Key: "k", Name: "kobold", GroupKey: "sh", XP: 50, CoOccurKeys: []string{"o"}},
		{Key: "o", Name: "orc", GroupKey: "sh", XP: 52, CoOccurKeys: []string{"k"}},
	}
	_, err := New(groups, monsters)
	require.NoError(t, err)
}

func TestFileSource(t *testing.T) {
	src := NewFileSource("testdata", "", "")
	cat, err := Load(context.Background(), src)
	require.NoError(t, err)

	assert.Len(t, cat.GroupKeys(), 7)
	assert.Len(t, cat.MonsterKeys(), 13)
	_, ok := cat.Monster(commentKey)
	assert.False(t, ok, "comment entries must be skipped")

	m, ok := cat.Monster("mtl")
	require.True(t, ok)
	assert.Equal(t, "master thief (lo)", m.Name)
	assert.Equal(t, "MASTER THIEF", m.GameName)
	assert.Equal(t, "mil", m.GroupKey)
	assert.Equal(t, 960, m.XP)
	assert.Equal(t, []string{"l5p"}, m.CoOccurKeys)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(t.TempDir(), "", "")
	_, err := Load(context.Background(), src)
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	cat, err := Load(context.Background(), NewFileSource("testdata", "", ""))
	require.NoError(t, err)

	groups, monsters := cat.Records()
	again, err := New(groups, monsters)
	require.NoError(t, err)
	assert.Equal(t, cat.MonsterKeys(), again.MonsterKeys())
	assert.Equal(t, cat.GroupKeys(), again.GroupKeys())
}
