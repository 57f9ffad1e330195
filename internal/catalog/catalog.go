// Package catalog holds the two immutable tables the identifier works from:
// the known monsters and the unidentified groups they are shown as.
// A Catalog is built once per run and is safe for concurrent readers.
package catalog

import (
	"context"
	"fmt"
	"sort"
)

// Catalog is the validated, read-only pair of monster and group tables.
type Catalog struct {
	monsters map[string]*Monster
	groups   map[string]*Group

	monsterKeys []string
	groupKeys   []string
}

// Source supplies catalog records from persisted storage.
type Source interface {
	Monsters(ctx context.Context) ([]Monster, error)
	Groups(ctx context.Context) ([]Group, error)
}

// Load reads both tables from src and builds a Catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	groups, err := src.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	monsters, err := src.Monsters(ctx)
	if err != nil {
		return nil, fmt.Errorf("read monsters: %w", err)
	}
	return New(groups, monsters)
}

// New validates the records and builds a Catalog.
// Records are copied; later changes to the slices do not affect the result.
func New(groups []Group, monsters []Monster) (*Catalog, error) {
	c := &Catalog{
		monsters: make(map[string]*Monster, len(monsters)),
		groups:   make(map[string]*Group, len(groups)),
	}

	for i := range groups {
		g := groups[i]
		if err := validateRecord("groups", &g, g.Key); err != nil {
			return nil, err
		}
		if _, dup := c.groups[g.Key]; dup {
			return nil, fmt.Errorf("groups: %w %q", ErrDuplicateKey, g.Key)
		}
		c.groups[g.Key] = &g
		c.groupKeys = append(c.groupKeys, g.Key)
	}

	for i := range monsters {
		m := monsters[i]
		m.CoOccurKeys = append([]string(nil), m.CoOccurKeys...)
		if err := validateRecord("monsters", &m, m.Key); err != nil {
			return nil, err
		}
		if _, dup := c.monsters[m.Key]; dup {
			return nil, fmt.Errorf("monsters: %w %q", ErrDuplicateKey, m.Key)
		}
		if _, clash := c.groups[m.Key]; clash {
			return nil, fmt.Errorf("monsters: %w %q (also a group key)", ErrDuplicateKey, m.Key)
		}
		c.monsters[m.Key] = &m
		c.monsterKeys = append(c.monsterKeys, m.Key)
	}

	for _, m := range c.monsters {
		for _, co := range m.CoOccurKeys {
			if co == m.Key {
				return nil, fmt.Errorf("monsters: %w: %q", ErrSelfCompanion, m.Key)
			}
			if _, ok := c.monsters[co]; !ok {
				return nil, fmt.Errorf("monsters: %w %q in %q", ErrUnknownCompanion, co, m.Key)
			}
		}
	}

	sort.Strings(c.groupKeys)
	sort.Strings(c.monsterKeys)
	return c, nil
}

// Monster returns the monster with the given key.
func (c *Catalog) Monster(key string) (*Monster, bool) {
	m, ok := c.monsters[key]
	return m, ok
}

// Group returns the group with the given key.
func (c *Catalog) Group(key string) (*Group, bool) {
	g, ok := c.groups[key]
	return g, ok
}

// KindOf reports which table key belongs to.
func (c *Catalog) KindOf(key string) (Kind, bool) {
	if _, ok := c.groups[key]; ok {
		return KindGroup, true
	}
	if _, ok := c.monsters[key]; ok {
		return KindMonster, true
	}
	return "", false
}

// DisplayName returns the output name for a group or monster key.
func (c *Catalog) DisplayName(key string) string {
	if g, ok := c.groups[key]; ok {
		return g.Name
	}
	if m, ok := c.monsters[key]; ok {
		return m.Name
	}
	return key
}

// MonsterKeys returns all monster keys in sorted order.
func (c *Catalog) MonsterKeys() []string {
	return append([]string(nil), c.monsterKeys...)
}

// GroupKeys returns all group keys in sorted order.
func (c *Catalog) GroupKeys() []string {
	return append([]string(nil), c.groupKeys...)
}

// Monsters returns all monsters sorted by key.
func (c *Catalog) Monsters() []*Monster {
	out := make([]*Monster, 0, len(c.monsterKeys))
	for _, k := range c.monsterKeys {
		out = append(out, c.monsters[k])
	}
	return out
}

// Groups returns all groups sorted by key.
func (c *Catalog) Groups() []*Group {
	out := make([]*Group, 0, len(c.groupKeys))
	for _, k := range c.groupKeys {
		out = append(out, c.groups[k])
	}
	return out
}

// Records returns copies of both tables, suitable for writing to a store.
func (c *Catalog) Records() ([]Group, []Monster) {
	groups := make([]Group, 0, len(c.groupKeys))
	for _, g := range c.Groups() {
		groups = append(groups, *g)
	}
	monsters := make([]Monster, 0, len(c.monsterKeys))
	for _, m := range c.Monsters() {
		cp := *m
		cp.CoOccurKeys = append([]string(nil), m.CoOccurKeys...)
		monsters = append(monsters, cp)
	}
	return groups, monsters
}
