package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default file names, looked up in the catalog directory.
const (
	DefaultMonstersFile = "monsters.json"
	DefaultGroupsFile   = "unidentified_groups.json"
)

// commentKey marks entries in the JSON files that only carry notes.
const commentKey = "_comment"

// FileSource reads the catalog from the two JSON files.
type FileSource struct {
	MonstersPath string
	GroupsPath   string
}

// NewFileSource returns a FileSource for the named files inside dir.
// Empty names fall back to the defaults.
func NewFileSource(dir, monstersFile, groupsFile string) *FileSource {
	if monstersFile == "" {
		monstersFile = DefaultMonstersFile
	}
	if groupsFile == "" {
		groupsFile = DefaultGroupsFile
	}
	return &FileSource{
		MonstersPath: filepath.Join(dir, monstersFile),
		GroupsPath:   filepath.Join(dir, groupsFile),
	}
}

// Monsters reads the monster table.
func (s *FileSource) Monsters(ctx context.Context) ([]Monster, error) {
	var raw []Monster
	if err := readJSON(s.MonstersPath, &raw); err != nil {
		return nil, err
	}
	out := raw[:0]
	for _, m := range raw {
		if m.Key == commentKey {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Groups reads the unidentified group table.
func (s *FileSource) Groups(ctx context.Context) ([]Group, error) {
	var raw []Group
	if err := readJSON(s.GroupsPath, &raw); err != nil {
		return nil, err
	}
	out := raw[:0]
	for _, g := range raw {
		if g.Key == commentKey {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
