package store

import "fmt"

// schemaStatements define the catalog tables. They run one at a time
// and use only column types both SQLite and Dolt accept.
var schemaStatements = []string{
	// coarse categories shown by the game before identification
	`CREATE TABLE IF NOT EXISTS unidentified_groups (
    group_key VARCHAR(64) PRIMARY KEY,
    key_name VARCHAR(255) NOT NULL,
    game_group VARCHAR(255) NOT NULL DEFAULT ''
)`,

	// concrete monsters
	`CREATE TABLE IF NOT EXISTS monsters (
    monster_key VARCHAR(64) PRIMARY KEY,
    key_name VARCHAR(255) NOT NULL,
    game_name VARCHAR(255) NOT NULL DEFAULT '',
    group_key VARCHAR(64) NOT NULL,
    image_index INT NOT NULL DEFAULT 0,
    xp INT NOT NULL DEFAULT 0
)`,

	// companions a monster may bring along, in catalog order
	`CREATE TABLE IF NOT EXISTS monster_companions (
    monster_key VARCHAR(64) NOT NULL,
    seq INT NOT NULL,
    companion_key VARCHAR(64) NOT NULL,
    PRIMARY KEY (monster_key, seq)
)`,
}

// initSchema creates the database tables if they don't exist.
func (s *Store) initSchema() error {
	for i, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
