package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
)

// ImportStats counts the rows written by Import.
type ImportStats struct {
	Groups     int    `yaml:"groups" json:"groups"`
	Monsters   int    `yaml:"monsters" json:"monsters"`
	Companions int    `yaml:"companions" json:"companions"`
	Commit     string `yaml:"commit,omitempty" json:"commit,omitempty"`
}

// Import replaces the stored catalog with cat inside one transaction.
// On Dolt the import is then committed with message.
func (s *Store) Import(ctx context.Context, cat *catalog.Catalog, message string) (*ImportStats, error) {
	groups, monsters := cat.Records()
	stats := &ImportStats{Groups: len(groups), Monsters: len(monsters)}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	for _, table := range []string{"monster_companions", "monsters", "unidentified_groups"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, g := range groups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO unidentified_groups (group_key, key_name, game_group) VALUES (?, ?, ?)`,
			g.Key, g.Name, g.GameGroup)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert group %s: %w", g.Key, err)
		}
	}

	for _, m := range monsters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO monsters (monster_key, key_name, game_name, group_key, image_index, xp)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.Key, m.Name, m.GameName, m.GroupKey, m.ImageIndex, m.XP)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert monster %s: %w", m.Key, err)
		}
		for seq, co := range m.CoOccurKeys {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO monster_companions (monster_key, seq, companion_key) VALUES (?, ?, ?)`,
				m.Key, seq, co)
			if err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("insert companion %s of %s: %w", co, m.Key, err)
			}
			stats.Companions++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction (%d monsters): %w", len(monsters), err)
	}

	if s.backend == BackendDolt {
		if message == "" {
			message = fmt.Sprintf("import %d groups, %d monsters", stats.Groups, stats.Monsters)
		}
		hash, err := s.DoltCommit(ctx, message)
		if err != nil {
			return nil, err
		}
		stats.Commit = hash
	}
	return stats, nil
}

// Groups returns every stored group ordered by key.
func (s *Store) Groups(ctx context.Context) ([]catalog.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_key, key_name, game_group FROM unidentified_groups ORDER BY group_key`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []catalog.Group{}
	for rows.Next() {
		var g catalog.Group
		if err := rows.Scan(&g.Key, &g.Name, &g.GameGroup); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Monsters returns every stored monster ordered by key, with companions
// in their original order.
func (s *Store) Monsters(ctx context.Context) ([]catalog.Monster, error) {
	companions, err := s.companions(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT monster_key, key_name, game_name, group_key, image_index, xp
		FROM monsters ORDER BY monster_key`)
	if err != nil {
		return nil, fmt.Errorf("query monsters: %w", err)
	}
	defer rows.Close()

	monsters := []catalog.Monster{}
	for rows.Next() {
		var m catalog.Monster
		if err := rows.Scan(&m.Key, &m.Name, &m.GameName, &m.GroupKey, &m.ImageIndex, &m.XP); err != nil {
			return nil, fmt.Errorf("scan monster: %w", err)
		}
		m.CoOccurKeys = companions[m.Key]
		if m.CoOccurKeys == nil {
			m.CoOccurKeys = []string{}
		}
		monsters = append(monsters, m)
	}
	return monsters, rows.Err()
}

func (s *Store) companions(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT monster_key, companion_key FROM monster_companions ORDER BY monster_key, seq`)
	if err != nil {
		return nil, fmt.Errorf("query companions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var key, co string
		if err := rows.Scan(&key, &co); err != nil {
			return nil, fmt.Errorf("scan companion: %w", err)
		}
		out[key] = append(out[key], co)
	}
	return out, rows.Err()
}

// Empty reports whether no monsters have been imported yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM monsters`).Scan(&n); err != nil {
		return false, fmt.Errorf("count monsters: %w", err)
	}
	return n == 0, nil
}

// DoltCommit stages every table and commits it. Re-importing an unchanged
// catalog is not an error; the current head is returned instead.
func (s *Store) DoltCommit(ctx context.Context, message string) (string, error) {
	if s.backend != BackendDolt {
		return "", fmt.Errorf("dolt commit on %s store", s.backend)
	}

	var hash string
	err := s.db.QueryRowContext(ctx, "CALL DOLT_COMMIT('-Am', ?)", message).Scan(&hash)
	if err != nil && !strings.Contains(err.Error(), "nothing to commit") {
		return "", fmt.Errorf("dolt commit: %w", err)
	}
	if hash != "" {
		return hash, nil
	}

	err = s.db.QueryRowContext(ctx, "SELECT commit_hash FROM dolt_log LIMIT 1").Scan(&hash)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("dolt log query: %w", err)
	}
	return hash, nil
}

// DoltLogEntry is one commit of the catalog history.
type DoltLogEntry struct {
	CommitHash string `yaml:"commit_hash" json:"commit_hash"`
	Committer  string `yaml:"committer" json:"committer"`
	Date       string `yaml:"date" json:"date"`
	Message    string `yaml:"message" json:"message"`
}

// DoltLog returns recent catalog imports, newest first.
func (s *Store) DoltLog(ctx context.Context, limit int) ([]DoltLogEntry, error) {
	if s.backend != BackendDolt {
		return nil, fmt.Errorf("dolt log on %s store", s.backend)
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT commit_hash, committer, date, message
		FROM dolt_log
		ORDER BY date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("dolt log query: %w", err)
	}
	defer rows.Close()

	var entries []DoltLogEntry
	for rows.Next() {
		var entry DoltLogEntry
		if err := rows.Scan(&entry.CommitHash, &entry.Committer, &entry.Date, &entry.Message); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
