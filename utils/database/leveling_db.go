package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"level-helper/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// LevelingDB is the sqlite-backed progression store. It holds the
// user_progress and level_roles tables described in the data model;
// all award writes go through UpdateProgress so a row is never visible
// half-updated.
type LevelingDB struct {
	db *sqlx.DB
}

// Init opens (creating if necessary) the leveling database and ensures
// the schema exists.
func Init(dbPath string) (*LevelingDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// _txlock=immediate makes every transaction take the write lock at
	// BEGIN. A deferred transaction that reads first and upgrades to a
	// write can deadlock against another writer, and sqlite reports
	// "database is locked" without waiting out the busy timeout.
	db, err := sqlx.Connect("sqlite3", dbPath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	progressSchema := `CREATE TABLE IF NOT EXISTS user_progress (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          xp INTEGER NOT NULL DEFAULT 0,
	          level INTEGER NOT NULL DEFAULT 0,
	          total_messages INTEGER NOT NULL DEFAULT 0,
	          last_award_time INTEGER NOT NULL DEFAULT 0,
	          created_at INTEGER NOT NULL,
	          PRIMARY KEY (guild_id, user_id)
	      );`
	if _, err := db.Exec(progressSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create user_progress table: %w", err)
	}

	rolesSchema := `CREATE TABLE IF NOT EXISTS level_roles (
	          guild_id TEXT NOT NULL,
	          level INTEGER NOT NULL,
	          role_id TEXT NOT NULL,
	          PRIMARY KEY (guild_id, level)
	      );`
	if _, err := db.Exec(rolesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create level_roles table: %w", err)
	}

	return &LevelingDB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *LevelingDB) Close() error {
	return d.db.Close()
}

// SizeBytes returns the on-disk size of the database file.
func SizeBytes(dbPath string) (int64, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GetProgress returns the row for (guildID, userID), or nil when the
// user has never earned XP in the guild.
func (d *LevelingDB) GetProgress(guildID, userID string) (*model.UserProgress, error) {
	var p model.UserProgress
	query := "SELECT * FROM user_progress WHERE guild_id = ? AND user_id = ?"
	err := d.db.Get(&p, query, guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user %s in guild %s: %w", userID, guildID, err)
	}
	return &p, nil
}

// UpdateProgress runs fn against the current (or a freshly created)
// row inside a transaction and persists the result. An error from fn
// rolls everything back and is returned unwrapped.
func (d *LevelingDB) UpdateProgress(guildID, userID string, fn func(p *model.UserProgress) error) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin progress transaction: %w", err)
	}

	var p model.UserProgress
	query := "SELECT * FROM user_progress WHERE guild_id = ? AND user_id = ?"
	err = tx.Get(&p, query, guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		p = model.UserProgress{
			GuildID:   guildID,
			UserID:    userID,
			CreatedAt: time.Now().UnixNano(),
		}
	} else if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to load progress for update: %w", err)
	}

	if err := fn(&p); err != nil {
		tx.Rollback()
		return err
	}

	upsert := `INSERT INTO user_progress (guild_id, user_id, xp, level, total_messages, last_award_time, created_at)
			  VALUES (:guild_id, :user_id, :xp, :level, :total_messages, :last_award_time, :created_at)
			  ON CONFLICT(guild_id, user_id) DO UPDATE SET
			      xp = excluded.xp,
			      level = excluded.level,
			      total_messages = excluded.total_messages,
			      last_award_time = excluded.last_award_time`
	if _, err := tx.NamedExec(upsert, p); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to persist progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress update: %w", err)
	}
	return nil
}

// TopN returns the guild's n highest-XP rows. The ordering is total:
// xp descending, then row creation order, then user ID, so repeated
// reads with no writes in between return identical results.
func (d *LevelingDB) TopN(guildID string, n int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	query := `SELECT * FROM user_progress WHERE guild_id = ?
			  ORDER BY xp DESC, created_at ASC, user_id ASC LIMIT ?`
	if err := d.db.Select(&rows, query, guildID, n); err != nil {
		return nil, fmt.Errorf("failed to query top %d for guild %s: %w", n, guildID, err)
	}
	return rows, nil
}

// RankOf returns the user's 1-based leaderboard position, or 0 when
// the user has no row. The predicate mirrors TopN's ordering exactly.
func (d *LevelingDB) RankOf(guildID, userID string) (int, error) {
	p, err := d.GetProgress(guildID, userID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, nil
	}

	var ahead int
	query := `SELECT COUNT(*) FROM user_progress WHERE guild_id = ?
			  AND (xp > ? OR (xp = ? AND (created_at < ? OR (created_at = ? AND user_id < ?))))`
	err = d.db.Get(&ahead, query, guildID, p.XP, p.XP, p.CreatedAt, p.CreatedAt, p.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank for user %s in guild %s: %w", userID, guildID, err)
	}
	return ahead + 1, nil
}

// UsersAtOrAbove returns every row of the guild at or above level.
func (d *LevelingDB) UsersAtOrAbove(guildID string, level int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	query := `SELECT * FROM user_progress WHERE guild_id = ? AND level >= ?
			  ORDER BY xp DESC, created_at ASC, user_id ASC`
	if err := d.db.Select(&rows, query, guildID, level); err != nil {
		return nil, fmt.Errorf("failed to query users at or above level %d: %w", level, err)
	}
	return rows, nil
}

// SetLevelRole inserts or replaces the guild's mapping for level.
func (d *LevelingDB) SetLevelRole(guildID string, level int, roleID string) error {
	query := `INSERT INTO level_roles (guild_id, level, role_id) VALUES (?, ?, ?)
			  ON CONFLICT(guild_id, level) DO UPDATE SET role_id = excluded.role_id`
	if _, err := d.db.Exec(query, guildID, level, roleID); err != nil {
		return fmt.Errorf("failed to set level role for guild %s: %w", guildID, err)
	}
	return nil
}

// RemoveLevelRole deletes the guild's mapping for level, reporting
// whether a row was actually removed.
func (d *LevelingDB) RemoveLevelRole(guildID string, level int) (bool, error) {
	result, err := d.db.Exec("DELETE FROM level_roles WHERE guild_id = ? AND level = ?", guildID, level)
	if err != nil {
		return false, fmt.Errorf("failed to remove level role for guild %s: %w", guildID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListLevelRoles returns the guild's mappings ordered by level.
func (d *LevelingDB) ListLevelRoles(guildID string) ([]model.LevelRoleMapping, error) {
	var mappings []model.LevelRoleMapping
	query := "SELECT * FROM level_roles WHERE guild_id = ? ORDER BY level ASC"
	if err := d.db.Select(&mappings, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list level roles for guild %s: %w", guildID, err)
	}
	return mappings, nil
}

// RolesForLevel returns the role IDs of every mapping with mapping
// level <= level.
func (d *LevelingDB) RolesForLevel(guildID string, level int) ([]string, error) {
	var roleIDs []string
	query := "SELECT role_id FROM level_roles WHERE guild_id = ? AND level <= ? ORDER BY level ASC"
	if err := d.db.Select(&roleIDs, query, guildID, level); err != nil {
		return nil, fmt.Errorf("failed to query roles for level %d in guild %s: %w", level, guildID, err)
	}
	return roleIDs, nil
}
