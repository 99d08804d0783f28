package sys

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	_ "github.com/mattn/go-sqlite3"
)

// --- Connection & Lifecycle ---

var DB *sql.DB

func InitDatabase(ctx context.Context, dataSourceName string) error {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA cache_size=-2000;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := DB.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := DB.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_runs (
			rule TEXT NOT NULL,
			slot INTEGER NOT NULL,
			fired_at INTEGER NOT NULL,
			PRIMARY KEY (rule, slot)
		)`,
		`CREATE TABLE IF NOT EXISTS announcements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			target TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			fire_at INTEGER NOT NULL,
			created_by TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_announcements_fire_at ON announcements(fire_at)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	LogDatabase(MsgDatabaseInitSuccess)
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

// --- Bot Persistence ---

// BotConfig helpers are used by the loader for command hash tracking.
func GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Schedule Run Ledger ---

// ClaimScheduleRun records that rule fired for the minute starting at slot.
// It reports false when the slot was already claimed.
func ClaimScheduleRun(ctx context.Context, rule string, slot time.Time) (bool, error) {
	res, err := DB.ExecContext(ctx, `
		INSERT OR IGNORE INTO schedule_runs (rule, slot, fired_at) VALUES (?, ?, ?)
	`, rule, slot.Unix(), time.Now().Unix())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// PruneScheduleRuns drops ledger rows for slots older than cutoff.
func PruneScheduleRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := DB.ExecContext(ctx, "DELETE FROM schedule_runs WHERE slot < ?", cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Pending Announcements ---

type Announcement struct {
	ID        int64
	Target    string
	Title     string
	Body      string
	FireAt    time.Time
	CreatedBy snowflake.ID
	CreatedAt time.Time
}

func AddAnnouncement(ctx context.Context, a *Announcement) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := DB.ExecContext(ctx, `
		INSERT INTO announcements (target, title, body, fire_at, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.Target, a.Title, a.Body, a.FireAt.Unix(), a.CreatedBy.String(), createdAt.Unix())
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	a.CreatedAt = createdAt
	return err
}

// ClaimDueAnnouncements atomically removes and returns every announcement
// whose fire time is at or before now.
func ClaimDueAnnouncements(ctx context.Context, now time.Time) ([]*Announcement, error) {
	rows, err := DB.QueryContext(ctx, `
		DELETE FROM announcements
		WHERE fire_at <= ?
		RETURNING id, target, title, body, fire_at, created_by, created_at
	`, now.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

func GetPendingAnnouncements(ctx context.Context) ([]*Announcement, error) {
	rows, err := DB.QueryContext(ctx, `
		SELECT id, target, title, body, fire_at, created_by, created_at
		FROM announcements ORDER BY fire_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnnouncements(rows)
}

func scanAnnouncements(rows *sql.Rows) ([]*Announcement, error) {
	var out []*Announcement
	for rows.Next() {
		a := &Announcement{}
		var fireAt, createdAt int64
		var createdBy string
		if err := rows.Scan(&a.ID, &a.Target, &a.Title, &a.Body, &fireAt, &createdBy, &createdAt); err != nil {
			return nil, err
		}
		a.FireAt = time.Unix(fireAt, 0)
		a.CreatedAt = time.Unix(createdAt, 0)
		id, err := snowflake.Parse(createdBy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse creator ID '%s' for announcement %d: %w", createdBy, a.ID, err)
		}
		a.CreatedBy = id
		out = append(out, a)
	}
	return out, rows.Err()
}
