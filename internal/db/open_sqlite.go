package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/freightdesk/internal/notify"
)

type sqliteJournal struct{ db *sql.DB }

// openSQLite connects with the modernc.org/sqlite driver and ensures the schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteJournal, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteJournal{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS notifications (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  created_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_ns);
`)
	return err
}

func (s *sqliteJournal) Append(ctx context.Context, n notify.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications(id, type, title, message, created_ns) VALUES(?,?,?,?,?)`,
		n.ID, string(n.Type), n.Title, n.Message, n.Time.UTC().UnixNano())
	return err
}

func (s *sqliteJournal) List(ctx context.Context, cur Cursor, limit int) ([]notify.Notification, Cursor, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, type, title, message, created_ns FROM notifications WHERE seq > ? ORDER BY seq ASC LIMIT ?`,
		cur.After, limit)
	if err != nil {
		return nil, Cursor{}, err
	}
	defer rows.Close()

	var out []notify.Notification
	next := cur
	for rows.Next() {
		var (
			seq int64
			n   notify.Notification
			typ string
			ns  int64
		)
		if err := rows.Scan(&seq, &n.ID, &typ, &n.Title, &n.Message, &ns); err != nil {
			return nil, Cursor{}, err
		}
		n.Type = notify.Type(typ)
		n.Time = time.Unix(0, ns).UTC()
		out = append(out, n)
		next.After = seq
	}
	return out, next, rows.Err()
}

func (s *sqliteJournal) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteJournal) Close() error { return s.db.Close() }
