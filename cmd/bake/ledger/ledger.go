// Package ledger records baked nodes and their curves in MySQL.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"motionbake/cmd/bake/bakery"
	"motionbake/cmd/bake/curvefile"
)

const Schema = `CREATE TABLE IF NOT EXISTS bakes (
    bake_id BIGINT AUTO_INCREMENT PRIMARY KEY,
    tracker VARCHAR(255) NOT NULL,
    mode VARCHAR(16) NOT NULL,
    node_class VARCHAR(32) NOT NULL,
    node_name VARCHAR(255) NOT NULL,
    reference_frame INT NOT NULL,
    color INT UNSIGNED NOT NULL,
    inverted BOOLEAN NOT NULL,
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS bake_keys (
    bake_id BIGINT NOT NULL,
    node VARCHAR(255) NOT NULL,
    channel VARCHAR(64) NOT NULL,
    component TINYINT NOT NULL,
    frame DOUBLE NULL,
    value DOUBLE NOT NULL,
    expression VARCHAR(255) NOT NULL DEFAULT '',
    INDEX (bake_id)
)`

const (
	insertBake = `INSERT INTO bakes
    (tracker, mode, node_class, node_name, reference_frame, color, inverted, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertKey = `INSERT INTO bake_keys
    (bake_id, node, channel, component, frame, value, expression)
VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// Settings are the connection parameters of the ledger database.
type Settings struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the go-sql-driver/mysql data source name for s.
func (s Settings) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", s.Host, s.Port)
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// Ledger stores bakes.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the database named by dsn.
func Open(dsn string) (*Ledger, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	return New(db), nil
}

// New wraps an open database.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Migrate creates the ledger tables when missing.
func (l *Ledger) Migrate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ledger: migrate: %w", err)
	}
	return nil
}

// Record stores res, baked from tracker, in one transaction and returns its id.
func (l *Ledger) Record(ctx context.Context, tracker string, res *bakery.Result) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ledger: begin: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx, insertBake, bakeArgs(tracker, res, l.now())...)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert bake: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ledger: bake id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertKey)
	if err != nil {
		return 0, fmt.Errorf("ledger: prepare: %w", err)
	}
	defer stmt.Close()
	for _, row := range curvefile.Rows(res) {
		if _, err := stmt.ExecContext(ctx, keyArgs(id, row)...); err != nil {
			return 0, fmt.Errorf("ledger: insert %s[%d]: %w", row.Channel, row.Component, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ledger: commit: %w", err)
	}
	return id, nil
}

func bakeArgs(tracker string, res *bakery.Result, at time.Time) []interface{} {
	return []interface{}{
		tracker,
		string(res.Mode),
		res.Class,
		res.Name,
		res.Reference.Frame(),
		res.Color,
		res.Inverted,
		at.UTC(),
	}
}

func keyArgs(id int64, row curvefile.Row) []interface{} {
	var frame sql.NullFloat64
	if row.Frame != nil {
		frame = sql.NullFloat64{Float64: *row.Frame, Valid: true}
	}
	return []interface{}{id, row.Node, row.Channel, row.Component, frame, row.Value, row.Expression}
}
