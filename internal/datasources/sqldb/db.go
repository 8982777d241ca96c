package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/huandu/go-sqlbuilder"
	_ "modernc.org/sqlite"
)

const mysqlDriverParams = "?parseTime=true"

// ConnectMySQL opens and verifies a MySQL connection.
func ConnectMySQL(ctx context.Context, uri string) (*sql.DB, error) {
	db, err := sql.Open("mysql", uri+mysqlDriverParams)
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("checking MySQL DB connection: %w", err)
	}

	return db, nil
}

// ConnectSQLite opens an embedded SQLite database at path, creating parent
// directories as needed. Connections are capped at one; the driver does not
// tolerate concurrent writers on a single file.
func ConnectSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating SQLite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite DB: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("checking SQLite DB connection: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enabling SQLite WAL mode: %w", err)
	}

	return db, nil
}

var schemas = map[sqlbuilder.Flavor][]string{
	sqlbuilder.MySQL: {
		`CREATE TABLE IF NOT EXISTS articles (
			url_hash      CHAR(64) NOT NULL PRIMARY KEY,
			url           VARCHAR(2000) NOT NULL,
			title         VARCHAR(500) NOT NULL,
			source        VARCHAR(200) NOT NULL DEFAULT '',
			author        VARCHAR(200) NOT NULL DEFAULT '',
			description   VARCHAR(2000) NOT NULL DEFAULT '',
			image         VARCHAR(2000) NOT NULL DEFAULT '',
			published_at  DATETIME NULL,
			category      VARCHAR(32) NOT NULL DEFAULT 'General',
			read_time     INT NOT NULL DEFAULT 1,
			region        VARCHAR(16) NOT NULL DEFAULT 'global',
			first_seen_at DATETIME NOT NULL,
			last_seen_at  DATETIME NOT NULL,
			INDEX idx_articles_published (published_at),
			INDEX idx_articles_region (region),
			INDEX idx_articles_category (category)
		)`,
		`CREATE TABLE IF NOT EXISTS curation (
			id  TINYINT NOT NULL PRIMARY KEY,
			doc MEDIUMTEXT NOT NULL
		)`,
	},
	sqlbuilder.SQLite: {
		`CREATE TABLE IF NOT EXISTS articles (
			url_hash      CHAR(64) NOT NULL PRIMARY KEY,
			url           VARCHAR(2000) NOT NULL,
			title         VARCHAR(500) NOT NULL,
			source        VARCHAR(200) NOT NULL DEFAULT '',
			author        VARCHAR(200) NOT NULL DEFAULT '',
			description   VARCHAR(2000) NOT NULL DEFAULT '',
			image         VARCHAR(2000) NOT NULL DEFAULT '',
			published_at  DATETIME NULL,
			category      VARCHAR(32) NOT NULL DEFAULT 'General',
			read_time     INTEGER NOT NULL DEFAULT 1,
			region        VARCHAR(16) NOT NULL DEFAULT 'global',
			first_seen_at DATETIME NOT NULL,
			last_seen_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_region ON articles(region)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE TABLE IF NOT EXISTS curation (
			id  INTEGER NOT NULL PRIMARY KEY,
			doc TEXT NOT NULL
		)`,
	},
}

// CreateSchema applies the flavor's DDL; every statement is idempotent.
func CreateSchema(ctx context.Context, db *sql.DB, flavor sqlbuilder.Flavor) error {
	statements, ok := schemas[flavor]
	if !ok {
		return fmt.Errorf("no schema for flavor [%s]", flavor)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema statement: %w", err)
		}
	}
	return nil
}
