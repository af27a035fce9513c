package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const sqliteTimeLayout = time.RFC3339Nano

// Driver names registered by the imported SQLite drivers.
const (
	DriverCGO    = "sqlite3"
	DriverPureGo = "sqlite"
)

var ErrUnknownDriver = errors.New("storage: unknown sqlite driver")

func IsKnownDriver(name string) bool {
	return name == DriverCGO || name == DriverPureGo
}

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens (creating if needed) the database at path with driver,
// applies migrations and returns a ready repository.
func OpenSQLite(driver, path string) (*SQLiteRepository, error) {
	if !IsKnownDriver(driver) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: empty database path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertRecord = `
	INSERT INTO records (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (r *SQLiteRepository) Put(ctx context.Context, in Record) error {
	return r.put(ctx, r.db, in)
}

func (r *SQLiteRepository) put(ctx context.Context, ex execer, in Record) error {
	if strings.TrimSpace(in.Key) == "" {
		return errors.New("storage: record key is required")
	}
	updated := in.UpdatedAt
	if updated.IsZero() {
		updated = r.now()
	}
	_, err := ex.ExecContext(ctx, upsertRecord, in.Key, string(in.Value), mustTime(updated))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM records WHERE key = ?`, key)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) List(ctx context.Context, filter RecordListFilter) ([]Record, error) {
	query := `SELECT key, value, updated_at FROM records`
	args := make([]any, 0, 3)
	if filter.Prefix != "" {
		query += ` WHERE key LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(filter.Prefix)+"%")
	}
	query += ` ORDER BY key ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Apply(ctx context.Context, batch Batch) error {
	if batch.Empty() {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, rec := range batch.Puts {
		if err := r.put(ctx, tx, rec); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("batch put %s: %w", rec.Key, err)
		}
	}
	for _, key := range batch.Deletes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("batch delete %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var out Record
	var value string
	var updated string
	if err := s.Scan(&out.Key, &value, &updated); err != nil {
		return Record{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Record{}, err
	}
	out.Value = []byte(value)
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
