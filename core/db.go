package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shrek82/jormap/dialect"
	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
	"github.com/shrek82/jormap/pool"
)

// DB is a database handle used to check a catalog against a live schema.
type DB struct {
	pool    pool.Pool
	dialect dialect.Dialect
	logger  logger.Logger
}

// Open initializes a new DB instance with the given driver and DSN.
func Open(driver, dsn string, opts *pool.Options) (*DB, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	p := pool.NewStdPool(sqlDB)
	opts.Apply(p)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.PingContext(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return NewDB(p, d), nil
}

// NewDB wraps an existing pool.
func NewDB(p pool.Pool, d dialect.Dialect) *DB {
	return &DB{
		pool:    p,
		dialect: d,
		logger:  logger.NewStdLogger(),
	}
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.pool.Close()
}

// SetLogger sets a custom logger for the DB.
func (db *DB) SetLogger(l logger.Logger) {
	db.logger = l
}

// Dialect returns the dialect of the connection.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

// logSQL logs the SQL execution if a logger is set.
func (db *DB) logSQL(sql string, duration time.Duration, args ...any) {
	if db.logger != nil {
		db.logger.SQL(sql, duration, args...)
	}
}

// ValidateSchema checks that every table of the catalog exists and has every
// mapped column. All mismatches are reported, joined.
func (db *DB) ValidateSchema(ctx context.Context, catalog *model.Catalog) error {
	var errs []error
	for _, t := range catalog.Tables() {
		exists, err := db.hasTable(ctx, t)
		if err != nil {
			return err
		}
		if !exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrTableNotFound, t.QualifiedName()))
			continue
		}

		columns, err := db.columns(ctx, t)
		if err != nil {
			return err
		}
		for _, col := range t.Columns() {
			if !columns[strings.ToLower(col.Name)] {
				errs = append(errs, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, t.QualifiedName(), col.Name))
				continue
			}
			if sqlType, err := db.dialect.DataTypeOf(col); err == nil {
				db.logger.Debug("%s.%s maps to %s", t.QualifiedName(), col.Name, sqlType)
			}
		}
	}
	return errors.Join(errs...)
}

func (db *DB) hasTable(ctx context.Context, t *model.Table) (bool, error) {
	query, args := db.dialect.HasTableSQL(t.Schema, t.Name)
	start := time.Now()
	var count int
	err := db.pool.QueryRowContext(ctx, query, args...).Scan(&count)
	db.logSQL(query, time.Since(start), args...)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", t.QualifiedName(), err)
	}
	return count > 0, nil
}

func (db *DB) columns(ctx context.Context, t *model.Table) (map[string]bool, error) {
	query, args := db.dialect.GetColumnsSQL(t.Schema, t.Name)
	start := time.Now()
	rows, err := db.pool.QueryContext(ctx, query, args...)
	db.logSQL(query, time.Since(start), args...)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", t.QualifiedName(), err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[strings.ToLower(name)] = true
	}
	return columns, rows.Err()
}
