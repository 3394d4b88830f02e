package pool

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type recorder struct {
	Pool
	open, idle int
	lifetime   time.Duration
}

func (r *recorder) SetMaxOpenConns(n int)              { r.open = n }
func (r *recorder) SetMaxIdleConns(n int)              { r.idle = n }
func (r *recorder) SetConnMaxLifetime(d time.Duration) { r.lifetime = d }

func TestOptionsApply(t *testing.T) {
	r := &recorder{open: -1, idle: -1}
	(&Options{MaxOpenConns: 4, ConnMaxLifetime: time.Minute}).Apply(r)
	if r.open != 4 || r.idle != -1 || r.lifetime != time.Minute {
		t.Errorf("Unexpected limits: open=%d idle=%d lifetime=%v", r.open, r.idle, r.lifetime)
	}

	var nilOpts *Options
	nilOpts.Apply(r)
}

func TestStdPool(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "pool.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var p Pool = NewStdPool(db)
	defer p.Close()

	ctx := context.Background()
	if err := p.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := p.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	var n int
	if err := p.QueryRowContext(ctx, "SELECT count(*) FROM t").Scan(&n); err != nil || n != 0 {
		t.Errorf("Expected empty table, got %d (%v)", n, err)
	}
}
