// Command jormap loads a directory of mapping documents, reports the bound
// catalog and optionally checks it against a database or serves it over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"github.com/shrek82/jormap/api"
	"github.com/shrek82/jormap/cache"
	"github.com/shrek82/jormap/config"
	"github.com/shrek82/jormap/core"
	"github.com/shrek82/jormap/dialect"
	"github.com/shrek82/jormap/logger"
	"github.com/shrek82/jormap/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, getenv, stderr)
	if err != nil {
		return err
	}

	l := logger.NewStdLogger()
	l.SetOutput(stderr)
	level, _ := logger.ParseLevel(cfg.LogLevel)
	l.SetLevel(level)
	l.SetFormat(logger.LogFormat(cfg.LogFormat))

	naming, _ := model.NamingStrategyByName(cfg.Naming)
	opts := []core.Option{
		core.WithLogger(l),
		core.WithNamingStrategy(naming),
		core.WithSchema(cfg.Schema),
		core.WithContinueOnError(cfg.ContinueOnError),
	}
	if cfg.Driver != "" {
		d, ok := dialect.Get(cfg.Driver)
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownDialect, cfg.Driver)
		}
		opts = append(opts, core.WithDialect(d))
	}

	// Classes are not compiled into the CLI; every entity is dynamic.
	conf := core.NewConfiguration(opts...)
	conf.Types().AllowUnregistered = true

	if err := conf.AddDirectory(cfg.MappingDir); err != nil {
		return err
	}
	catalog, buildErr := conf.Build()
	if catalog == nil {
		return buildErr
	}

	report(stdout, catalog)
	if cfg.Dump {
		spew.Fdump(stdout, catalog.Entities())
	}
	if buildErr != nil {
		return buildErr
	}

	if cfg.Driver != "" {
		if err := validateSchema(cfg, catalog, l); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "schema OK")
	}

	caches, err := buildCaches(cfg, catalog, l)
	if err != nil {
		return err
	}
	if caches != nil {
		defer caches.Close()
		fmt.Fprintf(stdout, "cache regions: %s\n", strings.Join(caches.Regions(), ", "))
	}

	if cfg.Listen != "" {
		l.Info("Serving metadata on %s", cfg.Listen)
		return api.RunServer(cfg.Listen, catalog, caches)
	}
	return nil
}

func report(w io.Writer, catalog *model.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tTABLE\tID\tVERSION\tCACHE")
	for _, e := range catalog.Entities() {
		version := "-"
		if e.IsVersioned() {
			version = e.Version.Name
		}
		cacheUsage := "-"
		if e.CacheConcurrencyStrategy != "" {
			cacheUsage = e.CacheConcurrencyStrategy
		}
		pk := "-"
		if e.Table.PrimaryKey != nil {
			pk = strings.Join(e.Table.PrimaryKey.ColumnNames(), ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Key(), e.Table.QualifiedName(), pk, version, cacheUsage)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d entities, %d tables\n", len(catalog.Entities()), len(catalog.Tables()))
}

func validateSchema(cfg config.Config, catalog *model.Catalog, l logger.Logger) error {
	db, err := core.Open(cfg.Driver, cfg.DSN, nil)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return db.ValidateSchema(ctx, catalog)
}

func buildCaches(cfg config.Config, catalog *model.Catalog, l logger.Logger) (*cache.Manager, error) {
	var provider cache.Provider
	switch cfg.Cache.Provider {
	case "memory":
		provider = cache.NewMemoryProvider(cfg.Cache.TTL)
	case "file":
		provider = cache.NewFileProvider(cfg.Cache.FileDir, cfg.Cache.TTL)
	case "redis":
		p := cache.NewRedisProvider(&redis.Options{Addr: cfg.Cache.RedisAddr}, cfg.Cache.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		provider = p
	default:
		return nil, nil
	}
	return cache.Build(catalog, provider,
		cache.WithLogger(l),
		cache.WithRegionPrefix(cfg.Cache.RegionPrefix),
		cache.WithBreaker(5, 30*time.Second))
}
