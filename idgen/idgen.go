// Package idgen builds identifier generators from the generator strategy
// bound on an entity's identifier.
package idgen

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shrek82/jormap/model"
)

var (
	// ErrAssigned is returned by generators of application-assigned identifiers.
	ErrAssigned = errors.New("identifier is assigned by the application")
	// ErrPostInsert is returned by generators whose value the database
	// produces while inserting the row.
	ErrPostInsert = errors.New("identifier is generated by the database on insert")
)

// Generator produces identifier values for new instances of one entity.
type Generator interface {
	Strategy() string
	Generate(ctx context.Context) (any, error)
}

type factory func(e *model.Entity, id *model.SimpleValue) (Generator, error)

var factories = map[string]factory{
	model.GeneratorAssigned: func(*model.Entity, *model.SimpleValue) (Generator, error) {
		return assigned{}, nil
	},
	"native":    postInsertFactory("native"),
	"identity":  postInsertFactory("identity"),
	"sequence":  postInsertFactory("sequence"),
	"increment": newIncrement,
	"ulid":      newULID,
}

// Strategies returns the known strategy names, sorted.
func Strategies() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the generator for e's identifier. Composite identifiers are
// always assigned.
func New(e *model.Entity) (Generator, error) {
	id, ok := e.Identifier.(*model.SimpleValue)
	if !ok {
		return assigned{}, nil
	}
	strategy := id.IdentifierGeneratorStrategy
	if strategy == "" {
		strategy = model.GeneratorAssigned
	}
	f, ok := factories[strategy]
	if !ok {
		return nil, model.Errorf(e.Key(), "generator", model.ErrUnknownGenerator, "%q", strategy)
	}
	return f(e, id)
}

type assigned struct{}

func (assigned) Strategy() string { return model.GeneratorAssigned }

func (assigned) Generate(context.Context) (any, error) {
	return nil, ErrAssigned
}

type postInsert struct {
	strategy string
}

func postInsertFactory(strategy string) factory {
	return func(*model.Entity, *model.SimpleValue) (Generator, error) {
		return postInsert{strategy: strategy}, nil
	}
}

func (g postInsert) Strategy() string { return g.strategy }

func (g postInsert) Generate(context.Context) (any, error) {
	return nil, ErrPostInsert
}

// Increment hands out consecutive integers starting after the seed. It is
// only correct while a single process inserts into the table.
type Increment struct {
	last atomic.Int64
}

func newIncrement(e *model.Entity, id *model.SimpleValue) (Generator, error) {
	switch id.ScalarType {
	case model.Int16, model.Int32, model.Int64:
	default:
		return nil, model.Errorf(e.Key(), "generator", model.ErrInvalidAttribute, "increment needs an integer identifier")
	}
	g := &Increment{}
	if v, ok := id.IdentifierGeneratorParams["initial_value"]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, model.Errorf(e.Key(), "param", model.ErrInvalidAttribute, "initial_value=%q", v)
		}
		g.Seed(n - 1)
	}
	return g, nil
}

// Seed sets the last value handed out, typically the current max(id).
func (g *Increment) Seed(last int64) {
	g.last.Store(last)
}

func (g *Increment) Strategy() string { return "increment" }

func (g *Increment) Generate(context.Context) (any, error) {
	return g.last.Add(1), nil
}

// ULID generates lexically sortable string identifiers.
type ULID struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newULID(e *model.Entity, id *model.SimpleValue) (Generator, error) {
	if id.ScalarType != model.String {
		return nil, model.Errorf(e.Key(), "generator", model.ErrInvalidAttribute, "ulid needs a string identifier")
	}
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ULID{entropy: ulid.Monotonic(src, 0)}, nil
}

func (g *ULID) Strategy() string { return "ulid" }

func (g *ULID) Generate(context.Context) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, err
	}
	return id.String(), nil
}
