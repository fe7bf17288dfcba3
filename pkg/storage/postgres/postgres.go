// Package postgres stores animals in PostgreSQL through a pgx/v5
// connection pool. The schema is managed by embedded migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhuss/restapp/pkg/debug"
	"github.com/rhuss/restapp/pkg/storage"
	"github.com/rhuss/restapp/pkg/zoo"
)

const uniqueViolation = "23505" // SQLSTATE unique_violation

// Store is a PostgreSQL-backed zoo.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ zoo.Store = (*Store)(nil)

// New connects to the database described by cfg and, when
// cfg.MigrateOnStart is set, brings the schema up to date.
func New(ctx context.Context, cfg Config) (_ *Store, err error) {
	cfg = cfg.withDefaults()

	pc, err := cfg.poolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	defer func() {
		if err != nil {
			pool.Close()
		}
	}()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool, logger: cfg.Logger}
	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	s.logger.Info("postgres store ready", "max_conns", pc.MaxConns, "migrated", cfg.MigrateOnStart)
	return s, nil
}

// Save inserts a. A taken name yields storage.ErrConflict.
func (s *Store) Save(ctx context.Context, a zoo.Animal) error {
	const q = `INSERT INTO animals (name, age) VALUES ($1, $2)`
	if _, err := s.pool.Exec(ctx, q, a.Name, a.Age); err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting animal %q: %w", a.Name, err)
	}
	debug.Log(debug.Storage, "animal saved", "name", a.Name)
	return nil
}

// Get loads the animal stored under name.
func (s *Store) Get(ctx context.Context, name string) (zoo.Animal, error) {
	const q = `SELECT name, age FROM animals WHERE name = $1`
	rows, _ := s.pool.Query(ctx, q, name)
	a, err := pgx.CollectExactlyOneRow(rows, scanAnimal)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return zoo.Animal{}, storage.ErrNotFound
	case err != nil:
		return zoo.Animal{}, fmt.Errorf("querying animal %q: %w", name, err)
	}
	return a, nil
}

// List returns animals in name order, at most limit of them when
// limit is positive.
func (s *Store) List(ctx context.Context, limit int) ([]zoo.Animal, error) {
	q, args := `SELECT name, age FROM animals ORDER BY name`, []any(nil)
	if limit > 0 {
		q, args = q+` LIMIT $1`, append(args, limit)
	}

	rows, _ := s.pool.Query(ctx, q, args...)
	animals, err := pgx.CollectRows(rows, scanAnimal)
	if err != nil {
		return nil, fmt.Errorf("listing animals: %w", err)
	}
	if animals == nil {
		animals = []zoo.Animal{}
	}
	return animals, nil
}

// Delete removes the animal stored under name, or reports
// storage.ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM animals WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting animal %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	debug.Log(debug.Storage, "animal deleted", "name", name)
	return nil
}

func scanAnimal(row pgx.CollectableRow) (zoo.Animal, error) {
	var a zoo.Animal
	err := row.Scan(&a.Name, &a.Age)
	return a, err
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool. It always returns nil.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
