package zoo

import "context"

// Store persists animals keyed by name.
//
// Implementations return storage.ErrNotFound for unknown names and
// storage.ErrConflict when saving a name that already exists.
type Store interface {
	Save(ctx context.Context, a Animal) error
	Get(ctx context.Context, name string) (Animal, error)
	// List returns up to limit animals ordered by name.
	List(ctx context.Context, limit int) ([]Animal, error)
	Delete(ctx context.Context, name string) error

	HealthCheck(ctx context.Context) error
	Close() error
}
