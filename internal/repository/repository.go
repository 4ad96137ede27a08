package repository

import (
	"context"
	"time"
)

// Repository is the generic data-access contract for one entity type.
// Every method takes a context and is cancellable; none spawns background work.
type Repository[T any] interface {
	// TableName returns the backing table
	TableName() string

	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, p Predicate) (int, error)
	LongCount(ctx context.Context) (int64, error)
	LongCountWhere(ctx context.Context, p Predicate) (int64, error)

	// Get returns the live entity with id, or ErrNotFound
	Get(ctx context.Context, id int) (*T, error)
	// Load returns a reference carrying only the id, without a round trip.
	// Attribute access on it yields zero values until it is refreshed with Get.
	Load(id int) *T
	FirstOrDefault(ctx context.Context, id int) (*T, error)
	FirstOrDefaultWhere(ctx context.Context, p Predicate) (*T, error)
	Single(ctx context.Context, p Predicate) (*T, error)

	GetAll(ctx context.Context) *Cursor[T]
	GetAllIncluding(ctx context.Context, relations ...string) *Cursor[T]
	GetAllList(ctx context.Context) ([]*T, error)
	GetAllListWhere(ctx context.Context, p Predicate) ([]*T, error)

	Insert(ctx context.Context, entity *T) (*T, error)
	InsertAndGetID(ctx context.Context, entity *T) (int, error)
	InsertOrUpdate(ctx context.Context, entity *T) (*T, error)
	InsertOrUpdateAndGetID(ctx context.Context, entity *T) (int, error)
	Update(ctx context.Context, entity *T) (*T, error)
	UpdateByID(ctx context.Context, id int, mutate func(*T) error) (*T, error)

	Delete(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id int) error
	DeleteWhere(ctx context.Context, p Predicate) (int64, error)

	// PurgeDeleted physically removes rows soft-deleted before the cutoff
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// Purger is the slice of a repository the purge job needs
type Purger interface {
	TableName() string
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)
}

// Query hands a fresh cursor to fn and returns whatever fn derives from it.
// Errors from fn are translated like any other store error.
func Query[T, R any](ctx context.Context, repo Repository[T], fn func(*Cursor[T]) (R, error)) (R, error) {
	var zero R
	if err := checkContext(ctx); err != nil {
		return zero, err
	}
	out, err := fn(repo.GetAll(ctx))
	if err != nil {
		return zero, translateError(err)
	}
	return out, nil
}
