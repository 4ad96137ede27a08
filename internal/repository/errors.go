package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository errors, checked with errors.Is
var (
	// ErrNotFound is returned when a key or predicate matched nothing where one row was required
	ErrNotFound = errors.New("entity not found")

	// ErrAmbiguousMatch is returned when a predicate matched more than one row where one was required
	ErrAmbiguousMatch = errors.New("more than one entity matched")

	// ErrConstraintViolation wraps store-level integrity failures (unique, foreign key, check)
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrCancelled is returned when the context ended before the operation completed
	ErrCancelled = errors.New("operation cancelled")

	// ErrCountOverflow is returned by the 32-bit count methods; use LongCount instead
	ErrCountOverflow = errors.New("count exceeds 32-bit range, use LongCount")

	// ErrInvalidEntity is returned for nil entities or an insert of an entity that already has an id
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnknownField is returned when a predicate or ordering names a field the entity lacks
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownRelation is returned when an include names a relation the entity lacks
	ErrUnknownRelation = errors.New("unknown relation")
)

// translateError maps store and context errors onto the repository taxonomy.
// The original error stays in the chain so store detail is not lost.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAmbiguousMatch),
		errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrCancelled),
		errors.Is(err, ErrInvalidEntity), errors.Is(err, ErrUnknownField),
		errors.Is(err, ErrUnknownRelation), errors.Is(err, ErrCountOverflow):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	case isConstraintViolation(err):
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}

func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	// SQLSTATE class 23: integrity constraint violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	// sqlite reports NOT NULL / CHECK failures without a translated sentinel
	return strings.Contains(err.Error(), "constraint failed")
}

// checkContext fails fast when ctx is already done
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}
