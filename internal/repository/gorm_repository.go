package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"adminlte-api/internal/domain"
)

// EntityPtr constrains PT to *T implementing domain.Entity
type EntityPtr[T any] interface {
	*T
	domain.Entity
}

type gormRepository[T any, PT EntityPtr[T]] struct {
	db     *gorm.DB
	schema *schema.Schema
}

// New returns a gorm-backed Repository for T. The entity schema is parsed once here
// so unknown fields are reported without a round trip.
func New[T any, PT EntityPtr[T]](db *gorm.DB) (Repository[T], error) {
	if db == nil {
		return nil, fmt.Errorf("repository: nil database")
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("repository: parse schema: %w", err)
	}
	return &gormRepository[T, PT]{db: db, schema: stmt.Schema}, nil
}

func (r *gormRepository[T, PT]) TableName() string {
	return r.schema.Table
}

func (r *gormRepository[T, PT]) column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// liveByID matches the non-deleted row with the given id
func (r *gormRepository[T, PT]) liveByID(id int) clause.Where {
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: r.column(domain.ColumnID), Value: id},
		clause.Eq{Column: r.column(domain.ColumnIsDeleted), Value: false},
	}}
}

// Count family

func (r *gormRepository[T, PT]) Count(ctx context.Context) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	return r.GetAll(ctx).Count()
}

func (r *gormRepository[T, PT]) CountWhere(ctx context.Context, p Predicate) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	return r.GetAll(ctx).Where(p).Count()
}

func (r *gormRepository[T, PT]) LongCount(ctx context.Context) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	return r.GetAll(ctx).LongCount()
}

func (r *gormRepository[T, PT]) LongCountWhere(ctx context.Context, p Predicate) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	return r.GetAll(ctx).Where(p).LongCount()
}

// Single-entity reads

func (r *gormRepository[T, PT]) Get(ctx context.Context, id int) (*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	e, err := r.GetAll(ctx).Where(Eq(domain.ColumnID, id)).FirstOrDefault()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s id=%d", ErrNotFound, r.schema.Table, id)
	}
	return e, nil
}

func (r *gormRepository[T, PT]) Load(id int) *T {
	e := new(T)
	PT(e).SetID(id)
	return e
}

func (r *gormRepository[T, PT]) FirstOrDefault(ctx context.Context, id int) (*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.GetAll(ctx).Where(Eq(domain.ColumnID, id)).FirstOrDefault()
}

func (r *gormRepository[T, PT]) FirstOrDefaultWhere(ctx context.Context, p Predicate) (*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.GetAll(ctx).Where(p).OrderBy(domain.ColumnID).FirstOrDefault()
}

func (r *gormRepository[T, PT]) Single(ctx context.Context, p Predicate) (*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.GetAll(ctx).Where(p).Single()
}

// Collections

func (r *gormRepository[T, PT]) GetAll(ctx context.Context) *Cursor[T] {
	return newCursor[T](r.db.WithContext(ctx), r.schema)
}

func (r *gormRepository[T, PT]) GetAllIncluding(ctx context.Context, relations ...string) *Cursor[T] {
	return r.GetAll(ctx).Include(relations...)
}

func (r *gormRepository[T, PT]) GetAllList(ctx context.Context) ([]*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.GetAll(ctx).OrderBy(domain.ColumnID).List()
}

func (r *gormRepository[T, PT]) GetAllListWhere(ctx context.Context, p Predicate) ([]*T, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.GetAll(ctx).Where(p).OrderBy(domain.ColumnID).List()
}

// Writes

func (r *gormRepository[T, PT]) Insert(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: nil %s", ErrInvalidEntity, r.schema.Name)
	}
	if !PT(entity).IsTransient() {
		return nil, fmt.Errorf("%w: insert of %s with id=%d", ErrInvalidEntity, r.schema.Name, PT(entity).GetID())
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := r.create(r.db.WithContext(ctx), entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *gormRepository[T, PT]) create(tx *gorm.DB, entity *T) error {
	// audit fields are stamped by the session hook, never taken from the caller
	audit := PT(entity).Audited()
	audit.CreationTime = time.Time{}
	audit.CreatorUserID = nil
	audit.LastModificationTime = nil
	audit.LastModifierUserID = nil
	audit.IsDeleted = false
	audit.DeletionTime = nil
	audit.DeleterUserID = nil
	if err := tx.Omit(clause.Associations).Create(entity).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *gormRepository[T, PT]) InsertAndGetID(ctx context.Context, entity *T) (int, error) {
	e, err := r.Insert(ctx, entity)
	if err != nil {
		return 0, err
	}
	return PT(e).GetID(), nil
}

func (r *gormRepository[T, PT]) InsertOrUpdate(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: nil %s", ErrInvalidEntity, r.schema.Name)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if PT(entity).IsTransient() {
			return r.create(tx, entity)
		}
		return r.replace(tx, entity)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return entity, nil
}

func (r *gormRepository[T, PT]) InsertOrUpdateAndGetID(ctx context.Context, entity *T) (int, error) {
	e, err := r.InsertOrUpdate(ctx, entity)
	if err != nil {
		return 0, err
	}
	return PT(e).GetID(), nil
}

func (r *gormRepository[T, PT]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: nil %s", ErrInvalidEntity, r.schema.Name)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.replace(tx, entity)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return entity, nil
}

// replace overwrites the live row with entity. Creation and deletion fields are
// taken from the stored row; gorm's Save would insert when nothing matched, so
// existence is checked first.
func (r *gormRepository[T, PT]) replace(tx *gorm.DB, entity *T) error {
	stored, err := r.loadLive(tx, PT(entity).GetID())
	if err != nil {
		return err
	}
	PT(entity).Audited().CarryCreation(PT(stored).Audited())
	if err := tx.Omit(clause.Associations).Save(entity).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *gormRepository[T, PT]) loadLive(tx *gorm.DB, id int) (*T, error) {
	stored := new(T)
	if err := tx.Model(new(T)).Clauses(r.liveByID(id)).Take(stored).Error; err != nil {
		return nil, translateError(err)
	}
	return stored, nil
}

func (r *gormRepository[T, PT]) UpdateByID(ctx context.Context, id int, mutate func(*T) error) (*T, error) {
	if mutate == nil {
		return nil, fmt.Errorf("%w: nil update action", ErrInvalidEntity)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.loadLive(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}
		// the action must not move the entity to another row
		PT(current).SetID(id)
		if err := r.replace(tx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// Deletes are soft: the row stays, flagged and stamped, and drops out of every read.

func deletion(actor *int, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		domain.ColumnIsDeleted:     true,
		domain.ColumnDeletionTime:  at,
		domain.ColumnDeleterUserID: actor,
	}
}

func (r *gormRepository[T, PT]) Delete(ctx context.Context, entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: nil %s", ErrInvalidEntity, r.schema.Name)
	}
	actor, at := domain.ActorFrom(ctx), r.db.NowFunc()
	if err := r.softDelete(ctx, PT(entity).GetID(), actor, at); err != nil {
		return err
	}
	PT(entity).Audited().MarkDeleted(actor, at)
	return nil
}

func (r *gormRepository[T, PT]) DeleteByID(ctx context.Context, id int) error {
	return r.softDelete(ctx, id, domain.ActorFrom(ctx), r.db.NowFunc())
}

func (r *gormRepository[T, PT]) softDelete(ctx context.Context, id int, actor *int, at time.Time) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(new(T)).Clauses(r.liveByID(id)).Updates(deletion(actor, at))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s id=%d", ErrNotFound, r.schema.Table, id)
	}
	return nil
}

func (r *gormRepository[T, PT]) DeleteWhere(ctx context.Context, p Predicate) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil predicate", ErrInvalidEntity)
	}
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	expr, err := p.expression(r.schema)
	if err != nil {
		return 0, err
	}
	var affected int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).
			Clauses(clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: r.column(domain.ColumnIsDeleted), Value: false},
				expr,
			}}).
			Updates(deletion(domain.ActorFrom(ctx), r.db.NowFunc()))
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, translateError(err)
	}
	return affected, nil
}

func (r *gormRepository[T, PT]) PurgeDeleted(ctx context.Context, before time.Time) (int64, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: r.column(domain.ColumnIsDeleted), Value: true},
			clause.Lt{Column: r.column(domain.ColumnDeletionTime), Value: before.UTC()},
		}}).
		Delete(new(T))
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}
