package database

import (
	"reflect"

	"gorm.io/gorm"

	"adminlte-api/internal/domain"
)

// RegisterAuditCallbacks installs the session hook that fills the audited base fields.
// Creation fields are stamped on insert; modification fields on whole-entity updates.
// Column-map updates (soft delete, purge) set their own columns and are left alone.
func RegisterAuditCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("audit:stamp_created", stampCreated); err != nil {
		return err
	}
	return cb.Update().Before("gorm:update").Register("audit:stamp_modified", stampModified)
}

func stampCreated(db *gorm.DB) {
	now := db.NowFunc()
	actor := domain.ActorFrom(db.Statement.Context)
	eachEntity(db, func(e domain.Entity) {
		e.Audited().MarkCreated(actor, now)
	})
}

func stampModified(db *gorm.DB) {
	if _, ok := db.Statement.Dest.(map[string]interface{}); ok {
		return
	}
	now := db.NowFunc()
	actor := domain.ActorFrom(db.Statement.Context)
	eachEntity(db, func(e domain.Entity) {
		e.Audited().MarkModified(actor, now)
	})
}

func eachEntity(db *gorm.DB, fn func(domain.Entity)) {
	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			visitEntity(rv.Index(i), fn)
		}
	case reflect.Struct:
		visitEntity(rv, fn)
	}
}

func visitEntity(v reflect.Value, fn func(domain.Entity)) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return
	}
	if e, ok := v.Addr().Interface().(domain.Entity); ok {
		fn(e)
	}
}
