package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by repositories over tenant-owned tables.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx, if any.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tenant narrows model to rows whose column equals owner.
func (b Base) Tenant(ctx context.Context, model any, column, owner string) *gorm.DB {
	return b.DB(ctx).Model(model).Where(column+" = ?", owner)
}
