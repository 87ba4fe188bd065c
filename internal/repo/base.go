package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle shared by domain repositories. Repositories embed
// it and swap it out through their WithTx methods so reads and writes issued
// during checkout or payment verification ride the caller's transaction.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base bound to the provided GORM connection, which may
// be a root connection or an in-flight transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection scoped to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
