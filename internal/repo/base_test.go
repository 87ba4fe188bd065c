package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDBScopesContext(t *testing.T) {
	db := openDB(t, "file:repobase?mode=memory&cache=shared")
	base := NewBase(db)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	scoped := base.DB(ctx)
	if scoped == nil || scoped.Statement == nil {
		t.Fatal("expected a statement-bound session for a non-nil context")
	}
	if scoped.Statement.Context != ctx {
		t.Fatalf("expected request context to flow through, got %v", scoped.Statement.Context)
	}

	if got := base.DB(nil); got != db {
		t.Fatal("expected nil context to return the raw connection")
	}
}

func TestBaseRebindsOntoTransaction(t *testing.T) {
	db := openDB(t, "file:repobasetx?mode=memory&cache=shared")

	err := db.Transaction(func(tx *gorm.DB) error {
		rebound := NewBase(tx)
		if rebound.DB(context.Background()).Statement.ConnPool != tx.Statement.ConnPool {
			t.Fatal("expected rebound base to issue statements on the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
