package service

import (
	"context"

	"gorm.io/gorm"
)

// nilTx handles the nil-db case: by default it runs fn directly. Unit tests
// swap it for a rollback-capable runner over their in-memory state, so the
// all-or-nothing contract of runTx holds there too.
var nilTx = func(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// runTx executes fn inside a GORM transaction when db is available.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return nilTx(ctx, fn)
	}
	return db.WithContext(ctx).Transaction(fn)
}
