package repository

import "gorm.io/gorm"

// conn picks the handle a read runs on: the caller's transaction when one is
// open, the pooled connection otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
