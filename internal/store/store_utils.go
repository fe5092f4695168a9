package store

import "gorm.io/gorm"

// DoInTx runs fn inside a database transaction, rolling back on error.
// A nil handle runs fn directly, outside any transaction.
func DoInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.Transaction(fn)
}
