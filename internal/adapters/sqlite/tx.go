package sqlite

import (
	"database/sql"

	"navhub/internal/ports"
)

// kvTx implements ports.KeyValueTx
type kvTx struct {
	tx *sql.Tx
}

// Ensure kvTx implements KeyValueTx
var _ ports.KeyValueTx = (*kvTx)(nil)

// Set writes value under key inside the transaction
func (t *kvTx) Set(key, value string) error {
	return upsert(t.tx, key, value)
}

// Delete removes key inside the transaction
func (t *kvTx) Delete(key string) error {
	_, err := t.tx.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Commit commits the transaction
func (t *kvTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *kvTx) Rollback() error {
	return t.tx.Rollback()
}
