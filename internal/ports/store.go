package ports

// KeyValueStore is the device-local persistent store: a flat string
// key/value map that survives restarts.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool, error)

	// Set writes value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error
	Delete(key string) error
}

// KeyValueTx groups writes that must land together
type KeyValueTx interface {
	Set(key, value string) error
	Delete(key string) error
	Commit() error
	Rollback() error
}

// TxStore is a KeyValueStore that supports atomic multi-key writes
type TxStore interface {
	KeyValueStore
	BeginTx() (KeyValueTx, error)
}
