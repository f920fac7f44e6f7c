package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TxCommit(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("gone", "x"))

	tx, err := s.BeginTx()
	require.NoError(t, err)
	require.NoError(t, tx.Set("a", "1"))
	require.NoError(t, tx.Delete("gone"))

	_, ok, _ := s.Get("a")
	assert.False(t, ok, "writes are invisible before commit")

	require.NoError(t, tx.Commit())
	assert.Equal(t, map[string]string{"a": "1"}, s.Snapshot())
	assert.Error(t, tx.Set("b", "2"), "finished transaction rejects writes")
}

func TestStore_TxRollback(t *testing.T) {
	s := NewStore()
	tx, err := s.BeginTx()
	require.NoError(t, err)
	require.NoError(t, tx.Set("a", "1"))
	require.NoError(t, tx.Rollback())

	assert.Empty(t, s.Snapshot())
}
