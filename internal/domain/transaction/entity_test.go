package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction("b1", "alice", 3)
	require.NoError(t, err)
	assert.Equal(t, "b1", tx.BookID)
	assert.Equal(t, "alice", tx.Name)
	assert.Equal(t, 3, tx.Amount)
	assert.Empty(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())
}

func TestNewTransaction_NonPositiveAmount(t *testing.T) {
	for _, amount := range []int{0, -1} {
		_, err := NewTransaction("b1", "alice", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}
