package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaState_Snapshot(t *testing.T) {
	t.Run("nothing observed", func(t *testing.T) {
		q := NewQuotaState()

		remaining, reset := q.Snapshot()

		assert.Equal(t, DefaultQuota, q.Remaining)
		assert.False(t, q.RemainingKnown())
		assert.Nil(t, remaining)
		assert.Nil(t, reset)
	})

	t.Run("observed values are copied", func(t *testing.T) {
		q := NewQuotaState()
		q.ObserveRemaining(17)
		q.ResetAt = time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

		remaining, reset := q.Snapshot()
		q.ObserveRemaining(3)

		require.NotNil(t, remaining)
		assert.Equal(t, 17, *remaining)
		require.NotNil(t, reset)
		assert.Equal(t, time.UTC, reset.Location())
		assert.True(t, reset.Equal(q.ResetAt))
	})
}
