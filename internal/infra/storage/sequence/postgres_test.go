package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceQuery(t *testing.T) {
	query, args, err := nextSequenceQuery(time.Date(2026, 3, 9, 18, 20, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO booking_sequences (sequence_date,last_sequence) VALUES ($1,$2) "+
			"ON CONFLICT (sequence_date) DO UPDATE SET last_sequence = booking_sequences.last_sequence + 1, "+
			"updated_at = NOW() RETURNING last_sequence",
		query)
	assert.Equal(t, []interface{}{time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), 1}, args)
}
