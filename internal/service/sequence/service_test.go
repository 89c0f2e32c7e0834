package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

// memoryCounter счетчик в памяти с теми же гарантиями, что у postgres и redis
type memoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{values: make(map[string]int64)}
}

func (c *memoryCounter) Next(_ context.Context, date time.Time) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := date.Format("2006-01-02")
	c.values[key]++
	return c.values[key], nil
}

func TestFormatReference(t *testing.T) {
	date := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "BK-20260309-000001", FormatReference(date, 1))
	assert.Equal(t, "BK-20260309-123456", FormatReference(date, 123456))
}

func TestService_Generate_UniquePerDateAndResets(t *testing.T) {
	svc := NewService(newMemoryCounter(), "memory", nil, logger.Nop())
	ctx := context.Background()
	day1 := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	const n = 50
	refs := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := svc.Generate(ctx, day1)
			assert.NoError(t, err)
			refs <- ref
		}()
	}
	wg.Wait()
	close(refs)

	seen := make(map[string]struct{}, n)
	for ref := range refs {
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, n)

	next, err := svc.Generate(ctx, day2)
	require.NoError(t, err)
	assert.Equal(t, "BK-20260310-000001", next)
}

func TestService_Generate_CounterFailure(t *testing.T) {
	counter := newMemoryCounter()
	counter.err = errors.New("connection refused")

	_, err := NewService(counter, "memory", nil, logger.Nop()).Generate(context.Background(), time.Now())

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, counter.err)
}

func TestService_Generate_Overflow(t *testing.T) {
	counter := newMemoryCounter()
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	counter.values["2026-03-09"] = maxSequence

	_, err := NewService(counter, "memory", nil, logger.Nop()).Generate(context.Background(), date)

	assert.ErrorIs(t, err, ErrSequenceOverflow)
}
