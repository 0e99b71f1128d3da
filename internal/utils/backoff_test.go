package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := NewBackoff(time.Millisecond, 2).Do(context.Background(), func(i int) error {
		calls++
		if i < 2 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffReturnsLastError(t *testing.T) {
	calls := 0
	err := NewBackoff(time.Millisecond, 2).WithJitter(time.Millisecond).Do(context.Background(), func(i int) error {
		calls++
		return errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 3, calls)
}

func TestBackoffPermanentStops(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := NewBackoff(time.Millisecond, 5).Do(context.Background(), func(int) error {
		calls++
		return Permanent(sentinel)
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestBackoffHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewBackoff(time.Second, 3).Do(ctx, func(int) error { return errors.New("x") })
	assert.ErrorIs(t, err, context.Canceled)
}
