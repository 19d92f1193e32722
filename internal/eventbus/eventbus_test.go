package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motorsim/core/metrics"
)

func TestBusFanOut(t *testing.T) {
	b := New()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(metrics.StepResult{PowerW: -100})

	require.Len(t, a, 1)
	require.Len(t, c, 1)
	assert.Equal(t, -100.0, (<-a).PowerW)
}

func TestBusUnsubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(metrics.StepResult{})
}

func TestBusClose(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()

	_, open := <-sub
	assert.False(t, open)
	b.Publish(metrics.StepResult{})
	b.Close()
}

func TestBusDropsWhenFull(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	for i := 0; i < 100; i++ {
		b.Publish(metrics.StepResult{SimTime: float64(i)})
	}
	// Buffer is 64; the rest were dropped without blocking.
	assert.Len(t, sub, 64)
}
