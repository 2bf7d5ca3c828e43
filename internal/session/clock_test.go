package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestClock_CountsWhileRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Millisecond)
	assert.False(t, c.Running())

	c.Start()
	require.True(t, c.Running())
	require.Eventually(t, func() bool { return c.Elapsed() >= 3 }, time.Second, time.Millisecond)

	c.Stop()
	assert.False(t, c.Running())
	frozen := c.Elapsed()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, c.Elapsed(), "stopped clock does not advance")
}

func TestClock_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Millisecond)
	c.Stop()
	c.Start()
	c.Stop()
	c.Stop()
	assert.False(t, c.Running())
}

func TestClock_StartRestartsFromZero(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Hour)
	c.seconds.Store(42)
	c.Start()
	defer c.Stop()

	assert.Equal(t, 0, c.Elapsed())
	assert.True(t, c.Running())
}

func TestClock_StartTwiceKeepsOneGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Millisecond)
	c.Start()
	c.Start()
	c.Start()
	c.Stop()
	// goleak fails the test if an earlier run survived.
}

func TestClock_Reset(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Millisecond)
	c.Start()
	require.Eventually(t, func() bool { return c.Elapsed() > 0 }, time.Second, time.Millisecond)

	c.Reset()
	assert.False(t, c.Running())
	assert.Equal(t, 0, c.Elapsed())
}

func TestClock_ConcurrentStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewClock(time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.Start()
			} else {
				c.Stop()
			}
		}(i)
	}
	wg.Wait()
	c.Stop()
	assert.False(t, c.Running())
}

func TestNewClock_DefaultPeriod(t *testing.T) {
	assert.Equal(t, DefaultTick, NewClock(0).period)
}
