package wallpaper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_StartStop(t *testing.T) {
	var ticks atomic.Int32
	s := NewScheduler(func() { ticks.Add(1) })
	defer s.Stop()

	s.Start(5 * time.Millisecond)
	assert.True(t, s.Running())
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	stopped := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), stopped+1, "at most one in-flight tick after stop")
}

func TestScheduler_ManualInterval(t *testing.T) {
	s := NewScheduler(func() { t.Fatal("manual rotation must not tick") })
	s.Start(0)
	assert.False(t, s.Running())
	assert.Zero(t, s.Interval())
}

func TestScheduler_Restart(t *testing.T) {
	s := NewScheduler(func() {})
	defer s.Stop()

	s.Start(time.Hour)
	first := s.ticker
	s.Restart(time.Hour)
	assert.Same(t, first, s.ticker, "same interval keeps the ticker")

	s.Restart(2 * time.Hour)
	assert.NotSame(t, first, s.ticker)
	assert.Equal(t, 2*time.Hour, s.Interval())

	s.Restart(0)
	assert.False(t, s.Running())
}
