package debounce

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualClock fires timers only when Advance moves past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
	var due []*manualTimer
	var rest []*manualTimer
	for _, t := range c.timers {
		if t.at <= target {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	for _, t := range due {
		c.mu.Lock()
		c.now = t.at
		c.mu.Unlock()
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

type firing struct {
	at    time.Duration
	value string
}

func TestDebounceDeliversLatestOnceAfterQuiet(t *testing.T) {
	clock := &manualClock{}
	var fired []firing
	d := New(30*time.Millisecond, func(v string) {
		fired = append(fired, firing{at: clock.Now(), value: v})
	}, WithClock(clock))

	d.Call("a") // t=0
	clock.Advance(10 * time.Millisecond)
	d.Call("ab") // t=10
	clock.Advance(10 * time.Millisecond)
	d.Call("abc") // t=20
	clock.Advance(100 * time.Millisecond)

	require.Len(t, fired, 1)
	require.Equal(t, 50*time.Millisecond, fired[0].at)
	require.Equal(t, "abc", fired[0].value)
	require.False(t, d.Pending())
}

func TestDebounceSeparateBursts(t *testing.T) {
	clock := &manualClock{}
	var got []int
	d := New(30*time.Millisecond, func(v int) { got = append(got, v) }, WithClock(clock))

	d.Call(1)
	clock.Advance(40 * time.Millisecond)
	d.Call(2)
	clock.Advance(40 * time.Millisecond)

	require.Equal(t, []int{1, 2}, got)
}

func TestDebounceCancel(t *testing.T) {
	clock := &manualClock{}
	calls := 0
	d := New(30*time.Millisecond, func(int) { calls++ }, WithClock(clock))

	d.Call(1)
	require.True(t, d.Pending())
	d.Cancel()
	clock.Advance(time.Second)

	require.Zero(t, calls)
	require.False(t, d.Pending())
}

func TestDebounceFlush(t *testing.T) {
	clock := &manualClock{}
	var got []string
	d := New(30*time.Millisecond, func(v string) { got = append(got, v) }, WithClock(clock))

	require.False(t, d.Flush())
	d.Call("now")
	require.True(t, d.Flush())
	clock.Advance(time.Second)

	require.Equal(t, []string{"now"}, got)
}

func TestDebounceStaleTimerIgnored(t *testing.T) {
	clock := &manualClock{}
	var got []string
	d := New(30*time.Millisecond, func(v string) { got = append(got, v) }, WithClock(clock))

	d.Call("old")
	d.mu.Lock()
	oldGen := d.gen
	d.mu.Unlock()
	d.Call("new")

	// a timer that raced past Stop must not deliver
	d.fire(oldGen)
	require.Empty(t, got)

	clock.Advance(time.Second)
	require.Equal(t, []string{"new"}, got)
}

func TestDebounceRealClock(t *testing.T) {
	done := make(chan string, 1)
	d := New(50*time.Millisecond, func(v string) { done <- v })
	d.Call("x")
	d.Call("y")

	select {
	case v := <-done:
		require.Equal(t, "y", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
}
