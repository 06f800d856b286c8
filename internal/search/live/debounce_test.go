package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualDebouncer replaces the timer with a list of pending flushes
func manualDebouncer(fired *[]Request) (*Debouncer, *[]func()) {
	timers := make([]func(), 0)
	d := NewDebouncer(time.Second, func(r Request) { *fired = append(*fired, r) })
	d.schedule = func(_ time.Duration, f func()) { timers = append(timers, f) }
	return d, &timers
}

func TestDebouncer_LastRequestInWindowWins(t *testing.T) {
	var fired []Request
	d, timers := manualDebouncer(&fired)

	assert.True(t, d.Submit(Request{Seq: 1, Params: "q=k"}))
	assert.True(t, d.Submit(Request{Seq: 2, Params: "q=ko"}))
	assert.True(t, d.Submit(Request{Seq: 3, Params: "q=koi"}))

	// one timer per window
	require.Len(t, *timers, 1)
	assert.Empty(t, fired)

	(*timers)[0]()

	assert.Equal(t, []Request{{Seq: 3, Params: "q=koi"}}, fired)
	assert.True(t, d.Current(3))
	assert.False(t, d.Current(2))
}

func TestDebouncer_NewWindowAfterFlush(t *testing.T) {
	var fired []Request
	d, timers := manualDebouncer(&fired)

	d.Submit(Request{Seq: 1, Params: "q=a"})
	(*timers)[0]()

	d.Submit(Request{Seq: 2, Params: "q=ab"})
	require.Len(t, *timers, 2)
	(*timers)[1]()

	assert.Equal(t, []Request{{Seq: 1, Params: "q=a"}, {Seq: 2, Params: "q=ab"}}, fired)
}

func TestDebouncer_RejectsStaleSequence(t *testing.T) {
	var fired []Request
	d, timers := manualDebouncer(&fired)

	assert.True(t, d.Submit(Request{Seq: 5, Params: "q=new"}))
	assert.False(t, d.Submit(Request{Seq: 4, Params: "q=old"}))
	assert.False(t, d.Submit(Request{Seq: 5, Params: "q=again"}))

	(*timers)[0]()

	assert.Equal(t, []Request{{Seq: 5, Params: "q=new"}}, fired)
}

func TestDebouncer_EmptyWindowDoesNotFire(t *testing.T) {
	var fired []Request
	d, timers := manualDebouncer(&fired)

	d.Submit(Request{Seq: 1})
	(*timers)[0]()
	// a second flush of the same window has nothing pending
	(*timers)[0]()

	assert.Len(t, fired, 1)
}

func TestDebouncer_Stop(t *testing.T) {
	var fired []Request
	d, timers := manualDebouncer(&fired)

	d.Submit(Request{Seq: 1})
	d.Stop()
	(*timers)[0]()

	assert.Empty(t, fired)
	assert.False(t, d.Submit(Request{Seq: 2}))
	assert.False(t, d.Current(1))
}

func TestDebouncer_RealTimer(t *testing.T) {
	done := make(chan Request, 2)
	d := NewDebouncer(20*time.Millisecond, func(r Request) { done <- r })

	d.Submit(Request{Seq: 1})
	d.Submit(Request{Seq: 2})

	select {
	case r := <-done:
		assert.Equal(t, int64(2), r.Seq)
	case <-time.After(time.Second):
		t.Fatal("debounced request never fired")
	}

	select {
	case r := <-done:
		t.Fatalf("unexpected second fire: %+v", r)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestNewDebouncer_DefaultWindow(t *testing.T) {
	d := NewDebouncer(0, func(Request) {})
	assert.Equal(t, DefaultWindow, d.window)
}
