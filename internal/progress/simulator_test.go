package progress

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	gen      uint64
	progress float64
	stage    string
}

type recordingSink struct {
	mu     sync.Mutex
	writes []write
	accept func(n int) bool
}

func (r *recordingSink) SetProgress(gen uint64, p float64, stage string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, write{gen, p, stage})
	if r.accept != nil {
		return r.accept(len(r.writes))
	}
	return true
}

func (r *recordingSink) snapshot() []write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]write(nil), r.writes...)
}

func TestStageFor(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{-5, "Fetching market data..."},
		{0, "Fetching market data..."},
		{16.6, "Fetching market data..."},
		{16.7, "Calculating technical indicators..."},
		{50, "Training LSTM model..."},
		{94.9, "Analyzing signals..."},
		{100, "Analyzing signals..."},
		{250, "Analyzing signals..."},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StageFor(c.p), "progress %v", c.p)
	}
}

func TestStep_NeverReachesCap(t *testing.T) {
	s := New(&recordingSink{}, WithRand(func() float64 { return 0.9999 }))

	p := 0.0
	for i := 0; i < 100; i++ {
		p = s.step(p)
		require.Less(t, p, 95.0)
	}
	// 0.9999*15 per step crosses 95 on the 7th step and is held just below
	assert.Equal(t, math.Nextafter(95, 0), p)
}

func TestStep_KeepsCreepingTowardCap(t *testing.T) {
	s := New(&recordingSink{}, WithRand(func() float64 { return 0.99 }))

	p := 89.1
	p = s.step(p)
	assert.Greater(t, p, 89.1)
	assert.Less(t, p, 95.0)
	assert.InDelta(t, 95.0, p, 1e-9)
}

func TestStep_ZeroIncrement(t *testing.T) {
	s := New(&recordingSink{}, WithRand(func() float64 { return 0 }))
	assert.Equal(t, 10.0, s.step(10))
}

func TestStart_WritesTaggedMonotonicProgress(t *testing.T) {
	sink := &recordingSink{}
	s := New(sink, WithInterval(time.Millisecond), WithRand(func() float64 { return 0.5 }))

	stop := s.Start(7)
	require.Eventually(t, func() bool { return len(sink.snapshot()) >= 20 }, time.Second, time.Millisecond)
	stop()

	writes := sink.snapshot()
	assert.Equal(t, 0.0, writes[0].progress)
	assert.Equal(t, Stages[0], writes[0].stage)

	prev := -1.0
	for _, w := range writes {
		assert.Equal(t, uint64(7), w.gen)
		assert.Less(t, w.progress, 95.0)
		assert.GreaterOrEqual(t, w.progress, prev)
		assert.Equal(t, StageFor(w.progress), w.stage)
		prev = w.progress
	}
}

func TestStart_StopHaltsWrites(t *testing.T) {
	sink := &recordingSink{}
	s := New(sink, WithInterval(time.Millisecond))

	stop := s.Start(1)
	require.Eventually(t, func() bool { return len(sink.snapshot()) >= 3 }, time.Second, time.Millisecond)
	stop()
	n := len(sink.snapshot())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, len(sink.snapshot()))
	stop()
}

func TestStart_ExitsWhenSinkRejects(t *testing.T) {
	sink := &recordingSink{accept: func(n int) bool { return n < 3 }}
	s := New(sink, WithInterval(time.Millisecond))

	stop := s.Start(1)
	require.Eventually(t, func() bool { return len(sink.snapshot()) == 3 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, sink.snapshot(), 3)
	stop()
}
