package progress

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Stages are shown in order as simulated progress advances.
var Stages = []string{
	"Fetching market data...",
	"Calculating technical indicators...",
	"Preprocessing features...",
	"Training LSTM model...",
	"Generating predictions...",
	"Analyzing signals...",
}

// Sink receives progress for one request generation. It returns false once
// that generation is no longer in flight.
type Sink interface {
	SetProgress(gen uint64, progress float64, stage string) bool
}

// Option configures Simulator.
type Option func(*Simulator)

// Simulator produces a monotonically increasing progress estimate for a
// request whose real completion is all-or-nothing.
type Simulator struct {
	sink     Sink
	interval time.Duration
	maxStep  float64
	cap      float64
	rnd      func() float64
}

// New creates a simulator writing into sink.
func New(sink Sink, opts ...Option) *Simulator {
	s := &Simulator{
		sink:     sink,
		interval: 800 * time.Millisecond,
		maxStep:  15,
		cap:      95,
		rnd:      rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMaxStep sets the exclusive upper bound of one increment, in percent.
func WithMaxStep(step float64) Option {
	return func(s *Simulator) {
		if step > 0 {
			s.maxStep = step
		}
	}
}

// WithCap sets the value progress never reaches while running.
func WithCap(c float64) Option {
	return func(s *Simulator) {
		if c > 0 && c <= 100 {
			s.cap = c
		}
	}
}

// WithRand replaces the source of uniform values in [0,1).
func WithRand(rnd func() float64) Option {
	return func(s *Simulator) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// Start runs the simulation for generation gen until the returned stop is
// called or the sink rejects a write. stop blocks until the goroutine exits
// and is safe to call more than once.
func (s *Simulator) Start(gen uint64) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		s.run(gen, done)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (s *Simulator) run(gen uint64, done <-chan struct{}) {
	var p float64
	if !s.sink.SetProgress(gen, p, StageFor(p)) {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		p = s.step(p)
		if !s.sink.SetProgress(gen, p, StageFor(p)) {
			return
		}
	}
}

// step advances p by a random increment, holding it just below the cap.
func (s *Simulator) step(p float64) float64 {
	next := p + s.rnd()*s.maxStep
	if next >= s.cap {
		return math.Nextafter(s.cap, 0)
	}
	return next
}

// StageFor maps a progress percentage onto Stages.
func StageFor(p float64) string {
	idx := int(math.Floor(p / 100 * float64(len(Stages))))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(Stages) {
		idx = len(Stages) - 1
	}
	return Stages[idx]
}
