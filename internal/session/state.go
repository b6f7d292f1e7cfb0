package session

import (
	"sync"
	"time"

	"ForexDash/internal/domain/models"
)

// subscriberBuffer is how many snapshots a subscriber may lag behind before
// older ones are dropped.
const subscriberBuffer = 8

// State is the dashboard session. All request fields are mutated through
// Begin, SetProgress and Settle; everything else is form or catalog state.
type State struct {
	mu  sync.Mutex
	cur models.RequestState
	gen uint64

	subs    map[int]chan models.RequestState
	nextSub int

	now func() time.Time
}

// New creates an idle session with the given form parameters.
func New(params models.PredictionParameters) *State {
	s := &State{
		subs: make(map[int]chan models.RequestState),
		now:  time.Now,
	}
	s.cur.Params = params.Clamp(models.EnvelopeBounds)
	s.cur.UpdatedAt = s.now()
	return s
}

// Begin marks a request as in flight. It fails without touching anything if
// another request already is. On success the previous result and error are
// cleared and the returned generation identifies this request.
func (s *State) Begin(profile models.ProfileName, symbol string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.Loading {
		return 0, false
	}
	s.gen++
	s.cur.Loading = true
	s.cur.Error = ""
	s.cur.ErrorKind = models.ErrorNone
	s.cur.CanFallback = false
	s.cur.LastResult = nil
	s.cur.Progress = 0
	s.cur.ProgressStage = ""
	s.cur.Profile = profile
	s.cur.LastSymbol = symbol
	s.cur.Generation = s.gen
	s.publishLocked()
	return s.gen, true
}

// SetProgress records simulated progress for generation gen. Writes for any
// other generation, or after settlement, are ignored.
func (s *State) SetProgress(gen uint64, progress float64, stage string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(gen) {
		return false
	}
	s.cur.Progress = progress
	s.cur.ProgressStage = stage
	s.publishLocked()
	return true
}

// Outcome is the terminal result of one request.
type Outcome struct {
	Result *models.PredictionResult
	Kind   models.ErrorKind
	Error  string
}

// Settle ends request gen. Loading, progress and stage are cleared together.
// A settle for a stale generation is discarded and reports false.
func (s *State) Settle(gen uint64, out Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(gen) {
		return false
	}
	s.cur.Loading = false
	s.cur.Progress = 0
	s.cur.ProgressStage = ""
	if out.Error != "" {
		s.cur.LastResult = nil
		s.cur.Error = out.Error
		s.cur.ErrorKind = out.Kind
		s.cur.CanFallback = out.Kind.OffersFallback()
	} else {
		s.cur.LastResult = out.Result
	}
	s.publishLocked()
	return true
}

// SetParams replaces the form parameters. Only the service envelope is
// applied here; each profile clamps again before sending.
func (s *State) SetParams(p models.PredictionParameters) models.PredictionParameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur.Params = p.Clamp(models.EnvelopeBounds)
	s.publishLocked()
	return s.cur.Params
}

// Params returns the current form parameters.
func (s *State) Params() models.PredictionParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Params
}

// DismissError clears the displayed error and any fallback offer.
func (s *State) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.Error == "" {
		return
	}
	s.cur.Error = ""
	s.cur.ErrorKind = models.ErrorNone
	s.cur.CanFallback = false
	s.publishLocked()
}

// SetCatalogStatus records whether the prediction service answered the
// catalog lookups. errMsg is shown only while no request is in flight and no
// other error is displayed.
func (s *State) SetCatalogStatus(connected bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur.APIConnected = connected
	if errMsg != "" && !s.cur.Loading && s.cur.Error == "" {
		s.cur.Error = errMsg
		s.cur.ErrorKind = models.ErrorCatalog
		s.cur.CanFallback = false
	}
	if connected && errMsg == "" && s.cur.ErrorKind == models.ErrorCatalog {
		s.cur.Error = ""
		s.cur.ErrorKind = models.ErrorNone
	}
	s.publishLocked()
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() models.RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Subscribe returns a channel of snapshots, starting with the current one,
// and a cancel func that closes it. Slow readers miss intermediate snapshots.
func (s *State) Subscribe() (<-chan models.RequestState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.RequestState, subscriberBuffer)
	ch <- s.cur
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

func (s *State) activeLocked(gen uint64) bool {
	return s.cur.Loading && gen == s.gen
}

func (s *State) publishLocked() {
	s.cur.UpdatedAt = s.now()
	snap := s.cur
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the oldest queued snapshot to make room for the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
