package livestream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/adapters"
	"github.com/veya/analytics-dashboard/pkg/models/api"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/store/client"
)

const (
	DefaultPollInterval = 30 * time.Second

	fetchFailedMessage = "Failed to fetch events"
)

// ErrStaleList is returned when a selection refers to an event list that a
// later poll has replaced.
var ErrStaleList = errors.New("event list has changed")

// EventSource is the part of the analytics client the stream polls.
type EventSource interface {
	RecentEvents(ctx context.Context) (*api.RecentEventsResponse, error)
}

type Config struct {
	PollInterval time.Duration
}

// Snapshot is a copy of the stream state at one point in time.
type Snapshot struct {
	Events      []domain.LiveEvent
	Loading     bool
	Paused      bool
	Error       string
	LastUpdated time.Time
	Selected    *domain.LiveEvent
	// Generation changes every time Events is replaced.
	Generation uint64
}

// Stream polls the recent events feed while it is running and not paused.
// Every fetch takes a sequence token and only the latest issued token may
// change the state. Close stops the timer and discards in-flight responses.
type Stream struct {
	source    EventSource
	interval  time.Duration
	newTicker TickerFunc
	now       func() time.Time
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
	wake   chan struct{}

	updates    chan struct{}
	loaded     chan struct{}
	loadedOnce sync.Once

	mu          sync.Mutex
	seq         uint64
	closed      bool
	paused      bool
	loading     bool
	events      []domain.LiveEvent
	errMessage  string
	lastUpdated time.Time
	selected    *domain.LiveEvent
	generation  uint64
}

type Option func(*Stream)

// WithTicker replaces the timer used for polling.
func WithTicker(f TickerFunc) Option {
	return func(s *Stream) {
		s.newTicker = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Stream) {
		s.now = now
	}
}

// Start activates a stream: it issues the first fetch right away and starts
// the poll timer.
func Start(ctx context.Context, source EventSource, cfg Config, opts ...Option) *Stream {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s := &Stream{
		source:    source,
		interval:  interval,
		newTicker: NewTimeTicker,
		now:       time.Now,
		logger:    zerolog.Ctx(ctx).With().Str("view", "live_stream").Logger(),
		done:      make(chan struct{}),
		wake:      make(chan struct{}, 1),
		updates:   make(chan struct{}, 1),
		loaded:    make(chan struct{}),
		loading:   true,
		events:    []domain.LiveEvent{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	s.spawnFetchLocked()
	s.mu.Unlock()

	go s.run()
	return s
}

// Updates signals every state change. It is closed by Close.
func (s *Stream) Updates() <-chan struct{} {
	return s.updates
}

func (s *Stream) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]domain.LiveEvent, len(s.events))
	copy(events, s.events)

	var selected *domain.LiveEvent
	if s.selected != nil {
		ev := *s.selected
		selected = &ev
	}

	return Snapshot{
		Events:      events,
		Loading:     s.loading,
		Paused:      s.paused,
		Error:       s.errMessage,
		LastUpdated: s.lastUpdated,
		Selected:    selected,
		Generation:  s.generation,
	}
}

// WaitLoaded blocks until the first response of this activation is applied.
func (s *Stream) WaitLoaded(ctx context.Context) error {
	select {
	case <-s.loaded:
		return nil
	case <-s.done:
		return fmt.Errorf("live stream closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause stops the poll timer. Displayed data is kept.
func (s *Stream) Pause() {
	s.setPaused(true)
}

// Resume restarts the poll timer without fetching immediately.
func (s *Stream) Resume() {
	s.setPaused(false)
}

// Refresh fetches out of band, whether or not the stream is paused.
func (s *Stream) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.spawnFetchLocked()
}

// Select opens the detail drawer on a copy of the event at index.
func (s *Stream) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(index)
}

// SelectIn is Select for an index taken from the list of the given
// generation. It fails with ErrStaleList once that list has been replaced.
func (s *Stream) SelectIn(generation uint64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed && generation != s.generation {
		return ErrStaleList
	}
	return s.selectLocked(index)
}

func (s *Stream) selectLocked(index int) error {
	if s.closed {
		return fmt.Errorf("live stream closed")
	}
	if index < 0 || index >= len(s.events) {
		return fmt.Errorf("event %d not found", index)
	}
	ev := domain.LiveEvent{Record: s.events[index].Clone()}
	s.selected = &ev
	s.notifyLocked()
	return nil
}

func (s *Stream) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != nil && !s.closed {
		s.selected = nil
		s.notifyLocked()
	}
}

// Close tears the stream down. It waits for the timer goroutine and any
// in-flight fetch, none of which can change the state afterwards.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.seq++
	s.mu.Unlock()

	s.cancel()
	<-s.done
	s.wg.Wait()

	s.mu.Lock()
	close(s.updates)
	s.mu.Unlock()
}

func (s *Stream) setPaused(paused bool) {
	s.mu.Lock()
	if s.closed || s.paused == paused {
		s.mu.Unlock()
		return
	}
	s.paused = paused
	s.notifyLocked()
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream) run() {
	defer close(s.done)

	var ticker Ticker
	var tick <-chan time.Time
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
		}
	}
	syncTicker := func() {
		s.mu.Lock()
		paused := s.paused
		s.mu.Unlock()

		switch {
		case paused:
			stop()
		case ticker == nil:
			ticker = s.newTicker(s.interval)
			tick = ticker.C()
		}
	}
	defer stop()

	syncTicker()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
			syncTicker()
		case <-tick:
			s.mu.Lock()
			if !s.paused && !s.closed {
				s.spawnFetchLocked()
			}
			s.mu.Unlock()
		}
	}
}

func (s *Stream) spawnFetchLocked() {
	token := s.beginLocked()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		events, err := s.fetch(s.ctx)
		s.apply(token, events, err)
	}()
}

func (s *Stream) beginLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Stream) fetch(ctx context.Context) ([]domain.LiveEvent, error) {
	resp, err := s.source.RecentEvents(ctx)
	if err != nil {
		return nil, err
	}
	return adapters.MapAPIEventsToDomainEvents(resp)
}

func (s *Stream) apply(token uint64, events []domain.LiveEvent, err error) {
	s.mu.Lock()
	if s.closed || token != s.seq {
		s.mu.Unlock()
		s.logger.Debug().Uint64("token", token).Msg("discarding stale events response")
		return
	}

	if err != nil {
		s.logger.Debug().Err(err).Msg("failed to fetch events")
		s.errMessage = client.Message(err, fetchFailedMessage)
	} else {
		s.events = events
		s.generation++
		s.lastUpdated = s.now()
		s.errMessage = ""
	}
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()

	s.loadedOnce.Do(func() { close(s.loaded) })
}

// notifyLocked must be called with mu held on a stream that is not closed.
func (s *Stream) notifyLocked() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
