package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/order"
	"github.com/petitchef/petit-chef/telemetry"
)

// EventSink receives server-to-client events for one player's connection.
type EventSink interface {
	Push(event string, payload any)
}

// ActiveChecker reads the player's persisted service flag. The registry
// re-checks it before every generated order so a stale session winds itself
// down.
type ActiveChecker interface {
	IsServiceActive(playerID string) (bool, error)
}

// ExpireFunc handles an order whose deadline passed. The order has already
// been claimed out of the session when the handler runs.
type ExpireFunc func(playerID string, o *order.Order, sink EventSink)

// EventOrderNew is pushed when a freshly generated order lands in a session.
const EventOrderNew = "order:new"

// pendingOrder pairs an open order with its expiry timer handle.
type pendingOrder struct {
	order *order.Order
	timer *time.Timer
}

// Session is the in-memory service state for one player.
type Session struct {
	PlayerID  string
	CreatedAt time.Time

	sink EventSink

	mu      sync.Mutex
	orders  map[string]*pendingOrder
	arrival *time.Timer
	stopped bool
}

// Sink returns the connection sink the session pushes events to.
func (s *Session) Sink() EventSink { return s.sink }

// Lookup returns an open order without removing it.
func (s *Session) Lookup(orderID string) (*order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[orderID]
	if !ok {
		return nil, false
	}
	return po.order, true
}

// Claim atomically removes an open order and cancels its expiry timer. This
// compare-and-delete is the mutual-exclusion primitive for order resolution:
// exactly one caller wins, every later claim of the same id fails.
func (s *Session) Claim(orderID string) (*order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.orders[orderID]
	if !ok {
		return nil, false
	}
	po.timer.Stop()
	delete(s.orders, orderID)
	return po.order, true
}

// OpenOrders returns the number of orders currently awaiting resolution.
func (s *Session) OpenOrders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// add registers an order with its expiry timer, refusing if the session has
// already been torn down (the timer is cancelled in that case).
func (s *Session) add(o *order.Order, timer *time.Timer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		timer.Stop()
		return false
	}
	s.orders[o.ID] = &pendingOrder{order: o, timer: timer}
	return true
}

// scheduleArrival arms the next arrival tick unless the session is stopped.
func (s *Session) scheduleArrival(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.arrival = time.AfterFunc(d, fn)
}

// teardown cancels the arrival schedule and every pending expiry timer and
// clears the order set. Safe to call more than once.
func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.arrival != nil {
		s.arrival.Stop()
	}
	for _, po := range s.orders {
		po.timer.Stop()
	}
	s.orders = make(map[string]*pendingOrder)
}

// Registry maps each actively-serving player to their live session and drives
// the order arrival schedule. At most one session exists per player.
type Registry struct {
	gen      *order.Generator
	cfg      *config.Config
	active   ActiveChecker
	onExpire ExpireFunc

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(gen *order.Generator, cfg *config.Config, active ActiveChecker) *Registry {
	return &Registry{
		gen:      gen,
		cfg:      cfg,
		active:   active,
		sessions: make(map[string]*Session),
	}
}

// SetExpireHandler wires the resolution engine's expiry path. Must be called
// before the first Start.
func (r *Registry) SetExpireHandler(fn ExpireFunc) {
	r.onExpire = fn
}

// Start creates a fresh session for the player, tearing down any existing one
// first so rapid restarts never leak timers or duplicate order streams. The
// first order arrives after a short warm-up delay; subsequent orders follow
// at uniformly random intervals.
func (r *Registry) Start(playerID string, sink EventSink) *Session {
	r.Stop(playerID)

	s := &Session{
		PlayerID:  playerID,
		CreatedAt: time.Now(),
		sink:      sink,
		orders:    make(map[string]*pendingOrder),
	}

	r.mu.Lock()
	r.sessions[playerID] = s
	r.mu.Unlock()

	s.scheduleArrival(r.cfg.FirstOrderDelay, func() { r.tick(s) })

	telemetry.Infof("service: started for player %s", playerID)
	return s
}

// Stop tears down the player's session: arrival schedule, expiry timers and
// order set. No-op when no session exists.
func (r *Registry) Stop(playerID string) {
	r.mu.Lock()
	s, ok := r.sessions[playerID]
	if ok {
		delete(r.sessions, playerID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	s.teardown()
	telemetry.Infof("service: stopped for player %s", playerID)
}

// Get returns the player's live session, if any. Lookup only.
func (r *Registry) Get(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[playerID]
	return s, ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// stopSession removes s from the registry only if it is still the player's
// registered session, then tears it down. A stale tick of a replaced session
// must never remove its successor.
func (r *Registry) stopSession(s *Session) {
	r.mu.Lock()
	registered := r.sessions[s.PlayerID] == s
	if registered {
		delete(r.sessions, s.PlayerID)
	}
	r.mu.Unlock()

	s.teardown()
	if registered {
		telemetry.Infof("service: stopped for player %s", s.PlayerID)
	}
}

// tick generates one order for the session and arms the next tick. A tick on
// a player whose persisted flag went inactive is treated as an implicit stop.
// Generation failures skip the tick; the schedule keeps going regardless.
func (r *Registry) tick(s *Session) {
	active, err := r.active.IsServiceActive(s.PlayerID)
	if err != nil || !active {
		if err != nil {
			telemetry.Warnf("service: active check for %s: %v", s.PlayerID, err)
		}
		r.stopSession(s)
		return
	}

	r.deliverOrder(s)
	s.scheduleArrival(r.nextInterval(), func() { r.tick(s) })
}

// deliverOrder generates an order, arms its expiry timer and pushes it to the
// client. An empty catalog means no order this tick.
func (r *Registry) deliverOrder(s *Session) {
	o, err := r.gen.Generate()
	if err != nil {
		telemetry.Warnf("service: order generation for %s: %v", s.PlayerID, err)
		return
	}
	if o == nil {
		return
	}

	timer := time.AfterFunc(o.TimeLimit, func() {
		if claimed, ok := s.Claim(o.ID); ok && r.onExpire != nil {
			r.onExpire(s.PlayerID, claimed, s.sink)
		}
	})

	if !s.add(o, timer) {
		return
	}

	s.sink.Push(EventOrderNew, o)
	telemetry.Infof("order: new for %s: %s", s.PlayerID, o.RecipeName)
}

func (r *Registry) nextInterval() time.Duration {
	spread := r.cfg.OrderIntervalMax - r.cfg.OrderIntervalMin
	if spread <= 0 {
		return r.cfg.OrderIntervalMin
	}
	return r.cfg.OrderIntervalMin + time.Duration(rand.Int63n(int64(spread)))
}
