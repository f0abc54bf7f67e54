package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/playmatatu/cuetable/internal/config"
	"github.com/redis/go-redis/v9"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchOver     = errors.New("match is over")
)

// Session is one hosted match. The match itself is only touched under mu.
type Session struct {
	ID           string
	Token        string
	Variant      config.Variant
	CreatedAt    time.Time
	LastActivity time.Time

	match *Match
	mu    sync.Mutex
}

// Update is what the driver hands to listeners after advancing a session.
type Update struct {
	MatchID  string
	Snapshot Snapshot
	Events   []EventRecord
}

// UpdateListener receives driver updates. It runs on the driver goroutine.
type UpdateListener func(Update)

// Manager owns every live match session.
type Manager struct {
	sessions  map[string]*Session
	listeners []UpdateListener
	closed    []ClosedListener
	rdb       *redis.Client  // optional snapshot cache and idle index
	config    *config.Config // application config
	mu        sync.RWMutex
}

// NewManager creates a manager. rdb may be nil.
func NewManager(rdb *redis.Client, cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.Load()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		rdb:      rdb,
		config:   cfg,
	}
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateMatchID() string {
	return "match_" + generateToken(8)
}

// Config returns the application config the manager was built with.
func (gm *Manager) Config() *config.Config { return gm.config }

// CreateMatch starts a match of the given variant, reading table overrides
// from the configured match config directory.
func (gm *Manager) CreateMatch(variant config.Variant) (*Session, error) {
	mc, err := config.MatchConfigFor(gm.config.MatchConfigDir, variant)
	if err != nil {
		return nil, err
	}
	return gm.CreateMatchWithConfig(mc)
}

// CreateMatchWithConfig starts a match from an explicit table configuration.
func (gm *Manager) CreateMatchWithConfig(mc config.MatchConfig) (*Session, error) {
	m, err := NewMatch(mc)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:           generateMatchID(),
		Token:        generateToken(16),
		Variant:      mc.Variant,
		CreatedAt:    now,
		LastActivity: now,
		match:        m,
	}

	gm.mu.Lock()
	gm.sessions[s.ID] = s
	gm.mu.Unlock()

	gm.markActive(s.ID, now)
	log.Printf("[MATCH] Created %s match %s", mc.Variant, s.ID)
	return s, nil
}

// Get returns a live session.
func (gm *Manager) Get(id string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.sessions[id]
	if !exists {
		return nil, ErrMatchNotFound
	}
	return s, nil
}

// Count returns the number of live sessions.
func (gm *Manager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// Remove drops a session and announces the close to its room. Its cached
// snapshot stays in Redis until it expires.
func (gm *Manager) Remove(id string) error {
	return gm.remove(context.Background(), id, CloseReasonEnded)
}

func (gm *Manager) remove(ctx context.Context, id, reason string) error {
	gm.mu.Lock()
	_, exists := gm.sessions[id]
	delete(gm.sessions, id)
	gm.mu.Unlock()

	if !exists {
		return ErrMatchNotFound
	}
	if gm.rdb != nil {
		gm.rdb.ZRem(ctx, idleKey, id)
	}
	log.Printf("[MATCH] Removed match %s (%s)", id, reason)
	gm.announceClosed(ctx, ClosedNotice{Type: "match_closed", MatchID: id, Reason: reason})
	return nil
}

// WithSession runs fn with exclusive access to the session's match and
// counts the call as activity.
func (gm *Manager) WithSession(id string, fn func(*Match) error) error {
	s, err := gm.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	now := time.Now()
	s.LastActivity = now
	err = fn(s.match)
	s.mu.Unlock()

	gm.markActive(id, now)
	return err
}

// Snapshot returns the live snapshot of a match, falling back to the copy
// cached in Redis for matches no longer held in memory.
func (gm *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	if s, err := gm.Get(id); err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.match.Snapshot(), nil
	}
	return gm.loadSnapshot(ctx, id)
}

// Advance runs up to n frames on a match, stopping early once it settles
// after at least one frame, and saves the snapshot if a shot finished.
func (gm *Manager) Advance(id string, n int) (Update, error) {
	var up Update
	err := gm.WithSession(id, func(m *Match) error {
		if m.GameOver() {
			return ErrMatchOver
		}
		for i := 0; i < n; i++ {
			m.Tick()
			if m.Settled() {
				break
			}
		}
		up = Update{MatchID: id, Snapshot: m.Snapshot(), Events: m.DrainEvents()}
		return nil
	})
	if err != nil {
		return up, err
	}
	if shotFinished(up.Events) {
		gm.saveSnapshot(context.Background(), id, up.Snapshot)
	}
	return up, nil
}

// OnUpdate registers a listener for driver updates.
func (gm *Manager) OnUpdate(fn UpdateListener) {
	gm.mu.Lock()
	gm.listeners = append(gm.listeners, fn)
	gm.mu.Unlock()
}

// StartDriver ticks every match with a shot in progress at TickRateHz until
// ctx is cancelled.
func (gm *Manager) StartDriver(ctx context.Context) {
	rate := gm.config.TickRateHz
	if rate <= 0 {
		log.Println("[MATCH] Tick rate is zero; driver not started")
		return
	}

	log.Printf("[MATCH] Driver started at %d Hz", rate)
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[MATCH] Driver stopping")
				return
			case <-ticker.C:
				gm.step()
			}
		}
	}()
}

// step advances every unsettled session by one frame and publishes the result.
func (gm *Manager) step() {
	gm.mu.RLock()
	sessions := make([]*Session, 0, len(gm.sessions))
	for _, s := range gm.sessions {
		sessions = append(sessions, s)
	}
	listeners := append([]UpdateListener(nil), gm.listeners...)
	gm.mu.RUnlock()

	for _, s := range sessions {
		s.mu.Lock()
		if s.match.Settled() {
			s.mu.Unlock()
			continue
		}
		s.match.Tick()
		up := Update{MatchID: s.ID, Snapshot: s.match.Snapshot(), Events: s.match.DrainEvents()}
		s.mu.Unlock()

		if shotFinished(up.Events) {
			gm.saveSnapshot(context.Background(), s.ID, up.Snapshot)
		}
		for _, fn := range listeners {
			fn(up)
		}
	}
}

func shotFinished(events []EventRecord) bool {
	for _, ev := range events {
		if ev.Name == EventShotEnded || ev.Name == EventGameWon {
			return true
		}
	}
	return false
}
