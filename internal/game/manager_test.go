package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playmatatu/cuetable/internal/config"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(nil, &config.Config{
		TickRateHz:         60,
		SnapshotTTLSeconds: 60,
		MatchIdleMinutes:   30,
		ReaperPollSeconds:  30,
	})
}

// strike lines the cue up behind the cue ball and lets go.
func strike(t *testing.T, gm *Manager, id string) {
	t.Helper()
	err := gm.WithSession(id, func(m *Match) error {
		at := m.Table().CueBall().Position
		m.PointerDown(at.Minus(NewVec2(150, 0)))
		if !m.PointerUp(at.Minus(NewVec2(150, 0))) {
			return errors.New("shot not struck")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("strike: %v", err)
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	gm := setupManager(t)

	s, err := gm.CreateMatch(config.VariantPool)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if !strings.HasPrefix(s.ID, "match_") || len(s.Token) != 32 {
		t.Errorf("id=%q token=%q", s.ID, s.Token)
	}

	got, err := gm.Get(s.ID)
	if err != nil || got != s {
		t.Errorf("Get(%s) = %v, %v", s.ID, got, err)
	}
	if gm.Count() != 1 {
		t.Errorf("count = %d, want 1", gm.Count())
	}

	if _, err := gm.Get("match_missing"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("missing match error = %v", err)
	}
}

func TestManagerRemove(t *testing.T) {
	gm := setupManager(t)
	s, _ := gm.CreateMatch(config.VariantSnooker)

	var notices []ClosedNotice
	gm.OnClosed(func(n ClosedNotice) { notices = append(notices, n) })

	if err := gm.Remove(s.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := gm.Remove(s.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("second Remove = %v, want ErrMatchNotFound", err)
	}
	if len(notices) != 1 || notices[0].MatchID != s.ID || notices[0].Reason != CloseReasonEnded {
		t.Errorf("notices = %+v, want one %q notice", notices, CloseReasonEnded)
	}
	// no Redis: nothing to fall back to
	if _, err := gm.Snapshot(context.Background(), s.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("snapshot of removed match = %v", err)
	}
}

func TestManagerAdvancePlaysAShot(t *testing.T) {
	gm := setupManager(t)
	s, _ := gm.CreateMatch(config.VariantPool)

	strike(t, gm, s.ID)
	up, err := gm.Advance(s.ID, 5000)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	var started, ended bool
	for _, ev := range up.Events {
		started = started || ev.Name == EventShotStarted
		ended = ended || ev.Name == EventShotEnded
	}
	if !started || !ended {
		t.Errorf("shot events: started=%v ended=%v", started, ended)
	}
	if up.Snapshot.Tick == 0 || up.MatchID != s.ID {
		t.Errorf("update = tick %d for %q", up.Snapshot.Tick, up.MatchID)
	}
}

func TestManagerDriverStepNotifiesListeners(t *testing.T) {
	gm := setupManager(t)
	moving, _ := gm.CreateMatch(config.VariantPool)
	idle, _ := gm.CreateMatch(config.VariantPool)

	var updates []Update
	gm.OnUpdate(func(up Update) { updates = append(updates, up) })

	strike(t, gm, moving.ID)
	gm.step()

	if len(updates) != 1 || updates[0].MatchID != moving.ID {
		t.Fatalf("updates = %+v, want one for the struck match", updates)
	}
	if updates[0].MatchID == idle.ID {
		t.Errorf("settled match was ticked")
	}
}

func TestManagerReapsIdleMatches(t *testing.T) {
	gm := setupManager(t)
	old, _ := gm.CreateMatch(config.VariantPool)
	fresh, _ := gm.CreateMatch(config.VariantPool)

	var notices []ClosedNotice
	gm.OnClosed(func(n ClosedNotice) { notices = append(notices, n) })

	// only the old match has been idle past the window
	gm.WithSession(fresh.ID, func(*Match) error { return nil })
	old.mu.Lock()
	old.LastActivity = time.Now().Add(-time.Hour)
	old.mu.Unlock()

	reaped := gm.reapIdle(context.Background(), time.Now())
	if len(reaped) != 1 || reaped[0] != old.ID {
		t.Fatalf("reaped = %v, want [%s]", reaped, old.ID)
	}
	if _, err := gm.Get(fresh.ID); err != nil {
		t.Errorf("active match reaped: %v", err)
	}
	if len(notices) != 1 || notices[0].MatchID != old.ID || notices[0].Reason != CloseReasonIdle {
		t.Errorf("notices = %+v", notices)
	}
}
