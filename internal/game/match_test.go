package game

import (
	"errors"
	"testing"

	"github.com/playmatatu/cuetable/internal/config"
)

func newTestMatch(t *testing.T, v config.Variant) *Match {
	t.Helper()
	m, err := NewMatch(config.DefaultMatchConfig(v))
	if err != nil {
		t.Fatalf("NewMatch(%s): %v", v, err)
	}
	return m
}

func TestNewMatchRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultMatchConfig(config.VariantPool)
	cfg.Friction = 0
	if _, err := NewMatch(cfg); err == nil {
		t.Errorf("zero friction accepted")
	}

	cfg = config.DefaultMatchConfig(config.VariantPool)
	cfg.Variant = "carom"
	if _, err := NewMatch(cfg); err == nil {
		t.Errorf("unknown variant accepted")
	}

	cfg = config.DefaultMatchConfig(config.VariantSandbox)
	cfg.Width = 1
	if _, err := NewMatch(cfg); err == nil {
		t.Errorf("table narrower than a rack accepted")
	}
}

func TestSandboxScatterGivesUpOnCrowdedCloth(t *testing.T) {
	cfg := config.DefaultMatchConfig(config.VariantSandbox)
	cfg.Width, cfg.Height = 60, 60

	table := NewSandboxTable(cfg)

	if n := len(table.Balls()); n < 1 || n > sandboxBalls+1 {
		t.Errorf("balls = %d", n)
	}
}

func TestPoolSnapshot(t *testing.T) {
	m := newTestMatch(t, config.VariantPool)
	snap := m.Snapshot()

	if len(snap.Balls) != 16 || len(snap.Pockets) != 6 {
		t.Errorf("balls=%d pockets=%d, want 16 and 6", len(snap.Balls), len(snap.Pockets))
	}
	colours := map[Color]int{}
	for _, b := range snap.Balls {
		colours[b.Color]++
	}
	if colours[ColorRed] != 7 || colours[ColorYellow] != 7 || colours[ColorBlack] != 1 || colours[ColorWhite] != 1 {
		t.Errorf("rack colours = %v", colours)
	}
	if snap.Status != StatusInProgress || snap.State.Winner != NoWinner {
		t.Errorf("fresh match status=%s winner=%d", snap.Status, snap.State.Winner)
	}
	if !snap.Cue.Active || snap.Pocketed == nil {
		t.Errorf("fresh pool match should accept a shot and report an empty pocketed list")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := newTestMatch(t, config.VariantPool)
	snap := m.Snapshot()
	snap.State.Players[0].Score = 99

	if m.State().Players[0].Score != 0 {
		t.Errorf("snapshot shares player state with the match")
	}
}

func TestSandboxHandsCueBackWhenStill(t *testing.T) {
	m := newTestMatch(t, config.VariantSandbox)
	if m.Cue().Active() {
		t.Fatalf("cue active while sandbox balls are still moving")
	}

	n := m.RunUntilSettled(10000)
	if !m.Settled() {
		t.Fatalf("sandbox did not settle in %d ticks", n)
	}
	if !m.Cue().Active() {
		t.Errorf("cue not handed back after the table stopped")
	}

	var sawStart, sawEnd bool
	for _, ev := range m.DrainEvents() {
		sawStart = sawStart || ev.Name == EventShotStarted
		sawEnd = sawEnd || ev.Name == EventShotEnded
	}
	if !sawStart || !sawEnd {
		t.Errorf("shot boundaries not reported: started=%v ended=%v", sawStart, sawEnd)
	}
	if len(m.DrainEvents()) != 0 {
		t.Errorf("DrainEvents did not clear the backlog")
	}
}

func TestDemoPoolStartsLate(t *testing.T) {
	m := newTestMatch(t, config.VariantDemoPool)
	st := m.State()

	if got := len(m.Table().Balls()); got != 3 {
		t.Errorf("balls in play = %d, want cue, red and black", got)
	}
	if st.Players[0].Color != ColorRed || st.Players[1].Color != ColorYellow {
		t.Errorf("colours = %q/%q, want red/yellow", st.Players[0].Color, st.Players[1].Color)
	}
	if st.Players[0].Score != PoolGroupSize-1 || st.Players[1].Score != PoolGroupSize {
		t.Errorf("scores = %d/%d", st.Players[0].Score, st.Players[1].Score)
	}
}

func TestDemoPoolRedThenBlackWins(t *testing.T) {
	m := newTestMatch(t, config.VariantDemoPool)
	var red, black *Ball
	for _, b := range m.Table().Balls() {
		switch b.Color {
		case ColorRed:
			red = b
		case ColorBlack:
			black = b
		}
	}

	cue := m.Table().CueBall()

	// red straight below the top middle pocket, cue ball rolling up into it
	red.Position = NewVec2(500, 60)
	cue.Position = NewVec2(500, 100)
	cue.SetVelocity(NewVec2(0, -3))
	m.RunUntilSettled(2000)
	if !red.Pocketed || m.State().Current != 0 {
		t.Fatalf("red pot should keep the turn: pocketed=%v current=%d", red.Pocketed, m.State().Current)
	}

	black.Position = NewVec2(500, 440)
	cue.Position = NewVec2(500, 400)
	cue.SetVelocity(NewVec2(0, 3))
	m.RunUntilSettled(2000)

	st := m.State()
	if !st.GameEnded || st.Winner != 0 {
		t.Errorf("gameEnded=%v winner=%d, want player one to win", st.GameEnded, st.Winner)
	}
	if m.Snapshot().Status != StatusCompleted {
		t.Errorf("status = %s", m.Snapshot().Status)
	}
}

func TestApplyPointer(t *testing.T) {
	m := newTestMatch(t, config.VariantPool)
	at := m.Table().CueBall().Position.Minus(NewVec2(100, 0))

	if _, err := m.ApplyPointer(PointerActionDown, at); err != nil {
		t.Fatalf("down: %v", err)
	}
	if !m.Cue().State().Aiming {
		t.Errorf("cue not aiming after down")
	}
	struck, err := m.ApplyPointer(PointerActionUp, at)
	if err != nil || !struck {
		t.Errorf("up: struck=%v err=%v", struck, err)
	}

	if _, err := m.ApplyPointer("flick", at); !errors.Is(err, ErrUnknownPointerAction) {
		t.Errorf("unknown action error = %v", err)
	}
}
