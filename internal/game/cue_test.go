package game

import (
	"math"
	"testing"

	"github.com/playmatatu/cuetable/internal/config"
)

func setupCue(t *testing.T) (*Table, *Cue, *Ball) {
	t.Helper()
	cfg := config.DefaultMatchConfig(config.VariantPool)
	table := NewTable(cfg)
	ball := table.AddBall(BallCue, ColorWhite, NewVec2(500, 250), 14)
	return table, NewCue(table, cfg.CueLength, cfg.MaxShotSpeed), ball
}

func TestCueShootsAwayFromPointer(t *testing.T) {
	_, cue, ball := setupCue(t)

	// pull back 100 to the left: shot goes right at a quarter of max speed
	cue.PointerDown(NewVec2(400, 250))
	if !cue.PointerUp(NewVec2(400, 250)) {
		t.Fatalf("no shot launched")
	}
	if ball.Direction.X != 1 || ball.Direction.Y != 0 {
		t.Errorf("direction = (%.2f, %.2f), want (1, 0)", ball.Direction.X, ball.Direction.Y)
	}
	if !approx(ball.Speed, 7.5) {
		t.Errorf("speed = %.4f, want 7.5", ball.Speed)
	}
}

func TestCueSpeedCappedByLength(t *testing.T) {
	_, cue, _ := setupCue(t)

	v := cue.ShotVelocity(NewVec2(500, 250+2000))
	if !approx(v.Magnitude(), cue.MaxSpeed) {
		t.Errorf("speed = %.4f, want capped at %.1f", v.Magnitude(), cue.MaxSpeed)
	}
	if v.Y >= 0 {
		t.Errorf("shot should travel up, got %+v", v)
	}
}

func TestCueIgnoresInputWhenInactive(t *testing.T) {
	_, cue, ball := setupCue(t)
	cue.SetActive(false)

	cue.PointerDown(NewVec2(400, 250))
	if cue.PointerUp(NewVec2(400, 250)) || ball.IsMoving() {
		t.Errorf("inactive cue launched a shot")
	}
}

func TestCueReleaseWithoutPress(t *testing.T) {
	_, cue, ball := setupCue(t)

	if cue.PointerUp(NewVec2(400, 250)) || ball.IsMoving() {
		t.Errorf("release without a press launched a shot")
	}
}

func TestCueGuideHitsCushionFace(t *testing.T) {
	_, cue, _ := setupCue(t)

	cue.PointerDown(NewVec2(400, 250))
	cue.PointerMove(NewVec2(400, 250))

	g, ok := cue.Guide()
	if !ok {
		t.Fatalf("no guide point")
	}
	// right cushion face
	if !approx(g.X, 980) || !approx(g.Y, 250) {
		t.Errorf("guide = (%.2f, %.2f), want (980, 250)", g.X, g.Y)
	}

	st := cue.State()
	if st.Guide == nil || !approx(st.Power, 0.25) {
		t.Errorf("state = %+v, want a guide and quarter power", st)
	}
	if !approx(st.Angle, 0) {
		t.Errorf("angle = %.4f, want 0", st.Angle)
	}
}

func TestCueGuideDiagonal(t *testing.T) {
	_, cue, _ := setupCue(t)
	// aim up and to the left at 45 degrees
	cue.PointerDown(NewVec2(600, 350))
	cue.PointerMove(NewVec2(600, 350))

	g, ok := cue.Guide()
	if !ok {
		t.Fatalf("no guide point")
	}
	// top face is y=20, reached after 230 in each axis
	if !approx(g.Y, 20) || math.Abs(g.X-270) > 1e-6 {
		t.Errorf("guide = (%.4f, %.4f), want (270, 20)", g.X, g.Y)
	}
}

func TestCueBallPlacement(t *testing.T) {
	table, cue, ball := setupCue(t)
	other := table.AddBall(BallObject, ColorRed, NewVec2(300, 250), 14)
	ball.InHand = true

	cue.PointerDown(ball.Position)
	cue.PointerMove(NewVec2(200, 200))
	if ball.Position != NewVec2(200, 200) {
		t.Errorf("ball not dragged: %+v", ball.Position)
	}

	// onto another ball: refused
	cue.PointerMove(other.Position)
	if ball.Position != NewVec2(200, 200) {
		t.Errorf("ball placed on top of another: %+v", ball.Position)
	}

	// off the table: clamped to the cloth
	cue.PointerMove(NewVec2(-500, 250))
	if !approx(ball.Position.X, 34) {
		t.Errorf("ball not clamped: x=%.2f, want 34", ball.Position.X)
	}

	if cue.PointerUp(NewVec2(-500, 250)) || ball.IsMoving() {
		t.Errorf("releasing a placement struck the ball")
	}
	if !ball.InHand {
		t.Errorf("placement should not clear ball in hand")
	}
}

func TestCuePlacementRejectsPocket(t *testing.T) {
	_, cue, ball := setupCue(t)
	ball.InHand = true
	start := ball.Position

	// the clamped spot next to the top-left corner still sits in the pocket
	if cue.Place(NewVec2(0, 0)) {
		t.Errorf("placed inside a pocket at %+v", ball.Position)
	}
	if ball.Position != start {
		t.Errorf("rejected placement moved the ball")
	}
}
